package connection

// SessionMessage is an outbound message addressed to a
// session by id. Handlers return these and the request
// processor delivers them.
type SessionMessage struct {
	PayloadType uint8
	ReceiverID  string
	Payload     interface{}
}

func NewSessionMessageJSON(receiverId string, p interface{}) SessionMessage {
	return SessionMessage{
		PayloadType: MessageTypeJSON,
		ReceiverID:  receiverId,
		Payload:     p,
	}
}

func NewSessionMessageBytes(receiverId string, p []byte) SessionMessage {
	return SessionMessage{
		PayloadType: MessageTypeBytes,
		ReceiverID:  receiverId,
		Payload:     p,
	}
}
