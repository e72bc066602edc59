package connection

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn)
	awaitReconnection(deadConn *websocket.Conn, gracePeriod time.Duration) bool
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session outlives a single websocket connection: a client
// that drops can come back with the session id and pick up
// where it left.
type Session struct {
	id        string
	createdAt time.Time

	mu                     sync.RWMutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan bool
	lastSeen               time.Time
	matchUuid              string
	player                 mb.PlayerSlot
	inMatch                bool

	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex
}

func NewSession(id string, conn *websocket.Conn) *Session {
	now := time.Now()
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              now,
		lastSeen:               now,
	}
}

var _ ConnectionHandler = (*Session)(nil)

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Match returns the match this session plays in and its seat.
func (s *Session) Match() (string, mb.PlayerSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchUuid, s.player, s.inMatch
}

func (s *Session) setMatch(matchUuid string, player mb.PlayerSlot) {
	s.mu.Lock()
	s.matchUuid = matchUuid
	s.player = player
	s.inMatch = true
	s.mu.Unlock()
}

func (s *Session) clearMatch() {
	s.mu.Lock()
	s.matchUuid = ""
	s.player = 0
	s.inMatch = false
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastSeen)
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return "<nil>"
	}
	return conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	// Happens if a mobile client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Println("abnormal closure error:", err)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	// Most likely not a client of this app (binary frames,
	// bad utf-8, oversized messages); not worth retrying.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// Writes to the connection of that session with a linear
// backoff on retryable errors.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var retries uint8

writeLoop:
	for {
		conn := s.Conn()
		if conn == nil {
			return NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		var err error
		switch msgType {
		case MessageTypeJSON:
			err = conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = conn.WriteMessage(websocket.TextMessage, respBytes)

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Printf("writing to ws failed [%s]; retrying... (retry no. %d)\n", conn.RemoteAddr().String(), retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue writeLoop
			}
			log.Printf("max retries reached for writing to ws [%s]: %s", conn.RemoteAddr().String(), err)
			return NewConnErr(ConnLoopBreak).WithCause(err)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").WithCause(err)
		}
	}
}

// Handles the errors that occur when reading from the ws
// connection. ConnLoopBreak ends the session.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Printf("failed to read from ws conn [%s]; retrying... (retry no. %d)\n", s.remoteAddr(), retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Printf("break ws conn loop [%s] due to: %s\n", s.remoteAddr(), err)
		return ConnLoopBreak
	}
}

// Swaps in the new connection and wakes whoever waits in
// awaitReconnection. The old connection is closed so a reader
// still blocked on it returns.
func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) {
	s.mu.Lock()
	oldConn := s.conn
	close(s.reconnectionSignalChan)
	s.conn = conn
	s.reconnectionSignalChan = make(chan bool)
	s.lastSeen = time.Now()
	s.mu.Unlock()

	if oldConn != nil && oldConn != conn {
		_ = oldConn.Close()
	}
}

func (s *Session) awaitReconnection(deadConn *websocket.Conn, gracePeriod time.Duration) bool {
	s.mu.RLock()
	signal := s.reconnectionSignalChan
	reconnected := s.conn != deadConn
	s.mu.RUnlock()
	if reconnected {
		return true
	}

	timer := time.NewTimer(gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		return false
	case <-signal:
		return true
	}
}
