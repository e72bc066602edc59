package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateMatch
	CodeJoinMatch

	// Both seats are taken; players may start placing ships
	CodeSelectGrid
	CodePlaceShip
	CodePhaseChanged
	CodeAttack

	// Sent to the defender after the opponent fired
	CodeAttackReceived
	CodeTurnChanged
	CodeEndGame

	// Read-only queries
	CodeFetchPhase
	CodeFetchTurn
	CodeFetchGrids
	CodeFetchShipsPlaced
	CodeFetchScore

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	CodeOtherPlayerDisconnected
	CodeOtherPlayerReconnected
	CodeOtherPlayerGracePeriod

	// Players can send template texts and emojis to each other
	CodePlayerInteraction
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
