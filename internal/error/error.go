package error

import "fmt"

const (
	ConstErrPlaceShipFailed = "place ship operation failed"
	ConstErrAttackFailed    = "attack operation failed"
)

func ErrMatchNotExists(matchUuid string) error {
	return fmt.Errorf("match with this uuid does not exist, uuid: %s", matchUuid)
}

func ErrMatchIsNil(matchUuid string) error {
	return fmt.Errorf("match with this uuid is nil, uuid: %s", matchUuid)
}

func ErrMatchFull(matchUuid string) error {
	return fmt.Errorf("match already has two players, uuid: %s", matchUuid)
}

func ErrMatchUuidExhausted() error {
	return fmt.Errorf("could not generate an unused match uuid")
}

func ErrEmptyMatchUuid() error {
	return fmt.Errorf("match uuid cannot be empty")
}

func ErrInvalidGridSize(gridSize int) error {
	return fmt.Errorf("invalid grid size:\t%d", gridSize)
}

func ErrInvalidTotalShips(totalShips int) error {
	return fmt.Errorf("invalid number of ships per player:\t%d", totalShips)
}

func ErrInvalidPlayerSlot(id int) error {
	return fmt.Errorf("invalid player id, must be 0 or 1:\t%d", id)
}

func ErrInvalidOrientation(orientation string) error {
	return fmt.Errorf("invalid orientation, must be horizontal or vertical:\t%s", orientation)
}

func ErrInvalidFirstTurnPolicy(policy string) error {
	return fmt.Errorf("invalid first turn policy:\t%s", policy)
}

func ErrInvalidCellState(state uint8) error {
	return fmt.Errorf("invalid cell state:\t%d", state)
}

func ErrInvalidCellStateName(name string) error {
	return fmt.Errorf("invalid cell state name:\t%s", name)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("incoming x or y is out of game grid bound\tx: %d\ty: %d", x, y)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrSessionHasNoMatch(sessionId string) error {
	return fmt.Errorf("session is not part of any match, id: %s", sessionId)
}

func ErrSessionAlreadyInMatch(sessionId string) error {
	return fmt.Errorf("session is already part of a match, id: %s", sessionId)
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("invalid type of development stage: %s", stage)
}
