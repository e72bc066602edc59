package battleship

// AttackGrid is the attacker's record of its own shots. It has
// no effect on the game rules.
type AttackGrid struct {
	Grid
}

func NewAttackGrid(gridSize int) *AttackGrid {
	return &AttackGrid{Grid: NewGrid(gridSize)}
}

func (ag *AttackGrid) MarkHit(c Coordinates) {
	if ag.IsValid(c) {
		ag.set(c, CellMarkedHit)
	}
}

func (ag *AttackGrid) MarkMiss(c Coordinates) {
	if ag.IsValid(c) {
		ag.set(c, CellMiss)
	}
}
