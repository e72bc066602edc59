package battleship

import (
	cerr "github.com/saeidalz13/battleship-match/internal/error"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

// PlayerSlot identifies one of the two seats of a match.
// The host always sits in PlayerOne.
type PlayerSlot uint8

const (
	PlayerOne PlayerSlot = iota
	PlayerTwo
)

func ParsePlayerSlot(id int) (PlayerSlot, error) {
	if id != int(PlayerOne) && id != int(PlayerTwo) {
		return PlayerOne, cerr.ErrInvalidPlayerSlot(id)
	}
	return PlayerSlot(id), nil
}

func (p PlayerSlot) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

func (p PlayerSlot) Opponent() PlayerSlot {
	return 1 - p
}

// Player bundles the two boards of one seat.
type Player struct {
	placement *PlacementGrid
	attack    *AttackGrid
}

func newPlayer(gridSize int) *Player {
	return &Player{
		placement: NewPlacementGrid(gridSize),
		attack:    NewAttackGrid(gridSize),
	}
}

func (p *Player) PlacementGrid() *PlacementGrid {
	return p.placement
}

func (p *Player) AttackGrid() *AttackGrid {
	return p.attack
}

// IsDefeated is true when every placed cell was struck or
// every placed ship is sunk.
func (p *Player) IsDefeated() bool {
	return p.placement.CellsHit() == p.placement.TotalOccupiedCells() || p.placement.ShipsRemaining() == 0
}
