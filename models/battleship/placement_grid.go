package battleship

type AttackOutcome uint8

const (
	OutcomeMiss AttackOutcome = iota
	OutcomeHit

	// The cell was already resolved by an earlier shot
	OutcomeRepeat
	OutcomeOutOfBounds
)

type PlacementOutcome struct {
	Success     bool
	Coordinates []Coordinates
}

// PlacementGrid holds a player's own fleet and records the
// shots the opponent fires at it.
type PlacementGrid struct {
	Grid
	ships          []*Ship
	shipIndex      map[Coordinates]int
	shipsRemaining int
	cellsHit       int
	occupiedCells  int
}

func NewPlacementGrid(gridSize int) *PlacementGrid {
	return &PlacementGrid{
		Grid:      NewGrid(gridSize),
		ships:     make([]*Ship, 0),
		shipIndex: make(map[Coordinates]int),
	}
}

// PlaceShip is all or nothing: if any cell is out of bounds or
// already taken, the grid is left untouched and the attempted
// coordinates are returned with Success false.
func (pg *PlacementGrid) PlaceShip(start Coordinates, length int, orientation Orientation) PlacementOutcome {
	coords := Expand(start, length, orientation)
	if length <= 0 || !orientation.Valid() {
		return PlacementOutcome{Success: false, Coordinates: coords}
	}

	for _, c := range coords {
		if !pg.IsValid(c) || pg.get(c) != CellEmpty {
			return PlacementOutcome{Success: false, Coordinates: coords}
		}
	}

	for _, c := range coords {
		pg.set(c, CellShip)
		pg.shipIndex[c] = len(pg.ships)
	}
	pg.ships = append(pg.ships, NewShip(coords))
	pg.shipsRemaining++
	pg.occupiedCells += len(coords)

	return PlacementOutcome{Success: true, Coordinates: coords}
}

// ReceiveAttack reports whether the shot hit a ship. Out of
// bounds and already resolved cells are ignored.
func (pg *PlacementGrid) ReceiveAttack(c Coordinates) bool {
	outcome, _ := pg.resolveAttack(c)
	return outcome == OutcomeHit
}

// resolveAttack returns the sunk ship when the shot completes it.
func (pg *PlacementGrid) resolveAttack(c Coordinates) (AttackOutcome, *Ship) {
	if !pg.IsValid(c) {
		return OutcomeOutOfBounds, nil
	}

	switch pg.get(c) {
	case CellShip:
		pg.set(c, CellHit)
		pg.cellsHit++

		ship := pg.ships[pg.shipIndex[c]]
		ship.GotHit()
		if ship.IsSunk() {
			pg.shipsRemaining--
			return OutcomeHit, ship
		}
		return OutcomeHit, nil

	case CellEmpty:
		pg.set(c, CellMiss)
		return OutcomeMiss, nil

	default:
		return OutcomeRepeat, nil
	}
}

func (pg *PlacementGrid) ShipsRemaining() int {
	return pg.shipsRemaining
}

func (pg *PlacementGrid) ShipsPlaced() int {
	return len(pg.ships)
}

func (pg *PlacementGrid) CellsHit() int {
	return pg.cellsHit
}

func (pg *PlacementGrid) TotalOccupiedCells() int {
	return pg.occupiedCells
}

func (pg *PlacementGrid) Ships() [][]Coordinates {
	ships := make([][]Coordinates, 0, len(pg.ships))
	for _, ship := range pg.ships {
		ships = append(ships, ship.GetCoordinates())
	}
	return ships
}

func (pg *PlacementGrid) DestroyedShips() [][]Coordinates {
	ships := make([][]Coordinates, 0)
	for _, ship := range pg.ships {
		if ship.IsSunk() {
			ships = append(ships, ship.GetCoordinates())
		}
	}
	return ships
}

// MaskedSnapshot is the board as the opponent may see it:
// ships that were not hit yet show as empty water.
func (pg *PlacementGrid) MaskedSnapshot() GridView {
	view := pg.Snapshot()
	for y := range view {
		for x := range view[y] {
			if view[y][x] == CellShip {
				view[y][x] = CellEmpty
			}
		}
	}
	return view
}
