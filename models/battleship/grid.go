package battleship

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-match/internal/error"
)

type CellState uint8

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss

	// Shot confirmed as a hit, as seen on the attacker's
	// own tracking grid
	CellMarkedHit
)

func (cs CellState) String() string {
	switch cs {
	case CellEmpty:
		return "empty"
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	case CellMarkedHit:
		return "marked_hit"
	default:
		return fmt.Sprintf("cell(%d)", uint8(cs))
	}
}

// Grids travel as arrays of names; without a text marshaler
// encoding/json would turn []CellState into base64.
func (cs CellState) MarshalText() ([]byte, error) {
	if cs > CellMarkedHit {
		return nil, cerr.ErrInvalidCellState(uint8(cs))
	}
	return []byte(cs.String()), nil
}

func (cs *CellState) UnmarshalText(text []byte) error {
	for state := CellEmpty; state <= CellMarkedHit; state++ {
		if state.String() == string(text) {
			*cs = state
			return nil
		}
	}
	return cerr.ErrInvalidCellStateName(string(text))
}

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) Valid() bool {
	return o == OrientationHorizontal || o == OrientationVertical
}

func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", uint8(o))
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, cerr.ErrInvalidOrientation(o.String())
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal":
		*o = OrientationHorizontal
	case "vertical":
		*o = OrientationVertical
	default:
		return cerr.ErrInvalidOrientation(string(text))
	}
	return nil
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Expand lays out `length` coordinates from start. Bounds are
// not checked here; PlaceShip validates every produced cell.
func Expand(start Coordinates, length int, orientation Orientation) []Coordinates {
	if length <= 0 {
		return []Coordinates{}
	}

	coords := make([]Coordinates, 0, length)
	for i := 0; i < length; i++ {
		switch orientation {
		case OrientationHorizontal:
			coords = append(coords, NewCoordinates(start.X+i, start.Y))
		case OrientationVertical:
			coords = append(coords, NewCoordinates(start.X, start.Y+i))
		default:
			return []Coordinates{}
		}
	}
	return coords
}

// GridView is a detached copy of a grid, indexed [y][x].
type GridView [][]CellState

// Grid is a square board indexed [y][x]. All cells
// start as CellEmpty.
type Grid struct {
	size  int
	cells [][]CellState
}

func NewGrid(gridSize int) Grid {
	cells := make([][]CellState, gridSize)
	for i := 0; i < gridSize; i++ {
		cells[i] = make([]CellState, gridSize)
	}

	return Grid{size: gridSize, cells: cells}
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) IsValid(c Coordinates) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

func (g *Grid) CellAt(c Coordinates) (CellState, error) {
	if !g.IsValid(c) {
		return CellEmpty, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}
	return g.cells[c.Y][c.X], nil
}

func (g *Grid) Snapshot() GridView {
	view := make(GridView, g.size)
	for y := range g.cells {
		view[y] = make([]CellState, g.size)
		copy(view[y], g.cells[y])
	}
	return view
}

// caller guarantees c is valid
func (g *Grid) set(c Coordinates, state CellState) {
	g.cells[c.Y][c.X] = state
}

func (g *Grid) get(c Coordinates) CellState {
	return g.cells[c.Y][c.X]
}
