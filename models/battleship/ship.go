package battleship

type Ship struct {
	coordinates []Coordinates
	hits        int
}

func NewShip(coordinates []Coordinates) *Ship {
	coords := make([]Coordinates, len(coordinates))
	copy(coords, coordinates)

	return &Ship{coordinates: coords}
}

func (sh *Ship) GotHit() {
	sh.hits++
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == len(sh.coordinates)
}

func (sh *Ship) Length() int {
	return len(sh.coordinates)
}

func (sh *Ship) GetCoordinates() []Coordinates {
	coords := make([]Coordinates, len(sh.coordinates))
	copy(coords, sh.coordinates)
	return coords
}
