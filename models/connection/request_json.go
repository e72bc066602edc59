package connection

import (
	mb "github.com/saeidalz13/battleship-match/models/battleship"
)

// Zero values fall back to the server defaults.
type ReqCreateMatch struct {
	GridSize   int `json:"grid_size"`
	TotalShips int `json:"total_ships"`
}

type ReqJoinMatch struct {
	MatchUuid string `json:"match_uuid"`
}

type ReqPlaceShip struct {
	Start       mb.Coordinates `json:"start"`
	Length      int            `json:"length"`
	Orientation mb.Orientation `json:"orientation"`
}

type ReqAttack struct {
	Coordinates mb.Coordinates `json:"coordinates"`
}
