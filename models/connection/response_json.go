package connection

import (
	mb "github.com/saeidalz13/battleship-match/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespMatchInfo struct {
	MatchUuid  string        `json:"match_uuid"`
	PlayerSlot mb.PlayerSlot `json:"player_slot"`
	GridSize   int           `json:"grid_size"`
	TotalShips int           `json:"total_ships"`
}

func NewRespMatchInfo(info mb.MatchInfo) RespMatchInfo {
	return RespMatchInfo{
		MatchUuid:  info.MatchUuid,
		PlayerSlot: info.Player,
		GridSize:   info.GridSize,
		TotalShips: info.TotalShips,
	}
}

type RespPlaceShip struct {
	Success     bool             `json:"success"`
	Coordinates []mb.Coordinates `json:"coordinates"`
	ShipsPlaced int              `json:"ships_placed"`
	TotalShips  int              `json:"total_ships"`
	Message     string           `json:"message"`
}

type RespPhase struct {
	Phase mb.Phase      `json:"phase"`
	Turn  mb.PlayerSlot `json:"turn"`
}

type RespTurn struct {
	Turn   mb.PlayerSlot `json:"turn"`
	IsTurn bool          `json:"is_turn"`
}

type RespAttack struct {
	Success       bool             `json:"success"`
	Coordinates   mb.Coordinates   `json:"coordinates"`
	Hit           bool             `json:"hit"`
	Repeated      bool             `json:"repeated"`
	ShipDestroyed bool             `json:"ship_destroyed"`
	DestroyedShip []mb.Coordinates `json:"destroyed_ship,omitempty"`
	IsTurn        bool             `json:"is_turn"`
	Message       string           `json:"message"`
}

func NewRespAttack(res mb.AttackResult, attacker mb.PlayerSlot) RespAttack {
	return RespAttack{
		Success:       res.Success,
		Coordinates:   res.Coordinates,
		Hit:           res.Hit,
		Repeated:      res.Repeated,
		ShipDestroyed: res.ShipDestroyed,
		DestroyedShip: res.DestroyedShip,
		IsTurn:        res.Phase == mb.PhaseAttack && res.Turn == attacker,
		Message:       res.Message,
	}
}

// Defender's copy of an attack, with its own board after
// the shot landed.
type RespAttackReceived struct {
	Coordinates   mb.Coordinates `json:"coordinates"`
	Hit           bool           `json:"hit"`
	ShipDestroyed bool           `json:"ship_destroyed"`
	IsTurn        bool           `json:"is_turn"`
	Board         mb.GridView    `json:"board"`
}

type RespGrids struct {
	Placement    mb.GridView `json:"placement"`
	Attack       mb.GridView `json:"attack"`
	OpponentView mb.GridView `json:"opponent_view"`
}

type RespShipsPlaced struct {
	mb.ShipsPlacedStatus
}

type RespScore struct {
	Scores [2]mb.Score `json:"scores"`
}

type RespEndGame struct {
	Winner            mb.PlayerSlot `json:"winner"`
	PlayerMatchStatus int           `json:"player_match_status"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
