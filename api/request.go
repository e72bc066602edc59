package api

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-match/internal/error"
	"github.com/saeidalz13/battleship-match/internal/metrics"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
	mc "github.com/saeidalz13/battleship-match/models/connection"
)

// matchSeat is where a session sits: its match, its slot
// and, once joined, the session of the other player.
type matchSeat struct {
	sessionId  string
	opponentId string
	matchUuid  string
	player     mb.PlayerSlot
}

func (s matchSeat) toSelf(msg interface{}) mc.SessionMessage {
	return mc.NewSessionMessageJSON(s.sessionId, msg)
}

// toOpponent returns nothing while the match waits for a
// second player.
func (s matchSeat) toOpponent(msg interface{}) []mc.SessionMessage {
	if s.opponentId == "" {
		return nil
	}
	return []mc.SessionMessage{mc.NewSessionMessageJSON(s.opponentId, msg)}
}

type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		var zero T
		return zero, err
	}
	return msg.Payload, nil
}

// Zero grid size or total ships fall back to the defaults.
func (r Request) HandleCreateMatch(mm mb.MatchManager, defaultGridSize, defaultTotalShips int) (mb.MatchInfo, mc.Message[mc.RespMatchInfo]) {
	resp := mc.NewMessage[mc.RespMatchInfo](mc.CodeCreateMatch)

	req, err := decodePayload[mc.ReqCreateMatch](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid create match payload")
		return mb.MatchInfo{}, resp
	}

	if req.GridSize == 0 {
		req.GridSize = defaultGridSize
	}
	if req.TotalShips == 0 {
		req.TotalShips = defaultTotalShips
	}

	info, err := mm.CreateMatch(req.GridSize, req.TotalShips)
	if err != nil {
		resp.AddError(err.Error(), "failed to create match")
		return mb.MatchInfo{}, resp
	}

	resp.AddPayload(mc.NewRespMatchInfo(info))
	return info, resp
}

func (r Request) HandleJoinMatch(mm mb.MatchManager) (mb.MatchInfo, mc.Message[mc.RespMatchInfo]) {
	resp := mc.NewMessage[mc.RespMatchInfo](mc.CodeJoinMatch)

	req, err := decodePayload[mc.ReqJoinMatch](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid join match payload")
		return mb.MatchInfo{}, resp
	}

	info, err := mm.JoinMatch(req.MatchUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to join match")
		return mb.MatchInfo{}, resp
	}

	resp.AddPayload(mc.NewRespMatchInfo(info))
	return info, resp
}

func (r Request) HandlePlaceShip(mm mb.MatchManager, seat matchSeat) []mc.SessionMessage {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)

	req, err := decodePayload[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddPayload(mc.RespPlaceShip{Message: "invalid place ship payload"})
		resp.AddError(err.Error(), cerr.ConstErrPlaceShipFailed)
		return []mc.SessionMessage{seat.toSelf(resp)}
	}

	var (
		result     mb.PlacementResult
		totalShips int
	)
	err = mm.WithMatch(seat.matchUuid, func(m *mb.Match) error {
		result = m.PlaceShip(seat.player, req.Start, req.Length, req.Orientation)
		totalShips = m.TotalShips()
		return nil
	})
	if err != nil {
		resp.AddPayload(mc.RespPlaceShip{Message: cerr.ConstErrPlaceShipFailed})
		resp.AddError(err.Error(), cerr.ConstErrPlaceShipFailed)
		return []mc.SessionMessage{seat.toSelf(resp)}
	}
	metrics.ObservePlacement(result.Success)

	resp.AddPayload(mc.RespPlaceShip{
		Success:     result.Success,
		Coordinates: result.Coordinates,
		ShipsPlaced: result.ShipsPlaced,
		TotalShips:  totalShips,
		Message:     result.Message,
	})
	if !result.Success {
		resp.AddError(result.Reason.String(), result.Message)
		return []mc.SessionMessage{seat.toSelf(resp)}
	}

	msgs := []mc.SessionMessage{seat.toSelf(resp)}
	if result.PhaseChanged {
		phaseMsg := mc.NewMessage[mc.RespPhase](mc.CodePhaseChanged)
		phaseMsg.AddPayload(mc.RespPhase{Phase: result.Phase, Turn: result.Turn})
		msgs = append(msgs, seat.toSelf(phaseMsg))
		msgs = append(msgs, seat.toOpponent(phaseMsg)...)
	}
	return msgs
}

// HandleAttack reports whether this attack ended the match.
// The defender gets its own board back; turn and end of game
// signals go to both players.
func (r Request) HandleAttack(mm mb.MatchManager, seat matchSeat) ([]mc.SessionMessage, bool) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decodePayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddPayload(mc.RespAttack{Message: "invalid attack payload"})
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return []mc.SessionMessage{seat.toSelf(resp)}, false
	}

	var (
		result        mb.AttackResult
		defenderBoard mb.GridView
	)
	err = mm.WithMatch(seat.matchUuid, func(m *mb.Match) error {
		result = m.Attack(seat.player, req.Coordinates)
		if !result.Success || result.Repeated {
			return nil
		}

		grids, err := m.Grids(seat.player.Opponent())
		if err != nil {
			return err
		}
		defenderBoard = grids.Placement
		return nil
	})
	if err != nil {
		resp.AddPayload(mc.RespAttack{Coordinates: req.Coordinates, Message: cerr.ConstErrAttackFailed})
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return []mc.SessionMessage{seat.toSelf(resp)}, false
	}
	metrics.ObserveAttack(result.Success, result.Hit, result.Repeated, result.ShipDestroyed)

	resp.AddPayload(mc.NewRespAttack(result, seat.player))
	if !result.Success {
		resp.AddError(result.Reason.String(), result.Message)
		return []mc.SessionMessage{seat.toSelf(resp)}, false
	}

	msgs := []mc.SessionMessage{seat.toSelf(resp)}
	if result.Repeated {
		return msgs, false
	}

	defender := seat.player.Opponent()
	received := mc.NewMessage[mc.RespAttackReceived](mc.CodeAttackReceived)
	received.AddPayload(mc.RespAttackReceived{
		Coordinates:   result.Coordinates,
		Hit:           result.Hit,
		ShipDestroyed: result.ShipDestroyed,
		IsTurn:        result.Phase == mb.PhaseAttack && result.Turn == defender,
		Board:         defenderBoard,
	})
	msgs = append(msgs, seat.toOpponent(received)...)

	if result.TurnChanged && !result.GameOver {
		turnSelf := mc.NewMessage[mc.RespTurn](mc.CodeTurnChanged)
		turnSelf.AddPayload(mc.RespTurn{Turn: result.Turn, IsTurn: result.Turn == seat.player})
		turnOpponent := mc.NewMessage[mc.RespTurn](mc.CodeTurnChanged)
		turnOpponent.AddPayload(mc.RespTurn{Turn: result.Turn, IsTurn: result.Turn == defender})

		msgs = append(msgs, seat.toSelf(turnSelf))
		msgs = append(msgs, seat.toOpponent(turnOpponent)...)
	}

	if result.GameOver {
		endWinner := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
		endWinner.AddPayload(mc.RespEndGame{Winner: result.Winner, PlayerMatchStatus: mb.PlayerMatchStatusWon})
		endLoser := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
		endLoser.AddPayload(mc.RespEndGame{Winner: result.Winner, PlayerMatchStatus: mb.PlayerMatchStatusLost})

		msgs = append(msgs, seat.toSelf(endWinner))
		msgs = append(msgs, seat.toOpponent(endLoser)...)
	}
	return msgs, result.GameOver
}

// queryMatch runs a read-only fn under the match lock and
// wraps its result in a reply for the asking session.
func queryMatch[T any](mm mb.MatchManager, seat matchSeat, code uint8, fn func(*mb.Match) (T, error)) mc.SessionMessage {
	resp := mc.NewMessage[T](code)

	var payload T
	err := mm.WithMatch(seat.matchUuid, func(m *mb.Match) error {
		var err error
		payload, err = fn(m)
		return err
	})
	if err != nil {
		resp.AddError(err.Error(), "failed to fetch match data")
		return seat.toSelf(resp)
	}

	resp.AddPayload(payload)
	return seat.toSelf(resp)
}

func (r Request) HandleFetchPhase(mm mb.MatchManager, seat matchSeat) mc.SessionMessage {
	return queryMatch(mm, seat, mc.CodeFetchPhase, func(m *mb.Match) (mc.RespPhase, error) {
		return mc.RespPhase{Phase: m.Phase(), Turn: m.Turn()}, nil
	})
}

func (r Request) HandleFetchTurn(mm mb.MatchManager, seat matchSeat) mc.SessionMessage {
	return queryMatch(mm, seat, mc.CodeFetchTurn, func(m *mb.Match) (mc.RespTurn, error) {
		return mc.RespTurn{
			Turn:   m.Turn(),
			IsTurn: m.Phase() == mb.PhaseAttack && m.Turn() == seat.player,
		}, nil
	})
}

func (r Request) HandleFetchGrids(mm mb.MatchManager, seat matchSeat) mc.SessionMessage {
	return queryMatch(mm, seat, mc.CodeFetchGrids, func(m *mb.Match) (mc.RespGrids, error) {
		grids, err := m.Grids(seat.player)
		if err != nil {
			return mc.RespGrids{}, err
		}
		opponentView, err := m.OpponentView(seat.player)
		if err != nil {
			return mc.RespGrids{}, err
		}

		return mc.RespGrids{
			Placement:    grids.Placement,
			Attack:       grids.Attack,
			OpponentView: opponentView,
		}, nil
	})
}

func (r Request) HandleFetchShipsPlaced(mm mb.MatchManager, seat matchSeat) mc.SessionMessage {
	return queryMatch(mm, seat, mc.CodeFetchShipsPlaced, func(m *mb.Match) (mc.RespShipsPlaced, error) {
		status, err := m.ShipsPlacedStatus(seat.player)
		return mc.RespShipsPlaced{ShipsPlacedStatus: status}, err
	})
}

func (r Request) HandleFetchScore(mm mb.MatchManager, seat matchSeat) mc.SessionMessage {
	return queryMatch(mm, seat, mc.CodeFetchScore, func(m *mb.Match) (mc.RespScore, error) {
		return mc.RespScore{Scores: m.Score()}, nil
	})
}
