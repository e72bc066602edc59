package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-match/db/sqlc"
	cerr "github.com/saeidalz13/battleship-match/internal/error"
	"github.com/saeidalz13/battleship-match/internal/metrics"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
	mc "github.com/saeidalz13/battleship-match/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	StageProd = "prod"
	StageDev  = "dev"
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	matchManager   mb.MatchManager

	// nil when no database is configured
	dbManager *sqlc.DbManager

	upgrader          websocket.Upgrader
	defaultGridSize   int
	defaultTotalShips int
}

type Option func(*RequestProcessor) error

func NewRequestProcessor(sessionManager mc.SessionManager, matchManager mb.MatchManager, optFuncs ...Option) *RequestProcessor {
	rp := &RequestProcessor{
		sessionManager:    sessionManager,
		matchManager:      matchManager,
		defaultGridSize:   10,
		defaultTotalShips: 5,
		upgrader: websocket.Upgrader{
			// good average time since this is not a high-latency operation such as video streaming
			HandshakeTimeout: time.Second * 5,

			// probably more that enough but this is a good average size
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range optFuncs {
		if err := opt(rp); err != nil {
			panic(err)
		}
	}
	return rp
}

func WithDbManager(dbManager *sqlc.DbManager) Option {
	return func(rp *RequestProcessor) error {
		rp.dbManager = dbManager
		return nil
	}
}

func WithMatchDefaults(gridSize, totalShips int) Option {
	return func(rp *RequestProcessor) error {
		if gridSize < mb.MinGridSize || gridSize > mb.MaxGridSize {
			return cerr.ErrInvalidGridSize(gridSize)
		}
		if totalShips < 1 || totalShips > mb.MaxTotalShips {
			return cerr.ErrInvalidTotalShips(totalShips)
		}
		rp.defaultGridSize = gridSize
		rp.defaultTotalShips = totalShips
		return nil
	}
}

// In prod only the listed origins may open a websocket.
func WithStage(stage string, allowedOrigins ...string) Option {
	return func(rp *RequestProcessor) error {
		switch stage {
		case StageDev:
			rp.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
			return nil

		case StageProd:
			allowed := make(map[string]bool, len(allowedOrigins))
			for _, origin := range allowedOrigins {
				allowed[origin] = true
			}
			rp.upgrader.CheckOrigin = func(r *http.Request) bool {
				return allowed[r.Header.Get("Origin")]
			}
			return nil

		default:
			return cerr.ErrInvalidStage(stage)
		}
	}
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Println(err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	// The goroutine that owns the session keeps reading, now
	// from the new connection.
	if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
		log.Println(err)
		msg := mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID)
		msg.AddError(err.Error(), "session expired or never existed")
		_ = conn.WriteJSON(msg)
		conn.Close()
		return
	}

	session, err := rp.sessionManager.FindSession(sessionIdQuery)
	if err != nil {
		// removed by cleanup right after the swap
		log.Println(err)
		conn.Close()
		return
	}
	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		log.Printf("failed to confirm reconnection of %s: %v", session.Id(), err)
	}
}

// seatOf is ok only when the session sits in a match.
func (rp *RequestProcessor) seatOf(session *mc.Session) (matchSeat, bool) {
	matchUuid, player, inMatch := session.Match()
	if !inMatch {
		return matchSeat{}, false
	}

	opponentId, _ := rp.sessionManager.FindOpponentSessionId(session)
	return matchSeat{
		sessionId:  session.Id(),
		opponentId: opponentId,
		matchUuid:  matchUuid,
		player:     player,
	}, true
}

// deliver writes msgs addressed to this session on its own
// connection and relays the rest. Only a failure on the own
// connection is returned.
func (rp *RequestProcessor) deliver(session *mc.Session, msgs ...mc.SessionMessage) error {
	for _, msg := range msgs {
		if msg.ReceiverID == session.Id() {
			if err := rp.sessionManager.WriteToSessionConn(session, msg.Payload, msg.PayloadType); err != nil {
				return err
			}
			continue
		}

		if err := rp.sessionManager.Communicate(msg.ReceiverID, msg.Payload, msg.PayloadType); err != nil {
			log.Printf("failed to deliver to session %s: %v", msg.ReceiverID, err)
		}
	}
	return nil
}

func (rp *RequestProcessor) replyError(session *mc.Session, code uint8, err error, message string) error {
	msg := mc.NewMessage[mc.NoPayload](code)
	msg.AddError(err.Error(), message)
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

func (rp *RequestProcessor) recordMatchCreated() {
	metrics.MatchesCreated.Inc()
	metrics.ActiveMatches.Set(float64(rp.matchManager.MatchCount()))
	if rp.dbManager != nil {
		rp.dbManager.RecordMatchCreated()
	}
}

func (rp *RequestProcessor) recordMatchFinished() {
	metrics.MatchesFinished.Inc()
	if rp.dbManager != nil {
		rp.dbManager.RecordMatchFinished()
	}
}

// endSession tears down the match of the session, if any, and
// tells the other player.
func (rp *RequestProcessor) endSession(session *mc.Session) {
	if seat, ok := rp.seatOf(session); ok {
		rp.matchManager.TerminateMatch(seat.matchUuid)
		rp.sessionManager.UnbindMatch(seat.matchUuid)
		metrics.ActiveMatches.Set(float64(rp.matchManager.MatchCount()))

		if seat.opponentId != "" {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeOtherPlayerDisconnected)
			if err := rp.sessionManager.Communicate(seat.opponentId, msg, mc.MessageTypeJSON); err != nil {
				log.Printf("failed to notify opponent about disconnection: %v", err)
			}
		}
	}

	if conn := session.Conn(); conn != nil {
		conn.Close()
	}
	rp.sessionManager.TerminateSession(session.Id())
	metrics.ActiveSessions.Dec()
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	metrics.ActiveSessions.Inc()
	defer rp.endSession(session)

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries and the grace period are already spent
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		if err := rp.handleSignal(session, code, payload); err != nil {
			break sessionLoop
		}
	}
}

// handleSignal runs one command. A returned error means the
// session's own connection is gone.
func (rp *RequestProcessor) handleSignal(session *mc.Session, code uint8, payload []byte) error {
	req := NewRequest(payload)

	switch code {
	case mc.CodeCreateMatch:
		if _, _, inMatch := session.Match(); inMatch {
			return rp.replyError(session, code, cerr.ErrSessionAlreadyInMatch(session.Id()), "failed to create match")
		}

		info, respMsg := req.HandleCreateMatch(rp.matchManager, rp.defaultGridSize, rp.defaultTotalShips)
		if respMsg.Error == nil {
			if err := rp.sessionManager.BindSessionToMatch(session, info.MatchUuid, info.Player); err != nil {
				rp.matchManager.TerminateMatch(info.MatchUuid)
				return rp.replyError(session, code, err, "failed to create match")
			}
			rp.recordMatchCreated()
		}
		return rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON)

	// Both players get CodeSelectGrid once the second seat is
	// taken.
	case mc.CodeJoinMatch:
		if _, _, inMatch := session.Match(); inMatch {
			return rp.replyError(session, code, cerr.ErrSessionAlreadyInMatch(session.Id()), "failed to join match")
		}

		info, respMsg := req.HandleJoinMatch(rp.matchManager)
		if respMsg.Error != nil {
			return rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON)
		}
		if err := rp.sessionManager.BindSessionToMatch(session, info.MatchUuid, info.Player); err != nil {
			return rp.replyError(session, code, err, "failed to join match")
		}

		seat, _ := rp.seatOf(session)
		readyMsg := mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)
		msgs := []mc.SessionMessage{seat.toSelf(respMsg), seat.toSelf(readyMsg)}
		msgs = append(msgs, seat.toOpponent(readyMsg)...)
		return rp.deliver(session, msgs...)

	case mc.CodePlayerInteraction:
		seat, ok := rp.seatOf(session)
		if !ok || seat.opponentId == "" {
			return rp.replyError(session, code, cerr.ErrSessionHasNoMatch(session.Id()), "no opponent to interact with")
		}
		return rp.deliver(session, mc.NewSessionMessageBytes(seat.opponentId, payload))

	case mc.CodePlaceShip, mc.CodeAttack, mc.CodeFetchPhase, mc.CodeFetchTurn,
		mc.CodeFetchGrids, mc.CodeFetchShipsPlaced, mc.CodeFetchScore:
		seat, ok := rp.seatOf(session)
		if !ok {
			return rp.replyError(session, code, cerr.ErrSessionHasNoMatch(session.Id()), "create or join a match first")
		}
		return rp.handleMatchSignal(session, seat, code, req)

	default:
		respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		respInvalidSignal.AddError("", fmt.Sprintf("invalid code in the incoming payload: %d", code))
		return rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON)
	}
}

func (rp *RequestProcessor) handleMatchSignal(session *mc.Session, seat matchSeat, code uint8, req Request) error {
	switch code {
	case mc.CodePlaceShip:
		return rp.deliver(session, req.HandlePlaceShip(rp.matchManager, seat)...)

	// The match stays around after it is won so both players
	// can still query it; it goes away with the sessions.
	case mc.CodeAttack:
		msgs, gameOver := req.HandleAttack(rp.matchManager, seat)
		if gameOver {
			rp.recordMatchFinished()
		}
		return rp.deliver(session, msgs...)

	case mc.CodeFetchPhase:
		return rp.deliver(session, req.HandleFetchPhase(rp.matchManager, seat))

	case mc.CodeFetchTurn:
		return rp.deliver(session, req.HandleFetchTurn(rp.matchManager, seat))

	case mc.CodeFetchGrids:
		return rp.deliver(session, req.HandleFetchGrids(rp.matchManager, seat))

	case mc.CodeFetchShipsPlaced:
		return rp.deliver(session, req.HandleFetchShipsPlaced(rp.matchManager, seat))

	case mc.CodeFetchScore:
		return rp.deliver(session, req.HandleFetchScore(rp.matchManager, seat))

	default:
		return nil
	}
}
