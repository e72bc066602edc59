package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-match/internal/error"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	BindSessionToMatch(session *Session, matchUuid string, player mb.PlayerSlot) error
	UnbindMatch(matchUuid string)
	FindOpponentSessionId(session *Session) (string, bool)

	Communicate(receiverSessionId string, msg interface{}, msgType uint8) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	HandleAbnormalClosureSession(session *Session, deadConn *websocket.Conn) error
	FetchCodeFromMsg(payload []byte) (uint8, error)

	CleanupPeriodically(ctx context.Context)
	SessionCount() int
}

type BattleshipSessionManager struct {
	gracePeriod     time.Duration
	cleanupInterval time.Duration
	sessions        map[string]*Session

	// match uuid -> session id per player slot
	matchSessions map[string][2]string
	mu            sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func NewBattleshipSessionManager(gracePeriod, cleanupInterval time.Duration) *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		matchSessions:   make(map[string][2]string, initMapSize),
		gracePeriod:     gracePeriod,
		cleanupInterval: cleanupInterval,
	}
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return
	}
	delete(bsm.sessions, sessionId)

	if matchUuid, player, ok := session.Match(); ok {
		seats := bsm.matchSessions[matchUuid]
		seats[player] = ""
		if seats[mb.PlayerOne] == "" && seats[mb.PlayerTwo] == "" {
			delete(bsm.matchSessions, matchUuid)
		} else {
			bsm.matchSessions[matchUuid] = seats
		}
	}
	log.Printf("session terminated: %s", sessionId)
}

func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	session.reconnectionAfterAbnormalClosure(conn)
	log.Printf("session reconnected: %s\tRemote Addr: %s", sessionId, conn.RemoteAddr().String())
	return nil
}

func (bsm *BattleshipSessionManager) BindSessionToMatch(session *Session, matchUuid string, player mb.PlayerSlot) error {
	if _, _, ok := session.Match(); ok {
		return cerr.ErrSessionAlreadyInMatch(session.Id())
	}

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	seats := bsm.matchSessions[matchUuid]
	seats[player] = session.Id()
	bsm.matchSessions[matchUuid] = seats
	session.setMatch(matchUuid, player)

	return nil
}

// UnbindMatch frees both seats of a removed match so their
// sessions can create or join another one.
func (bsm *BattleshipSessionManager) UnbindMatch(matchUuid string) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	seats, prs := bsm.matchSessions[matchUuid]
	if !prs {
		return
	}
	delete(bsm.matchSessions, matchUuid)

	for _, sessionId := range seats {
		session, ok := bsm.sessions[sessionId]
		if !ok {
			continue
		}
		if boundUuid, _, inMatch := session.Match(); inMatch && boundUuid == matchUuid {
			session.clearMatch()
		}
	}
}

func (bsm *BattleshipSessionManager) FindOpponentSessionId(session *Session) (string, bool) {
	matchUuid, player, ok := session.Match()
	if !ok {
		return "", false
	}

	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	opponentId := bsm.matchSessions[matchUuid][player.Opponent()]
	return opponentId, opponentId != ""
}

// Sends msg from one session to another. Failures are left
// to the receiver's own loop; the sender is never blocked on
// the receiver's grace period.
func (bsm *BattleshipSessionManager) Communicate(receiverSessionId string, msg interface{}, msgType uint8) error {
	receiverSession, err := bsm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return receiverSession.writeToConnWithRetry(msg, msgType)
}

// Stale sessions are closed and removed. Closing the
// connection ends the session's read loop.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bsm.cleanupIdleSessions()
		}
	}
}

func (bsm *BattleshipSessionManager) cleanupIdleSessions() {
	assumedClosedConns := 10
	toClose := make([]*Session, 0, assumedClosedConns)

	bsm.mu.RLock()
	for _, session := range bsm.sessions {
		if session.idleFor() > bsm.cleanupInterval {
			toClose = append(toClose, session)
		}
	}
	bsm.mu.RUnlock()

	if len(toClose) == 0 {
		return
	}

	log.Println("Clean up sessions:")
	for _, session := range toClose {
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		bsm.TerminateSession(session.Id())
		log.Printf("removed: %s", session.Id())
	}
}

func (bsm *BattleshipSessionManager) SessionCount() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// Takes care of abnormal closures of a client, e.g. a mobile
// app going to background. The opponent is told to wait while
// the session has gracePeriod to reconnect.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session, deadConn *websocket.Conn) error {
	if _, _, ok := s.Match(); !ok {
		return NewConnErr(ConnLoopBreak).AddDesc("session has no match; nothing to resume")
	}

	opponentId, hasOpponent := bsm.FindOpponentSessionId(s)
	if hasOpponent {
		if err := bsm.Communicate(opponentId, NewMessage[NoPayload](CodeOtherPlayerGracePeriod), MessageTypeJSON); err != nil {
			log.Printf("failed to notify opponent about grace period: %v", err)
		}
	}

	if !s.awaitReconnection(deadConn, bsm.gracePeriod) {
		log.Printf("grace period is over for session: %s", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)
	}

	if hasOpponent {
		if err := bsm.Communicate(opponentId, NewMessage[NoPayload](CodeOtherPlayerReconnected), MessageTypeJSON); err != nil {
			log.Printf("failed to notify opponent about reconnection: %v", err)
		}
	}
	log.Printf("player reconnected, session: %s\n", s.id)
	return nil
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	deadConn := session.Conn()
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	if ConnErrCode(err) != ConnLoopAbnormalClosureRetry {
		return err
	}
	if err := bsm.HandleAbnormalClosureSession(session, deadConn); err != nil {
		return err
	}
	return session.writeToConnWithRetry(msg, msgType)
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		// A reconnect swapped the connection under this read
		if session.Conn() != conn {
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session, conn); err != nil {
				return -1, []byte{}, err
			}

		default:
			return -1, []byte{}, err
		}
	}
}

func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal Signal
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}

	return signal.Code, nil
}
