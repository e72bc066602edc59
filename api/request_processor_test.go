package api

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/saeidalz13/battleship-match/db/sqlc"
	cerr "github.com/saeidalz13/battleship-match/internal/error"
	"github.com/saeidalz13/battleship-match/internal/metrics"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
	mc "github.com/saeidalz13/battleship-match/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

type testServer struct {
	wsUrl          string
	matchManager   *mb.BattleshipMatchManager
	sessionManager *mc.BattleshipSessionManager
}

func newTestServer(t *testing.T, optFuncs ...Option) testServer {
	t.Helper()

	bsm := mc.NewBattleshipSessionManager(time.Second*5, time.Minute)
	bmm := mb.NewBattleshipMatchManager(mb.FirstTurnFirstToFinish)
	rp := NewRequestProcessor(bsm, bmm, optFuncs...)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return testServer{
		wsUrl:          "ws" + strings.TrimPrefix(srv.URL, "http") + "/battleship",
		matchManager:   bmm,
		sessionManager: bsm,
	}
}

func testIpNet() net.IPNet {
	return net.IPNet{IP: net.IPv4(10, 0, 0, 7).To4(), Mask: net.CIDRMask(24, 32)}
}

// dial connects and consumes the session id greeting.
func (ts testServer) dial(t *testing.T, query string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(ts.wsUrl+query, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	msg := readMsg[mc.RespSessionId](t, conn)
	if msg.Code != mc.CodeSessionID {
		t.Fatalf("expected: %d\tgot: %d", mc.CodeSessionID, msg.Code)
	}
	return conn, msg.Payload.SessionID
}

func readMsg[T any](t *testing.T, conn *websocket.Conn) mc.Message[T] {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second * 5))
	var msg mc.Message[T]
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read from conn: %v", err)
	}
	return msg
}

func send[T any](t *testing.T, conn *websocket.Conn, code uint8, payload T) {
	t.Helper()

	if err := conn.WriteJSON(mc.Message[T]{Code: code, Payload: payload}); err != nil {
		t.Fatal(err)
	}
}

func expectCode(t *testing.T, got, expected uint8) {
	t.Helper()
	if got != expected {
		t.Fatalf("expected code: %d\tgot: %d", expected, got)
	}
}

// startMatch creates a match on host, joins it from join and
// drains the select grid signals.
func startMatch(t *testing.T, host, join *websocket.Conn, gridSize, totalShips int) string {
	t.Helper()

	send(t, host, mc.CodeCreateMatch, mc.ReqCreateMatch{GridSize: gridSize, TotalShips: totalShips})
	created := readMsg[mc.RespMatchInfo](t, host)
	expectCode(t, created.Code, mc.CodeCreateMatch)
	if created.Error != nil {
		t.Fatalf("create match failed: %+v", created.Error)
	}
	if created.Payload.PlayerSlot != mb.PlayerOne || created.Payload.GridSize != gridSize {
		t.Fatalf("expected: slot 0 grid %d\tgot: %+v", gridSize, created.Payload)
	}

	send(t, join, mc.CodeJoinMatch, mc.ReqJoinMatch{MatchUuid: created.Payload.MatchUuid})
	joined := readMsg[mc.RespMatchInfo](t, join)
	expectCode(t, joined.Code, mc.CodeJoinMatch)
	if joined.Payload.PlayerSlot != mb.PlayerTwo || joined.Payload.TotalShips != totalShips {
		t.Fatalf("expected: slot 1 ships %d\tgot: %+v", totalShips, joined.Payload)
	}

	expectCode(t, readMsg[mc.NoPayload](t, join).Code, mc.CodeSelectGrid)
	expectCode(t, readMsg[mc.NoPayload](t, host).Code, mc.CodeSelectGrid)
	return created.Payload.MatchUuid
}

func placeShip(t *testing.T, conn *websocket.Conn, x, y, length int, orientation mb.Orientation) mc.Message[mc.RespPlaceShip] {
	t.Helper()

	send(t, conn, mc.CodePlaceShip, mc.ReqPlaceShip{
		Start:       mb.NewCoordinates(x, y),
		Length:      length,
		Orientation: orientation,
	})
	resp := readMsg[mc.RespPlaceShip](t, conn)
	expectCode(t, resp.Code, mc.CodePlaceShip)
	return resp
}

func attack(t *testing.T, conn *websocket.Conn, x, y int) mc.Message[mc.RespAttack] {
	t.Helper()

	send(t, conn, mc.CodeAttack, mc.ReqAttack{Coordinates: mb.NewCoordinates(x, y)})
	resp := readMsg[mc.RespAttack](t, conn)
	expectCode(t, resp.Code, mc.CodeAttack)
	return resp
}

func TestInvalidSignals(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t, "")

	tests := []struct {
		name         string
		payload      []byte
		expectedCode uint8
	}{
		{name: "unknown code", payload: []byte(`{"code":255}`), expectedCode: mc.CodeInvalidSignal},
		{name: "not json", payload: []byte(`attack!`), expectedCode: mc.CodeSignalAbsent},
		{name: "place ship without match", payload: []byte(`{"code":5}`), expectedCode: mc.CodePlaceShip},
		{name: "fetch phase without match", payload: []byte(`{"code":11}`), expectedCode: mc.CodeFetchPhase},
		{name: "interaction without match", payload: []byte(`{"code":21}`), expectedCode: mc.CodePlayerInteraction},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, test.payload); err != nil {
				t.Fatal(err)
			}

			resp := readMsg[mc.NoPayload](t, conn)
			expectCode(t, resp.Code, test.expectedCode)
			if resp.Error == nil {
				t.Fatal("expected error in response")
			}
		})
	}
}

func TestCreateAndJoinRejections(t *testing.T) {
	ts := newTestServer(t)
	host, _ := ts.dial(t, "")
	join, _ := ts.dial(t, "")
	third, _ := ts.dial(t, "")

	tests := []struct {
		name string
		conn *websocket.Conn
		code uint8
		req  interface{}
	}{
		{name: "grid too small", conn: host, code: mc.CodeCreateMatch, req: mc.ReqCreateMatch{GridSize: 1, TotalShips: 1}},
		{name: "too many ships", conn: host, code: mc.CodeCreateMatch, req: mc.ReqCreateMatch{GridSize: 2, TotalShips: 5}},
		{name: "unknown match", conn: join, code: mc.CodeJoinMatch, req: mc.ReqJoinMatch{MatchUuid: "nope"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, test.conn, test.code, test.req)
			resp := readMsg[mc.RespMatchInfo](t, test.conn)
			expectCode(t, resp.Code, test.code)
			if resp.Error == nil {
				t.Fatal("expected error in response")
			}
		})
	}

	matchUuid := startMatch(t, host, join, 4, 1)

	send(t, third, mc.CodeJoinMatch, mc.ReqJoinMatch{MatchUuid: matchUuid})
	if resp := readMsg[mc.RespMatchInfo](t, third); resp.Error == nil {
		t.Fatal("expected error joining a full match")
	}

	send(t, host, mc.CodeCreateMatch, mc.ReqCreateMatch{})
	if resp := readMsg[mc.NoPayload](t, host); resp.Error == nil {
		t.Fatal("expected error creating a second match from the same session")
	}
}

func TestCreateMatchDefaults(t *testing.T) {
	ts := newTestServer(t, WithMatchDefaults(6, 3))
	conn, _ := ts.dial(t, "")

	send(t, conn, mc.CodeCreateMatch, mc.ReqCreateMatch{})
	resp := readMsg[mc.RespMatchInfo](t, conn)
	if resp.Payload.GridSize != 6 || resp.Payload.TotalShips != 3 {
		t.Fatalf("expected: 6x3\tgot: %dx%d", resp.Payload.GridSize, resp.Payload.TotalShips)
	}
	if ts.matchManager.MatchCount() != 1 {
		t.Fatalf("expected: %d\tgot: %d", 1, ts.matchManager.MatchCount())
	}
}

func TestFullMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ipnet := testIpNet()
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, matches_created\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, matches_finished\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ts := newTestServer(t, WithDbManager(sqlc.NewDbManager(sqlc.New(db), ipnet)))
	host, _ := ts.dial(t, "")
	join, _ := ts.dial(t, "")

	finishedBefore := testutil.ToFloat64(metrics.MatchesFinished)
	startMatch(t, host, join, 4, 2)

	// Placement: host fleet at (0,0)-(1,0) and (0,2)
	if resp := placeShip(t, host, 0, 0, 2, mb.OrientationHorizontal); !resp.Payload.Success || resp.Payload.ShipsPlaced != 1 {
		t.Fatalf("expected successful placement\tgot: %+v", resp.Payload)
	}
	if resp := placeShip(t, host, 1, 0, 1, mb.OrientationVertical); resp.Payload.Success || resp.Error == nil {
		t.Fatalf("expected overlap rejection\tgot: %+v", resp.Payload)
	}
	if resp := placeShip(t, host, 0, 2, 1, mb.OrientationHorizontal); !resp.Payload.Success || resp.Payload.ShipsPlaced != 2 {
		t.Fatalf("expected successful placement\tgot: %+v", resp.Payload)
	}
	if resp := placeShip(t, host, 3, 3, 1, mb.OrientationHorizontal); resp.Payload.Success || resp.Error.ErrorDetails != mb.RejectQuotaMet.String() {
		t.Fatalf("expected quota rejection\tgot: %+v %+v", resp.Payload, resp.Error)
	}

	// Attacking during placement is rejected
	if resp := attack(t, host, 0, 0); resp.Payload.Success || resp.Error.ErrorDetails != mb.RejectWrongPhase.String() {
		t.Fatalf("expected wrong phase rejection\tgot: %+v", resp.Payload)
	}

	// Join fleet at (0,0)-(0,1) and (3,3); the last one starts
	// the attack phase and host, who finished first, fires first.
	placeShip(t, join, 0, 0, 2, mb.OrientationVertical)
	if resp := placeShip(t, join, 3, 3, 1, mb.OrientationHorizontal); !resp.Payload.Success {
		t.Fatalf("expected successful placement\tgot: %+v", resp.Payload)
	}
	for _, conn := range []*websocket.Conn{join, host} {
		phase := readMsg[mc.RespPhase](t, conn)
		expectCode(t, phase.Code, mc.CodePhaseChanged)
		if phase.Payload.Phase != mb.PhaseAttack || phase.Payload.Turn != mb.PlayerOne {
			t.Fatalf("expected: attack phase, turn 0\tgot: %+v", phase.Payload)
		}
	}

	if resp := attack(t, join, 0, 0); resp.Payload.Success || resp.Error.ErrorDetails != mb.RejectWrongTurn.String() {
		t.Fatalf("expected wrong turn rejection\tgot: %+v", resp.Payload)
	}

	// Host misses, turn goes to join
	if resp := attack(t, host, 3, 0); !resp.Payload.Success || resp.Payload.Hit || resp.Payload.IsTurn {
		t.Fatalf("expected a miss\tgot: %+v", resp.Payload)
	}
	received := readMsg[mc.RespAttackReceived](t, join)
	expectCode(t, received.Code, mc.CodeAttackReceived)
	if received.Payload.Hit || !received.Payload.IsTurn || received.Payload.Board[0][3] != mb.CellMiss {
		t.Fatalf("expected miss on join's board\tgot: %+v", received.Payload)
	}
	if turn := readMsg[mc.RespTurn](t, host); turn.Code != mc.CodeTurnChanged || turn.Payload.IsTurn {
		t.Fatalf("expected host to lose the turn\tgot: %+v", turn)
	}
	if turn := readMsg[mc.RespTurn](t, join); turn.Code != mc.CodeTurnChanged || !turn.Payload.IsTurn {
		t.Fatalf("expected join to get the turn\tgot: %+v", turn)
	}

	// Join hits and keeps the turn
	if resp := attack(t, join, 0, 0); !resp.Payload.Hit || resp.Payload.ShipDestroyed || !resp.Payload.IsTurn {
		t.Fatalf("expected a hit\tgot: %+v", resp.Payload)
	}
	expectCode(t, readMsg[mc.RespAttackReceived](t, host).Code, mc.CodeAttackReceived)

	// Repeating the shot is a no-op, the defender hears nothing
	if resp := attack(t, join, 0, 0); !resp.Payload.Success || !resp.Payload.Repeated || !resp.Payload.IsTurn {
		t.Fatalf("expected a repeated shot\tgot: %+v", resp.Payload)
	}

	resp := attack(t, join, 1, 0)
	if !resp.Payload.ShipDestroyed || len(resp.Payload.DestroyedShip) != 2 {
		t.Fatalf("expected destroyed ship\tgot: %+v", resp.Payload)
	}
	expectCode(t, readMsg[mc.RespAttackReceived](t, host).Code, mc.CodeAttackReceived)

	// Last ship of host
	if resp := attack(t, join, 0, 2); !resp.Payload.Success || !resp.Payload.Hit {
		t.Fatalf("expected a hit\tgot: %+v", resp.Payload)
	}
	won := readMsg[mc.RespEndGame](t, join)
	expectCode(t, won.Code, mc.CodeEndGame)
	if won.Payload.PlayerMatchStatus != mb.PlayerMatchStatusWon || won.Payload.Winner != mb.PlayerTwo {
		t.Fatalf("expected join to win\tgot: %+v", won.Payload)
	}

	expectCode(t, readMsg[mc.RespAttackReceived](t, host).Code, mc.CodeAttackReceived)
	lost := readMsg[mc.RespEndGame](t, host)
	expectCode(t, lost.Code, mc.CodeEndGame)
	if lost.Payload.PlayerMatchStatus != mb.PlayerMatchStatusLost {
		t.Fatalf("expected host to lose\tgot: %+v", lost.Payload)
	}

	// No attacks after the match is over
	if resp := attack(t, join, 3, 3); resp.Payload.Success {
		t.Fatalf("expected rejection after game over\tgot: %+v", resp.Payload)
	}

	send(t, host, mc.CodeFetchScore, mc.NoPayload(false))
	score := readMsg[mc.RespScore](t, host)
	expectCode(t, score.Code, mc.CodeFetchScore)
	if score.Payload.Scores[mb.PlayerOne] != (mb.Score{CellsHit: 3, TotalCells: 3}) {
		t.Fatalf("expected: host fully hit\tgot: %+v", score.Payload.Scores)
	}
	if score.Payload.Scores[mb.PlayerTwo] != (mb.Score{CellsHit: 0, TotalCells: 3}) {
		t.Fatalf("expected: join untouched\tgot: %+v", score.Payload.Scores)
	}

	if got := testutil.ToFloat64(metrics.MatchesFinished) - finishedBefore; got != 1 {
		t.Fatalf("expected: %v\tgot: %v", 1, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}

	// Leaving ends the match for the other player
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := host.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		t.Fatal(err)
	}
	expectCode(t, readMsg[mc.NoPayload](t, join).Code, mc.CodeOtherPlayerDisconnected)

	send(t, join, mc.CodeFetchPhase, mc.NoPayload(false))
	if resp := readMsg[mc.RespPhase](t, join); resp.Error == nil {
		t.Fatal("expected error querying a terminated match")
	}
}

func TestQueries(t *testing.T) {
	ts := newTestServer(t)
	host, _ := ts.dial(t, "")
	join, _ := ts.dial(t, "")
	startMatch(t, host, join, 3, 1)

	placeShip(t, host, 0, 1, 3, mb.OrientationHorizontal)

	send(t, host, mc.CodeFetchShipsPlaced, mc.NoPayload(false))
	placed := readMsg[mc.RespShipsPlaced](t, host)
	expectCode(t, placed.Code, mc.CodeFetchShipsPlaced)
	if placed.Payload.Placed != 1 || placed.Payload.Total != 1 || !placed.Payload.Complete {
		t.Fatalf("expected: 1/1 complete\tgot: %+v", placed.Payload)
	}

	send(t, host, mc.CodeFetchPhase, mc.NoPayload(false))
	phase := readMsg[mc.RespPhase](t, host)
	if phase.Payload.Phase != mb.PhasePlacement {
		t.Fatalf("expected: %v\tgot: %v", mb.PhasePlacement, phase.Payload.Phase)
	}

	send(t, host, mc.CodeFetchTurn, mc.NoPayload(false))
	if turn := readMsg[mc.RespTurn](t, host); turn.Payload.IsTurn {
		t.Fatal("nobody has the turn during placement")
	}

	send(t, host, mc.CodeFetchGrids, mc.NoPayload(false))
	grids := readMsg[mc.RespGrids](t, host)
	expectCode(t, grids.Code, mc.CodeFetchGrids)
	if grids.Payload.Placement[1][2] != mb.CellShip || grids.Payload.Attack[1][2] != mb.CellEmpty {
		t.Fatalf("expected own ship on placement grid only\tgot: %+v", grids.Payload)
	}

	placeShip(t, join, 2, 0, 3, mb.OrientationVertical)
	readMsg[mc.RespPhase](t, join)
	readMsg[mc.RespPhase](t, host)

	// Opponent ships stay hidden
	send(t, host, mc.CodeFetchGrids, mc.NoPayload(false))
	grids = readMsg[mc.RespGrids](t, host)
	for y, row := range grids.Payload.OpponentView {
		for x, cell := range row {
			if cell != mb.CellEmpty {
				t.Fatalf("expected hidden cell at (%d,%d)\tgot: %v", x, y, cell)
			}
		}
	}
}

func TestPlayerInteraction(t *testing.T) {
	ts := newTestServer(t)
	host, _ := ts.dial(t, "")
	join, _ := ts.dial(t, "")
	startMatch(t, host, join, 4, 1)

	raw := []byte(`{"code":21,"payload":"good luck"}`)
	if err := host.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatal(err)
	}

	_ = join.SetReadDeadline(time.Now().Add(time.Second * 5))
	_, got, err := join.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(raw) {
		t.Fatalf("expected: %s\tgot: %s", raw, got)
	}
}

func TestReconnectSession(t *testing.T) {
	ts := newTestServer(t)
	host, hostSessionId := ts.dial(t, "")
	join, _ := ts.dial(t, "")
	startMatch(t, host, join, 4, 1)

	host.UnderlyingConn().Close()
	expectCode(t, readMsg[mc.NoPayload](t, join).Code, mc.CodeOtherPlayerGracePeriod)

	host, resumedId := ts.dial(t, "?"+URLQuerySessionIDKeyword+"="+hostSessionId)
	if resumedId != hostSessionId {
		t.Fatalf("expected: %s\tgot: %s", hostSessionId, resumedId)
	}
	expectCode(t, readMsg[mc.NoPayload](t, join).Code, mc.CodeOtherPlayerReconnected)

	// The match survived the drop
	if resp := placeShip(t, host, 0, 0, 1, mb.OrientationHorizontal); !resp.Payload.Success {
		t.Fatalf("expected placement after reconnection\tgot: %+v", resp.Payload)
	}
}

func TestSurvivorStartsNewMatch(t *testing.T) {
	ts := newTestServer(t)
	host, _ := ts.dial(t, "")
	join, _ := ts.dial(t, "")
	startMatch(t, host, join, 4, 1)

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := join.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		t.Fatal(err)
	}
	expectCode(t, readMsg[mc.NoPayload](t, host).Code, mc.CodeOtherPlayerDisconnected)

	send(t, host, mc.CodeFetchPhase, mc.NoPayload(false))
	phase := readMsg[mc.NoPayload](t, host)
	expectCode(t, phase.Code, mc.CodeFetchPhase)
	if phase.Error == nil {
		t.Fatal("expected error querying without a match")
	}

	newJoin, _ := ts.dial(t, "")
	startMatch(t, host, newJoin, 5, 2)
	if ts.matchManager.MatchCount() != 1 {
		t.Fatalf("expected: %d\tgot: %d", 1, ts.matchManager.MatchCount())
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialer.Dial(ts.wsUrl+"?"+URLQuerySessionIDKeyword+"=unknown", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	resp := readMsg[mc.NoPayload](t, conn)
	expectCode(t, resp.Code, mc.CodeReceivedInvalidSessionID)
	if resp.Error == nil {
		t.Fatal("expected error in response")
	}
}

// vanishingSessionManager loses every session right after a
// reconnect swapped its connection, as a cleanup tick would.
type vanishingSessionManager struct {
	*mc.BattleshipSessionManager
}

func (vsm vanishingSessionManager) FindSession(sessionId string) (*mc.Session, error) {
	return nil, cerr.ErrSessionNotFound(sessionId)
}

func TestReconnectSessionRemovedMidway(t *testing.T) {
	bsm := mc.NewBattleshipSessionManager(time.Second*5, time.Minute)
	rp := NewRequestProcessor(vanishingSessionManager{bsm}, mb.NewBattleshipMatchManager(mb.FirstTurnFirstToFinish))

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	ts := testServer{wsUrl: "ws" + strings.TrimPrefix(srv.URL, "http") + "/battleship"}

	_, sessionId := ts.dial(t, "")

	conn, _, err := dialer.Dial(ts.wsUrl+"?"+URLQuerySessionIDKeyword+"="+sessionId, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second * 5))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the connection to be closed without a session id")
	} else if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		t.Fatal("connection was left open")
	}
}

func TestWithStage(t *testing.T) {
	tests := []struct {
		name    string
		stage   string
		origin  string
		allowed bool
	}{
		{name: "dev accepts any origin", stage: StageDev, origin: "https://evil.example", allowed: true},
		{name: "prod accepts listed origin", stage: StageProd, origin: "https://play.example", allowed: true},
		{name: "prod rejects other origin", stage: StageProd, origin: "https://evil.example", allowed: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rp := NewRequestProcessor(nil, nil, WithStage(test.stage, "https://play.example"))

			r := httptest.NewRequest(http.MethodGet, "/battleship", nil)
			r.Header.Set("Origin", test.origin)
			if got := rp.upgrader.CheckOrigin(r); got != test.allowed {
				t.Fatalf("expected: %v\tgot: %v", test.allowed, got)
			}
		})
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown stage")
		}
	}()
	NewRequestProcessor(nil, nil, WithStage("staging"))
}
