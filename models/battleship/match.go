package battleship

import (
	"fmt"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-match/internal/error"
)

type Phase uint8

const (
	PhasePlacement Phase = iota
	PhaseAttack
	PhaseFinished
)

func (ph Phase) String() string {
	switch ph {
	case PhasePlacement:
		return "placement"
	case PhaseAttack:
		return "attack"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", uint8(ph))
	}
}

// FirstTurnPolicy decides who fires first once both fleets
// are placed.
type FirstTurnPolicy uint8

const (
	FirstTurnFirstToFinish FirstTurnPolicy = iota
	FirstTurnPlayerOne
)

func ParseFirstTurnPolicy(s string) (FirstTurnPolicy, error) {
	switch s {
	case "first-to-finish":
		return FirstTurnFirstToFinish, nil
	case "player-one":
		return FirstTurnPlayerOne, nil
	default:
		return FirstTurnFirstToFinish, cerr.ErrInvalidFirstTurnPolicy(s)
	}
}

type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectInvalidPlayer
	RejectWrongPhase
	RejectQuotaMet
	RejectInvalidPlacement
	RejectWrongTurn
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return ""
	case RejectInvalidPlayer:
		return "invalid player"
	case RejectWrongPhase:
		return "wrong phase"
	case RejectQuotaMet:
		return "quota met"
	case RejectInvalidPlacement:
		return "invalid placement"
	case RejectWrongTurn:
		return "wrong turn"
	default:
		return fmt.Sprintf("reject(%d)", uint8(r))
	}
}

// MatchState is the per-match mutable state. Turn is only
// meaningful in PhaseAttack, Winner only in PhaseFinished.
type MatchState struct {
	Phase       Phase
	Turn        PlayerSlot
	ShipsPlaced [2]int
	Winner      PlayerSlot

	firstFinisher    PlayerSlot
	hasFirstFinisher bool
}

type PlacementResult struct {
	Success      bool
	Reason       RejectReason
	Message      string
	Coordinates  []Coordinates
	ShipsPlaced  int
	PhaseChanged bool
	Phase        Phase
	Turn         PlayerSlot
}

type AttackResult struct {
	Success       bool
	Reason        RejectReason
	Message       string
	Coordinates   Coordinates
	Hit           bool
	Repeated      bool
	ShipDestroyed bool
	DestroyedShip []Coordinates
	Turn          PlayerSlot
	TurnChanged   bool
	Phase         Phase
	GameOver      bool
	Winner        PlayerSlot
}

type PlayerGrids struct {
	Placement GridView `json:"placement"`
	Attack    GridView `json:"attack"`
}

type ShipsPlacedStatus struct {
	Placed   int  `json:"placed"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// Score is counted on a player's own board: how many of its
// occupied cells have been struck.
type Score struct {
	CellsHit   int `json:"cells_hit"`
	TotalCells int `json:"total_cells"`
}

// Match is the state machine of one game. It does no locking;
// callers serialize access (see MatchManager).
type Match struct {
	uuid            string
	gridSize        int
	totalShips      int
	firstTurnPolicy FirstTurnPolicy
	state           MatchState
	players         [2]*Player
}

type MatchOption func(*Match) error

func WithFirstTurnPolicy(policy FirstTurnPolicy) MatchOption {
	return func(m *Match) error {
		if policy != FirstTurnFirstToFinish && policy != FirstTurnPlayerOne {
			return cerr.ErrInvalidFirstTurnPolicy(fmt.Sprintf("%d", policy))
		}
		m.firstTurnPolicy = policy
		return nil
	}
}

func WithUuid(matchUuid string) MatchOption {
	return func(m *Match) error {
		if matchUuid == "" {
			return cerr.ErrEmptyMatchUuid()
		}
		m.uuid = matchUuid
		return nil
	}
}

func NewMatch(gridSize, totalShips int, optFuncs ...MatchOption) (*Match, error) {
	if gridSize < 1 {
		return nil, cerr.ErrInvalidGridSize(gridSize)
	}
	if totalShips < 1 {
		return nil, cerr.ErrInvalidTotalShips(totalShips)
	}

	m := &Match{
		uuid:            uuid.NewString()[:6],
		gridSize:        gridSize,
		totalShips:      totalShips,
		firstTurnPolicy: FirstTurnFirstToFinish,
		state:           MatchState{Phase: PhasePlacement, Turn: PlayerOne},
		players:         [2]*Player{newPlayer(gridSize), newPlayer(gridSize)},
	}

	for _, opt := range optFuncs {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Match) Uuid() string {
	return m.uuid
}

func (m *Match) GridSize() int {
	return m.gridSize
}

func (m *Match) TotalShips() int {
	return m.totalShips
}

func (m *Match) Phase() Phase {
	return m.state.Phase
}

func (m *Match) Turn() PlayerSlot {
	return m.state.Turn
}

func (m *Match) State() MatchState {
	return m.state
}

func (m *Match) Winner() (PlayerSlot, bool) {
	return m.state.Winner, m.state.Phase == PhaseFinished
}

func (m *Match) PlaceShip(player PlayerSlot, start Coordinates, length int, orientation Orientation) PlacementResult {
	result := PlacementResult{Phase: m.state.Phase, Turn: m.state.Turn}

	if !player.Valid() {
		result.Reason = RejectInvalidPlayer
		result.Message = fmt.Sprintf("invalid player id: %d", player)
		return result
	}
	result.ShipsPlaced = m.state.ShipsPlaced[player]

	if m.state.Phase != PhasePlacement {
		result.Reason = RejectWrongPhase
		result.Message = "ships can only be placed in the placement phase"
		return result
	}
	if m.state.ShipsPlaced[player] == m.totalShips {
		result.Reason = RejectQuotaMet
		result.Message = "all of your ships are already placed"
		return result
	}

	outcome := m.players[player].placement.PlaceShip(start, length, orientation)
	result.Coordinates = outcome.Coordinates
	if !outcome.Success {
		result.Reason = RejectInvalidPlacement
		result.Message = "ship is out of bounds or overlaps another ship"
		return result
	}

	m.state.ShipsPlaced[player]++
	result.ShipsPlaced = m.state.ShipsPlaced[player]
	if m.state.ShipsPlaced[player] == m.totalShips && !m.state.hasFirstFinisher {
		m.state.firstFinisher = player
		m.state.hasFirstFinisher = true
	}

	if m.allShipsPlaced() {
		m.startAttackPhase()
		result.PhaseChanged = true
	}

	result.Success = true
	result.Message = "ship placed"
	result.Phase = m.state.Phase
	result.Turn = m.state.Turn
	return result
}

func (m *Match) allShipsPlaced() bool {
	return m.state.ShipsPlaced[PlayerOne] == m.totalShips && m.state.ShipsPlaced[PlayerTwo] == m.totalShips
}

func (m *Match) startAttackPhase() {
	m.state.Phase = PhaseAttack
	m.state.Turn = PlayerOne
	if m.firstTurnPolicy == FirstTurnFirstToFinish && m.state.hasFirstFinisher {
		m.state.Turn = m.state.firstFinisher
	}
}

// Attack fires at the opponent's board. A hit keeps the turn,
// a miss hands it over, a shot off the board included.
// Re-firing at a resolved cell changes nothing, the turn
// included.
func (m *Match) Attack(player PlayerSlot, c Coordinates) AttackResult {
	result := AttackResult{
		Coordinates: c,
		Phase:       m.state.Phase,
		Turn:        m.state.Turn,
	}

	if !player.Valid() {
		result.Reason = RejectInvalidPlayer
		result.Message = fmt.Sprintf("invalid player id: %d", player)
		return result
	}
	if m.state.Phase != PhaseAttack {
		result.Reason = RejectWrongPhase
		result.Message = fmt.Sprintf("attacks are not accepted in the %s phase", m.state.Phase)
		return result
	}
	if player != m.state.Turn {
		result.Reason = RejectWrongTurn
		result.Message = "it is not your turn to attack"
		return result
	}

	attacker := m.players[player]
	defender := m.players[player.Opponent()]

	outcome, sunk := defender.placement.resolveAttack(c)
	switch outcome {
	// Off the board counts as a miss without a mark.
	case OutcomeOutOfBounds:
		m.state.Turn = player.Opponent()
		result.TurnChanged = true
		result.Message = "miss, " + cerr.ErrXorYOutOfGridBound(c.X, c.Y).Error()

	case OutcomeRepeat:
		result.Repeated = true
		result.Message = "cell was already attacked"

	case OutcomeHit:
		attacker.attack.MarkHit(c)
		result.Hit = true
		result.Message = "hit"
		if sunk != nil {
			result.ShipDestroyed = true
			result.DestroyedShip = sunk.GetCoordinates()
			result.Message = "hit, ship destroyed"
		}

	case OutcomeMiss:
		attacker.attack.MarkMiss(c)
		m.state.Turn = player.Opponent()
		result.TurnChanged = true
		result.Message = "miss"
	}

	if defender.IsDefeated() {
		m.state.Phase = PhaseFinished
		m.state.Winner = player
		result.GameOver = true
		result.Winner = player
		result.Message = "all enemy ships destroyed, you won"
	}

	result.Success = true
	result.Phase = m.state.Phase
	result.Turn = m.state.Turn
	return result
}

func (m *Match) Grids(player PlayerSlot) (PlayerGrids, error) {
	if !player.Valid() {
		return PlayerGrids{}, cerr.ErrInvalidPlayerSlot(int(player))
	}

	return PlayerGrids{
		Placement: m.players[player].placement.Snapshot(),
		Attack:    m.players[player].attack.Snapshot(),
	}, nil
}

// OpponentView is the opponent's board with intact ship
// cells hidden.
func (m *Match) OpponentView(player PlayerSlot) (GridView, error) {
	if !player.Valid() {
		return nil, cerr.ErrInvalidPlayerSlot(int(player))
	}
	return m.players[player.Opponent()].placement.MaskedSnapshot(), nil
}

func (m *Match) ShipsPlacedStatus(player PlayerSlot) (ShipsPlacedStatus, error) {
	if !player.Valid() {
		return ShipsPlacedStatus{}, cerr.ErrInvalidPlayerSlot(int(player))
	}

	placed := m.state.ShipsPlaced[player]
	return ShipsPlacedStatus{
		Placed:   placed,
		Total:    m.totalShips,
		Complete: placed == m.totalShips,
	}, nil
}

func (m *Match) Score() [2]Score {
	var scores [2]Score
	for i, p := range m.players {
		scores[i] = Score{
			CellsHit:   p.placement.CellsHit(),
			TotalCells: p.placement.TotalOccupiedCells(),
		}
	}
	return scores
}

func (m *Match) DestroyedShips(player PlayerSlot) ([][]Coordinates, error) {
	if !player.Valid() {
		return nil, cerr.ErrInvalidPlayerSlot(int(player))
	}
	return m.players[player].placement.DestroyedShips(), nil
}
