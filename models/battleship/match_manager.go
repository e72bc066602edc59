package battleship

import (
	"log"
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-match/internal/error"
)

const (
	MinGridSize   int = 2
	MaxGridSize   int = 26
	MaxTotalShips int = 20

	// attempts to find an unused short uuid
	maxUuidAttempts int = 5
)

type MatchInfo struct {
	MatchUuid  string
	Player     PlayerSlot
	GridSize   int
	TotalShips int
}

type MatchManager interface {
	CreateMatch(gridSize, totalShips int) (MatchInfo, error)
	JoinMatch(matchUuid string) (MatchInfo, error)
	WithMatch(matchUuid string, fn func(*Match) error) error
	TerminateMatch(matchUuid string)
	MatchCount() int

	isMatchSizeValid(gridSize, totalShips int) error
}

// Every match gets its own lock so that only one command
// runs against it at any time.
type matchEntry struct {
	mu     sync.Mutex
	match  *Match
	joined bool
}

type BattleshipMatchManager struct {
	matches         map[string]*matchEntry
	firstTurnPolicy FirstTurnPolicy
	mu              sync.RWMutex
}

var _ MatchManager = (*BattleshipMatchManager)(nil)

func NewBattleshipMatchManager(firstTurnPolicy FirstTurnPolicy) *BattleshipMatchManager {
	return &BattleshipMatchManager{
		matches:         make(map[string]*matchEntry, 10),
		firstTurnPolicy: firstTurnPolicy,
	}
}

// The creator of the match always sits in PlayerOne.
func (bmm *BattleshipMatchManager) CreateMatch(gridSize, totalShips int) (MatchInfo, error) {
	if err := bmm.isMatchSizeValid(gridSize, totalShips); err != nil {
		return MatchInfo{}, err
	}

	bmm.mu.Lock()
	defer bmm.mu.Unlock()

	var matchUuid string
	for i := 0; i < maxUuidAttempts; i++ {
		candidate := uuid.NewString()[:6]
		if _, prs := bmm.matches[candidate]; !prs {
			matchUuid = candidate
			break
		}
	}
	if matchUuid == "" {
		return MatchInfo{}, cerr.ErrMatchUuidExhausted()
	}

	match, err := NewMatch(gridSize, totalShips, WithUuid(matchUuid), WithFirstTurnPolicy(bmm.firstTurnPolicy))
	if err != nil {
		return MatchInfo{}, err
	}
	bmm.matches[matchUuid] = &matchEntry{match: match}
	log.Printf("match created: %s\tgrid size: %d\ttotal ships: %d", matchUuid, gridSize, totalShips)

	return MatchInfo{
		MatchUuid:  matchUuid,
		Player:     PlayerOne,
		GridSize:   gridSize,
		TotalShips: totalShips,
	}, nil
}

func (bmm *BattleshipMatchManager) JoinMatch(matchUuid string) (MatchInfo, error) {
	entry, err := bmm.fetchEntry(matchUuid)
	if err != nil {
		return MatchInfo{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.joined {
		return MatchInfo{}, cerr.ErrMatchFull(matchUuid)
	}
	entry.joined = true

	return MatchInfo{
		MatchUuid:  matchUuid,
		Player:     PlayerTwo,
		GridSize:   entry.match.GridSize(),
		TotalShips: entry.match.TotalShips(),
	}, nil
}

// WithMatch runs fn while holding the match lock. Neither the
// match nor anything fn reads from it may escape fn.
func (bmm *BattleshipMatchManager) WithMatch(matchUuid string, fn func(*Match) error) error {
	entry, err := bmm.fetchEntry(matchUuid)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.match)
}

func (bmm *BattleshipMatchManager) TerminateMatch(matchUuid string) {
	bmm.mu.Lock()
	defer bmm.mu.Unlock()

	if _, prs := bmm.matches[matchUuid]; !prs {
		return
	}
	delete(bmm.matches, matchUuid)
	log.Printf("match terminated: %s", matchUuid)
}

func (bmm *BattleshipMatchManager) MatchCount() int {
	bmm.mu.RLock()
	defer bmm.mu.RUnlock()
	return len(bmm.matches)
}

func (bmm *BattleshipMatchManager) fetchEntry(matchUuid string) (*matchEntry, error) {
	bmm.mu.RLock()
	entry, prs := bmm.matches[matchUuid]
	bmm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrMatchNotExists(matchUuid)
	}
	if entry == nil {
		return nil, cerr.ErrMatchIsNil(matchUuid)
	}

	return entry, nil
}

// Every ship needs at least one cell, so a fleet larger than
// the board could never be placed.
func (bmm *BattleshipMatchManager) isMatchSizeValid(gridSize, totalShips int) error {
	if gridSize < MinGridSize || gridSize > MaxGridSize {
		return cerr.ErrInvalidGridSize(gridSize)
	}
	if totalShips < 1 || totalShips > MaxTotalShips || totalShips > gridSize*gridSize {
		return cerr.ErrInvalidTotalShips(totalShips)
	}
	return nil
}
