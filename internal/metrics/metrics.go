package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	AttackHit     = "hit"
	AttackMiss    = "miss"
	AttackRepeat  = "repeat"
	AttackSunk    = "sunk"
	AttackReject  = "rejected"
	PlaceAccepted = "accepted"
	PlaceRejected = "rejected"
)

var (
	MatchesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battleship_matches_created_total",
			Help: "Total matches created",
		},
	)
	MatchesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battleship_matches_finished_total",
			Help: "Total matches that ended with a winner",
		},
	)
	ActiveMatches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "battleship_active_matches",
			Help: "Matches currently held in memory",
		},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "battleship_active_sessions",
			Help: "Websocket sessions currently open",
		},
	)
	ShipPlacements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battleship_ship_placements_total",
			Help: "Ship placement commands by result",
		},
		[]string{"result"},
	)
	Attacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battleship_attacks_total",
			Help: "Attack commands by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(MatchesCreated)
	prometheus.MustRegister(MatchesFinished)
	prometheus.MustRegister(ActiveMatches)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(ShipPlacements)
	prometheus.MustRegister(Attacks)
}

func ObservePlacement(success bool) {
	if success {
		ShipPlacements.WithLabelValues(PlaceAccepted).Inc()
		return
	}
	ShipPlacements.WithLabelValues(PlaceRejected).Inc()
}

// ObserveAttack counts one attack command. A destroyed ship is
// counted as sunk instead of hit.
func ObserveAttack(success, hit, repeated, shipDestroyed bool) {
	var outcome string
	switch {
	case !success:
		outcome = AttackReject
	case repeated:
		outcome = AttackRepeat
	case shipDestroyed:
		outcome = AttackSunk
	case hit:
		outcome = AttackHit
	default:
		outcome = AttackMiss
	}
	Attacks.WithLabelValues(outcome).Inc()
}
