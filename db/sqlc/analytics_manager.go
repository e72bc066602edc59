package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps per-server counters. Every row is
// keyed by the inet of the server the match ran on.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementMatchesCreatedCount(ctx context.Context) error {
	return a.queries.IncrementMatchesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementMatchesFinishedCount(ctx context.Context) error {
	return a.queries.IncrementMatchesFinishedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetMatchesCreatedCount(ctx context.Context) (int64, error) {
	return a.queries.GetMatchesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetMatchesFinishedCount(ctx context.Context) (int64, error) {
	return a.queries.GetMatchesFinishedCount(ctx, a.serverIp)
}
