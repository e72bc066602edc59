package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	GetMatchesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	GetMatchesFinishedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	IncrementMatchesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementMatchesFinishedCount(ctx context.Context, serverIp pqtype.Inet) error
}

var _ Querier = (*Queries)(nil)
