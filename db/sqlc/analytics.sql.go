package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const getMatchesCreatedCount = `-- name: GetMatchesCreatedCount :one
SELECT matches_created FROM game_server_analytics WHERE server_ip = $1
`

func (q *Queries) GetMatchesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMatchesCreatedCount, serverIp)
	var matches_created int64
	err := row.Scan(&matches_created)
	return matches_created, err
}

const getMatchesFinishedCount = `-- name: GetMatchesFinishedCount :one
SELECT matches_finished FROM game_server_analytics WHERE server_ip = $1
`

func (q *Queries) GetMatchesFinishedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMatchesFinishedCount, serverIp)
	var matches_finished int64
	err := row.Scan(&matches_finished)
	return matches_finished, err
}

const incrementMatchesCreatedCount = `-- name: IncrementMatchesCreatedCount :exec
INSERT INTO game_server_analytics (server_ip, matches_created)
VALUES ($1, 1)
ON CONFLICT (server_ip) DO UPDATE
SET matches_created = game_server_analytics.matches_created + 1, updated_at = NOW()
`

func (q *Queries) IncrementMatchesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementMatchesCreatedCount, serverIp)
	return err
}

const incrementMatchesFinishedCount = `-- name: IncrementMatchesFinishedCount :exec
INSERT INTO game_server_analytics (server_ip, matches_finished)
VALUES ($1, 1)
ON CONFLICT (server_ip) DO UPDATE
SET matches_finished = game_server_analytics.matches_finished + 1, updated_at = NOW()
`

func (q *Queries) IncrementMatchesFinishedCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementMatchesFinishedCount, serverIp)
	return err
}
