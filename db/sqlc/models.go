package sqlc

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

type GameServerAnalytic struct {
	ServerIp        pqtype.Inet
	MatchesCreated  int64
	MatchesFinished int64
	UpdatedAt       time.Time
}
