package sqlc

import (
	"context"
	"log"
	"net"
	"time"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier, serverIpNet net.IPNet) *DbManager {
	return &DbManager{
		Analytics: NewAnalyticsManager(queries, serverIpNet),
	}
}

// RecordMatchCreated bumps the counter under QuerierCtxTimeout.
// Analytics failures never end a match, they are only logged.
func (dm *DbManager) RecordMatchCreated() {
	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()

	if err := dm.Analytics.IncrementMatchesCreatedCount(ctx); err != nil {
		log.Printf("failed to increment matches created: %v", err)
	}
}

func (dm *DbManager) RecordMatchFinished() {
	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()

	if err := dm.Analytics.IncrementMatchesFinishedCount(ctx); err != nil {
		log.Printf("failed to increment matches finished: %v", err)
	}
}
