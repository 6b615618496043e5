package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// OrderIngestor runs one bounded order ingestion pass
type OrderIngestor interface {
	IngestOrders(ctx context.Context, platform integration.PlatformCode, startTime, endTime time.Time) (int, error)
}

// TrackingPoller runs one tracking poll pass
type TrackingPoller interface {
	PollTracking(ctx context.Context, platform integration.PlatformCode) (int, error)
}

// SyncJobExecutor dispatches queued jobs to the matching application
// service
type SyncJobExecutor struct {
	orders   OrderIngestor
	tracking TrackingPoller
}

// NewSyncJobExecutor creates a new SyncJobExecutor
func NewSyncJobExecutor(orders OrderIngestor, tracking TrackingPoller) *SyncJobExecutor {
	return &SyncJobExecutor{orders: orders, tracking: tracking}
}

var _ SyncExecutor = (*SyncJobExecutor)(nil)

// Execute implements SyncExecutor
func (e *SyncJobExecutor) Execute(ctx context.Context, job *SyncJob) (int, error) {
	switch job.SyncType {
	case syncrun.SyncTypeOrders:
		return e.orders.IngestOrders(ctx, job.Platform, job.StartTime, job.EndTime)
	case syncrun.SyncTypeTracking:
		return e.tracking.PollTracking(ctx, job.Platform)
	default:
		return 0, fmt.Errorf("unknown sync type %q", job.SyncType)
	}
}
