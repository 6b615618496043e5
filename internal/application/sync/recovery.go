package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/syncrun"
)

const staleRunReason = "terminated before completion"

// RecoverStaleRuns force-closes runs still marked running that started
// before the threshold. These are passes from a crashed or killed
// process; closing them keeps the sync ledger honest and lets the
// trigger compute fresh pull windows. Run once at startup.
func RecoverStaleRuns(ctx context.Context, runs syncrun.SyncRunRepository, olderThan time.Duration, logger *zap.Logger) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	stale, err := runs.FindStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(stale))
	for i, run := range stale {
		ids[i] = run.ID
		logger.Warn("Recovering stale sync run",
			zap.String("run_id", run.ID.String()),
			zap.String("platform", run.Platform.String()),
			zap.String("sync_type", run.SyncType.String()),
			zap.Time("started_at", run.StartedAt),
		)
	}

	if err := runs.MarkStale(ctx, ids, staleRunReason); err != nil {
		return 0, err
	}

	return len(stale), nil
}
