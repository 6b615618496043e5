package syncrun

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
)

// ErrNotFound is returned when a run lookup matches nothing
var ErrNotFound = errors.New("syncrun: not found")

// SyncRunRepository defines the interface for sync run persistence
type SyncRunRepository interface {
	// Start persists a newly opened run
	Start(ctx context.Context, run *SyncRun) error

	// Complete closes the run identified by id with the final count
	// and error text, setting completed/error accordingly
	Complete(ctx context.Context, id uuid.UUID, itemsSynced int, errorText string) error

	// FindByID finds a run by id
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)

	// FindLastCompleted returns the most recent completed run for a
	// platform and sync type, answering "when did we last sync X"
	// without scanning the order table
	FindLastCompleted(ctx context.Context, platform integration.PlatformCode, syncType SyncType) (*SyncRun, error)

	// FindStale returns runs still marked running that started before
	// the cutoff; these are aborted passes awaiting recovery
	FindStale(ctx context.Context, startedBefore time.Time) ([]SyncRun, error)

	// MarkStale force-closes the given runs as errored with the
	// supplied reason, used by the startup recovery sweep
	MarkStale(ctx context.Context, ids []uuid.UUID, reason string) error
}
