package syncrun

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shared"
)

// SyncType distinguishes what a run ingested
type SyncType string

const (
	// SyncTypeOrders is a marketplace order ingestion pass
	SyncTypeOrders SyncType = "orders"
	// SyncTypeTracking is a carrier tracking update pass
	SyncTypeTracking SyncType = "tracking"
)

// IsValid checks if the sync type is valid
func (t SyncType) IsValid() bool {
	return t == SyncTypeOrders || t == SyncTypeTracking
}

// String returns the string representation of SyncType
func (t SyncType) String() string {
	return string(t)
}

// RunStatus is the lifecycle status of a sync run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusError     RunStatus = "error"
)

// IsValid checks if the run status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusCompleted, RunStatusError:
		return true
	}
	return false
}

// String returns the string representation of RunStatus
func (s RunStatus) String() string {
	return string(s)
}

// SyncRun is the bookkeeping row for one bounded ingestion or tracking
// pass against a platform. Callers pair Start with exactly one
// Complete, including on failure paths; rows left in running are a
// detectable anomaly swept at startup.
type SyncRun struct {
	ID       uuid.UUID
	Platform integration.PlatformCode
	SyncType SyncType

	Status      RunStatus
	ItemsSynced int
	ErrorText   string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewSyncRun opens a run in the running state
func NewSyncRun(platform integration.PlatformCode, syncType SyncType) (*SyncRun, error) {
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Sync run requires a known platform")
	}
	if !syncType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SYNC_TYPE", "Sync run requires a known sync type")
	}
	return &SyncRun{
		ID:        uuid.New(),
		Platform:  platform,
		SyncType:  syncType,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// Complete closes the run. Empty error text yields completed; anything
// else yields error. The accumulated item count is recorded either way.
func (r *SyncRun) Complete(itemsSynced int, errorText string) {
	now := time.Now()
	r.ItemsSynced = itemsSynced
	r.ErrorText = errorText
	r.CompletedAt = &now
	if errorText == "" {
		r.Status = RunStatusCompleted
	} else {
		r.Status = RunStatusError
	}
}

// IsStale reports whether a run still marked running has exceeded the
// expected duration and should be treated as aborted.
func (r *SyncRun) IsStale(olderThan time.Duration) bool {
	return r.Status == RunStatusRunning && time.Since(r.StartedAt) > olderThan
}
