package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// ---------------------------------------------------------------------------
// SyncTriggerConfig
// ---------------------------------------------------------------------------

// SyncTriggerConfig holds configuration for the periodic sync trigger
type SyncTriggerConfig struct {
	// CheckInterval is how often to check whether a pass is due
	CheckInterval time.Duration
	// OrderInterval is the gap between order ingestion passes per platform
	OrderInterval time.Duration
	// TrackingInterval is the gap between tracking poll passes per platform
	TrackingInterval time.Duration
	// InitialLookback is the pull window for a platform with no history
	InitialLookback time.Duration
	// Overlap widens the pull window past the last completed run so
	// orders landing between the run's start and finish are not missed
	Overlap time.Duration
}

// DefaultSyncTriggerConfig returns default configuration
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		CheckInterval:    time.Minute,
		OrderInterval:    15 * time.Minute,
		TrackingInterval: 30 * time.Minute,
		InitialLookback:  30 * 24 * time.Hour,
		Overlap:          5 * time.Minute,
	}
}

// ---------------------------------------------------------------------------
// SyncTrigger
// ---------------------------------------------------------------------------

// SyncTrigger decides when each platform is due for its next order or
// tracking pass and queues jobs on the scheduler. The last completed
// run in the sync ledger anchors each order pull window, so passes
// resume where the previous one left off even across restarts.
type SyncTrigger struct {
	config    SyncTriggerConfig
	scheduler *SyncScheduler
	runs      syncrun.SyncRunRepository
	platforms []integration.PlatformCode
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Track last scheduled time per platform/type to avoid duplicate scheduling
	lastScheduledMu sync.RWMutex
	lastScheduled   map[string]time.Time
}

// NewSyncTrigger creates a new sync trigger over the given platforms
func NewSyncTrigger(
	config SyncTriggerConfig,
	scheduler *SyncScheduler,
	runs syncrun.SyncRunRepository,
	platforms []integration.PlatformCode,
	logger *zap.Logger,
) *SyncTrigger {
	return &SyncTrigger{
		config:        config,
		scheduler:     scheduler,
		runs:          runs,
		platforms:     platforms,
		logger:        logger,
		lastScheduled: make(map[string]time.Time),
	}
}

// Start starts the trigger loop
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sync trigger started",
		zap.Duration("check_interval", t.config.CheckInterval),
		zap.Duration("order_interval", t.config.OrderInterval),
		zap.Duration("tracking_interval", t.config.TrackingInterval),
		zap.Int("platforms", len(t.platforms)),
	)

	return nil
}

// Stop stops the trigger loop
func (t *SyncTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop periodically checks and queues due passes
func (t *SyncTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	// Run immediately on start
	t.checkAndSchedule(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndSchedule(ctx)
		}
	}
}

// checkAndSchedule queues a pass for every platform/type that is due
func (t *SyncTrigger) checkAndSchedule(ctx context.Context) {
	now := time.Now()

	for _, platform := range t.platforms {
		if t.isDue(platform, syncrun.SyncTypeOrders, t.config.OrderInterval, now) {
			start, end := t.orderWindow(ctx, platform, now)
			t.logger.Info("Scheduling order sync",
				zap.String("platform", platform.String()),
				zap.Time("start_time", start),
				zap.Time("end_time", end),
			)
			if err := t.scheduler.ScheduleOrderSync(platform, start, end); err != nil {
				t.logger.Error("Failed to schedule order sync",
					zap.String("platform", platform.String()),
					zap.Error(err),
				)
			} else {
				t.markScheduled(platform, syncrun.SyncTypeOrders, now)
			}
		}

		if t.isDue(platform, syncrun.SyncTypeTracking, t.config.TrackingInterval, now) {
			t.logger.Info("Scheduling tracking sync",
				zap.String("platform", platform.String()),
			)
			if err := t.scheduler.ScheduleTrackingSync(platform); err != nil {
				t.logger.Error("Failed to schedule tracking sync",
					zap.String("platform", platform.String()),
					zap.Error(err),
				)
			} else {
				t.markScheduled(platform, syncrun.SyncTypeTracking, now)
			}
		}
	}
}

// isDue reports whether enough time has passed since the last queued
// pass of this type for the platform
func (t *SyncTrigger) isDue(platform integration.PlatformCode, syncType syncrun.SyncType, interval time.Duration, now time.Time) bool {
	key := platform.String() + ":" + syncType.String()

	t.lastScheduledMu.RLock()
	last, exists := t.lastScheduled[key]
	t.lastScheduledMu.RUnlock()

	return !exists || now.Sub(last) >= interval
}

// orderWindow computes the pull window for an order pass. The window
// opens at the last completed run's start minus the overlap, or at the
// initial lookback for a platform with no completed history.
func (t *SyncTrigger) orderWindow(ctx context.Context, platform integration.PlatformCode, now time.Time) (time.Time, time.Time) {
	last, err := t.runs.FindLastCompleted(ctx, platform, syncrun.SyncTypeOrders)
	if err != nil {
		if !errors.Is(err, syncrun.ErrNotFound) {
			t.logger.Warn("Failed to read last completed run, using initial lookback",
				zap.String("platform", platform.String()),
				zap.Error(err),
			)
		}
		return now.Add(-t.config.InitialLookback), now
	}
	return last.StartedAt.Add(-t.config.Overlap), now
}

// markScheduled records that a pass was queued
func (t *SyncTrigger) markScheduled(platform integration.PlatformCode, syncType syncrun.SyncType, at time.Time) {
	key := platform.String() + ":" + syncType.String()
	t.lastScheduledMu.Lock()
	t.lastScheduled[key] = at
	t.lastScheduledMu.Unlock()
}

// TriggerManualSync queues an immediate order pass over an explicit window
func (t *SyncTrigger) TriggerManualSync(platform integration.PlatformCode, startTime, endTime time.Time) error {
	if startTime.After(endTime) {
		return ErrInvalidTimeRange
	}

	t.logger.Info("Manual order sync triggered",
		zap.String("platform", platform.String()),
		zap.Time("start_time", startTime),
		zap.Time("end_time", endTime),
	)

	return t.scheduler.ScheduleOrderSync(platform, startTime, endTime)
}
