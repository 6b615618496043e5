package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/syncrun"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// GormSyncRunRepository implements syncrun.SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

var _ syncrun.SyncRunRepository = (*GormSyncRunRepository)(nil)

// Start persists a newly opened run
func (r *GormSyncRunRepository) Start(ctx context.Context, run *syncrun.SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(models.SyncRunModelFromDomain(run)).Error
}

// Complete closes the run with the final count and error text. Empty
// error text closes as completed, anything else as error.
func (r *GormSyncRunRepository) Complete(ctx context.Context, id uuid.UUID, itemsSynced int, errorText string) error {
	status := syncrun.RunStatusCompleted
	if errorText != "" {
		status = syncrun.RunStatusError
	}

	result := r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status.String(),
			"items_synced": itemsSynced,
			"error_text":   errorText,
			"completed_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return syncrun.ErrNotFound
	}
	return nil
}

// FindByID finds a run by id
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncrun.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncrun.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLastCompleted returns the most recent completed run for a
// platform and sync type
func (r *GormSyncRunRepository) FindLastCompleted(ctx context.Context, platform integration.PlatformCode, syncType syncrun.SyncType) (*syncrun.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND sync_type = ? AND status = ?",
			platform, syncType, syncrun.RunStatusCompleted).
		Order("completed_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncrun.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindStale returns runs still marked running that started before the cutoff
func (r *GormSyncRunRepository) FindStale(ctx context.Context, startedBefore time.Time) ([]syncrun.SyncRun, error) {
	var runModels []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", syncrun.RunStatusRunning, startedBefore).
		Order("started_at ASC").
		Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]syncrun.SyncRun, len(runModels))
	for i, model := range runModels {
		runs[i] = *model.ToDomain()
	}
	return runs, nil
}

// MarkStale force-closes the given runs as errored with the supplied reason
func (r *GormSyncRunRepository) MarkStale(ctx context.Context, ids []uuid.UUID, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":       syncrun.RunStatusError.String(),
			"error_text":   reason,
			"completed_at": time.Now().UTC(),
		}).Error
}
