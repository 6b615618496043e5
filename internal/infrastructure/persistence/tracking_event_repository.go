package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/shipment"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// GormTrackingEventRepository implements shipment.TrackingEventRepository using GORM
type GormTrackingEventRepository struct {
	db *gorm.DB
}

// NewGormTrackingEventRepository creates a new GormTrackingEventRepository
func NewGormTrackingEventRepository(db *gorm.DB) *GormTrackingEventRepository {
	return &GormTrackingEventRepository{db: db}
}

var _ shipment.TrackingEventRepository = (*GormTrackingEventRepository)(nil)

// Append records an event unless the ledger already holds one for the
// same (shipment, timestamp, type, location). Carriers replay their
// full event history on every poll, so the duplicate check runs on
// every ingest. Returns whether a row was written.
func (r *GormTrackingEventRepository) Append(ctx context.Context, e *shipment.TrackingEvent) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TrackingEventModel{}).
		Where("shipment_id = ? AND occurred_at = ? AND event_type = ? AND location = ?",
			e.ShipmentID, e.OccurredAt, e.EventType, e.Location).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(models.TrackingEventModelFromDomain(e)).Error; err != nil {
		return false, err
	}
	return true, nil
}

// FindByShipmentID returns a shipment's events newest first
func (r *GormTrackingEventRepository) FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) ([]shipment.TrackingEvent, error) {
	var eventModels []models.TrackingEventModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at DESC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]shipment.TrackingEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}
