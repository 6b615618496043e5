package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shipment"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// GormShipmentRepository implements shipment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

var _ shipment.ShipmentRepository = (*GormShipmentRepository)(nil)

// Create persists a new shipment
func (r *GormShipmentRepository) Create(ctx context.Context, s *shipment.Shipment) error {
	now := time.Now().UTC()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	return r.db.WithContext(ctx).Create(models.ShipmentModelFromDomain(s)).Error
}

// FindByID finds a shipment by id
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipment.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID returns all shipments belonging to an order
func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]shipment.Shipment, error) {
	var shipmentModels []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}

	shipments := make([]shipment.Shipment, len(shipmentModels))
	for i, model := range shipmentModels {
		shipments[i] = *model.ToDomain()
	}
	return shipments, nil
}

// FindByTrackingNumber finds the shipment carrying a tracking number
func (r *GormShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("tracking_number = ?", trackingNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipment.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStatus applies a sparse patch. Only fields the patch carries
// are written; everything the carrier did not report keeps its stored
// value. UpdatedAt is always refreshed.
func (r *GormShipmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, patch shipment.StatusPatch) error {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if patch.CurrentStatus != nil {
		updates["current_status"] = patch.CurrentStatus.String()
	}
	if patch.TrackingNumber != nil {
		updates["tracking_number"] = *patch.TrackingNumber
	}
	if patch.LastLocation != nil {
		updates["last_location"] = *patch.LastLocation
	}
	if patch.DeliverySignature != nil {
		updates["delivery_signature"] = *patch.DeliverySignature
	}
	if patch.ShippedAt != nil {
		updates["shipped_at"] = *patch.ShippedAt
	}
	if patch.OutForDeliveryAt != nil {
		updates["out_for_delivery_at"] = *patch.OutForDeliveryAt
	}
	if patch.DeliveredAt != nil {
		updates["delivered_at"] = *patch.DeliveredAt
	}
	if patch.EstimatedDelivery != nil {
		updates["estimated_delivery"] = *patch.EstimatedDelivery
	}

	result := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shipment.ErrNotFound
	}
	return nil
}

// shipmentWithOrderRow joins a shipment with its parent order's
// platform context. GORM scans the promoted ShipmentModel columns and
// the two extra order columns in one pass.
type shipmentWithOrderRow struct {
	models.ShipmentModel
	Platform        string
	PlatformOrderID string
}

// FindNeedingUpdate returns the tracking poller's work queue: shipments
// that are not terminal and have a tracking number, oldest first
func (r *GormShipmentRepository) FindNeedingUpdate(ctx context.Context) ([]shipment.WithOrder, error) {
	var rows []shipmentWithOrderRow
	if err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Select("shipments.*, orders.platform AS platform, orders.platform_order_id AS platform_order_id").
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Where("shipments.current_status NOT IN ?", terminalStatusStrings()).
		Where("shipments.tracking_number IS NOT NULL").
		Order("shipments.created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]shipment.WithOrder, len(rows))
	for i, row := range rows {
		out[i] = shipment.WithOrder{
			Shipment:        *row.ShipmentModel.ToDomain(),
			Platform:        integration.PlatformCode(row.Platform),
			PlatformOrderID: row.PlatformOrderID,
		}
	}
	return out, nil
}

func terminalStatusStrings() []string {
	statuses := shipment.TerminalStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
