package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/notification"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)

// Record appends a notification to the ledger
func (r *GormNotificationRepository) Record(ctx context.Context, n *notification.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// FindByOrderID returns an order's notifications newest first
func (r *GormNotificationRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]notification.Notification, error) {
	var notificationModels []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("sent_at DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]notification.Notification, len(notificationModels))
	for i, model := range notificationModels {
		notifications[i] = *model.ToDomain()
	}
	return notifications, nil
}

// ExistsSince reports whether a notification of the given type has been
// recorded for the order or shipment at or after the cutoff
func (r *GormNotificationRepository) ExistsSince(ctx context.Context, orderID, shipmentID *uuid.UUID, nType notification.Type, since time.Time) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("type = ? AND sent_at >= ?", nType, since)

	if orderID != nil {
		query = query.Where("order_id = ?", *orderID)
	}
	if shipmentID != nil {
		query = query.Where("shipment_id = ?", *shipmentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
