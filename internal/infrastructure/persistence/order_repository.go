package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)

// orderUpsertColumns are the mutable columns overwritten on re-sync.
// Platform identity and the local id survive; synced_at is refreshed
// so it records the last sync touch, not the first.
var orderUpsertColumns = []string{
	"status",
	"customer_name",
	"customer_email",
	"shipping_address",
	"items",
	"subtotal",
	"shipping_cost",
	"tax",
	"total",
	"platform_fees",
	"net_revenue",
	"currency",
	"fulfillment_channel",
	"is_expedited",
	"platform_created_at",
	"platform_updated_at",
	"raw_payload",
	"synced_at",
	"updated_at",
}

// Upsert inserts or overwrites an order keyed on (platform, platform_order_id)
func (r *GormOrderRepository) Upsert(ctx context.Context, o *order.Order) (*order.Order, error) {
	now := time.Now().UTC()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	o.SyncedAt = now

	model := models.OrderModelFromDomain(o)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "platform_order_id"}},
			DoUpdates: clause.AssignmentColumns(orderUpsertColumns),
		}).
		Create(model).Error; err != nil {
		return nil, err
	}

	// Re-read by natural key: on conflict the original row's id survives,
	// not the one generated for this call.
	return r.FindByPlatformOrderID(ctx, o.Platform, o.PlatformOrderID)
}

// FindByID finds an order by its local id
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformOrderID finds an order by its natural key
func (r *GormOrderRepository) FindByPlatformOrderID(ctx context.Context, platform integration.PlatformCode, platformOrderID string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_order_id = ?", platform, platformOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})

	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orderModels []models.OrderModel
	if err := query.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindNeedingTracking returns active-fulfillment orders whose shipments
// are absent or undelivered, oldest first. The LEFT JOIN keeps orders
// with zero shipments in the result.
func (r *GormOrderRepository) FindNeedingTracking(ctx context.Context) ([]order.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Distinct("orders.*").
		Joins("LEFT JOIN shipments ON shipments.order_id = orders.id").
		Where("orders.status IN ?", statusStrings(order.ActiveFulfillmentStatuses())).
		Where("shipments.id IS NULL OR shipments.delivered_at IS NULL").
		Order("orders.created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// UpdateStatus transitions the order status and stamps UpdatedAt
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status.String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrNotFound
	}
	return nil
}

func statusStrings(statuses []order.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
