package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
)

// ErrNotFound is returned by point lookups on nonexistent orders
var ErrNotFound = errors.New("order: not found")

// Filter defines optional criteria for listing orders. Every set field
// is AND-ed; an unset field means no constraint.
type Filter struct {
	// Platform filters by source marketplace
	Platform *integration.PlatformCode
	// Status filters by fulfillment status
	Status *Status
	// StartDate includes orders created at or after this time
	StartDate *time.Time
	// EndDate includes orders created at or before this time
	EndDate *time.Time
	// Limit caps the result size; zero means no cap
	Limit int
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Upsert inserts the order on first occurrence of its
	// (platform, platform order id) key and overwrites every mutable
	// field on subsequent occurrences, refreshing SyncedAt. Calling it
	// twice with identical input is idempotent. It returns the
	// persisted order, including the surviving local identity.
	Upsert(ctx context.Context, o *Order) (*Order, error)

	// FindByID finds an order by its local id
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByPlatformOrderID finds an order by its natural key
	FindByPlatformOrderID(ctx context.Context, platform integration.PlatformCode, platformOrderID string) (*Order, error)

	// FindAll lists orders matching the filter, newest first
	FindAll(ctx context.Context, filter Filter) ([]Order, error)

	// FindNeedingTracking returns orders in active fulfillment whose
	// shipments are absent or undelivered, oldest first. Orders with
	// zero shipments are included; they still need a shipment created.
	FindNeedingTracking(ctx context.Context) ([]Order, error)

	// UpdateStatus transitions the order status and stamps UpdatedAt
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
