package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for the notification
// ledger. Inserts only; rows are never updated or deleted.
type NotificationRepository interface {
	// Record appends a notification to the ledger
	Record(ctx context.Context, n *Notification) error

	// FindByOrderID returns an order's notifications newest first
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Notification, error)

	// ExistsSince reports whether a notification of the given type has
	// been recorded for the order or shipment at or after the cutoff.
	// Either id may be nil; set ids are AND-ed. Backs the cool-down
	// dedup owned by the notification decision component.
	ExistsSince(ctx context.Context, orderID, shipmentID *uuid.UUID, nType Type, since time.Time) (bool, error)
}
