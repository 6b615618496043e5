package shipment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
)

// ErrNotFound is returned by point lookups on nonexistent shipments.
// An order legitimately having no shipment yet is routine, not
// exceptional; callers branch on this sentinel.
var ErrNotFound = errors.New("shipment: not found")

// WithOrder carries a shipment together with its parent order's
// platform context, so tracking-poll reporting needs no second query.
type WithOrder struct {
	Shipment        Shipment
	Platform        integration.PlatformCode
	PlatformOrderID string
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	// Create persists a new shipment
	Create(ctx context.Context, s *Shipment) error

	// FindByID finds a shipment by id
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// FindByOrderID returns all shipments belonging to an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Shipment, error)

	// FindByTrackingNumber finds the shipment carrying a tracking number
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Shipment, error)

	// UpdateStatus applies a sparse patch; only non-nil patch fields
	// are written and UpdatedAt is always refreshed
	UpdateStatus(ctx context.Context, id uuid.UUID, patch StatusPatch) error

	// FindNeedingUpdate returns non-terminal shipments that have a
	// tracking number, joined with parent-order context, oldest first.
	// This is the tracking poller's work queue.
	FindNeedingUpdate(ctx context.Context) ([]WithOrder, error)
}

// TrackingEventRepository defines the interface for the append-only
// tracking event ledger
type TrackingEventRepository interface {
	// Append records an event. Re-ingesting an event the ledger has
	// already seen for the same (shipment, timestamp, type, location)
	// is a no-op; Append reports whether a row was written.
	Append(ctx context.Context, e *TrackingEvent) (bool, error)

	// FindByShipmentID returns a shipment's events newest first,
	// backing the delivery timeline view
	FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) ([]TrackingEvent, error)
}
