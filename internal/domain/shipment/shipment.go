package shipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shared"
)

// Status represents the carrier-facing status of a shipment
type Status string

const (
	StatusLabelCreated   Status = "label_created"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusReturned       Status = "returned"
	StatusException      Status = "exception"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusLabelCreated, StatusShipped, StatusOutForDelivery,
		StatusDelivered, StatusReturned, StatusException:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true when no further tracking polling is expected
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusReturned, StatusException:
		return true
	}
	return false
}

// TerminalStatuses is the set excluded from the tracking work queue
func TerminalStatuses() []Status {
	return []Status{StatusDelivered, StatusReturned, StatusException}
}

// CanTransitionTo checks whether the target follows this status on the
// happy path or reaches an off-path terminal. The storage layer does
// not police this edge set; carrier-response mappers use it to keep
// status movement monotonic when carriers report out of order.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StatusReturned || target == StatusException {
		return true
	}
	switch s {
	case StatusLabelCreated:
		return target == StatusShipped || target == StatusOutForDelivery || target == StatusDelivered
	case StatusShipped:
		return target == StatusOutForDelivery || target == StatusDelivered
	case StatusOutForDelivery:
		return target == StatusDelivered
	}
	return false
}

// Shipment is one carrier parcel belonging to an order. Orders may have
// several shipments under split fulfillment. Shipments are never
// deleted; terminal states are retained for audit.
type Shipment struct {
	ID      uuid.UUID
	OrderID uuid.UUID

	Carrier     integration.CarrierCode
	ServiceCode string
	// TrackingNumber may be empty until the carrier assigns one
	TrackingNumber string

	CurrentStatus     Status
	LabelCreatedAt    *time.Time
	ShippedAt         *time.Time
	OutForDeliveryAt  *time.Time
	DeliveredAt       *time.Time
	DeliverySignature string
	LastLocation      string
	EstimatedDelivery *time.Time

	WeightOz     decimal.Decimal
	ShippingCost decimal.Decimal
	// LabelRef points at the stored label artifact
	LabelRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewShipment creates a shipment at label purchase time. The tracking
// number is optional; some carriers assign it after the label exists.
// Status defaults to label_created unless the caller is ingesting
// historical data that is already further along.
func NewShipment(orderID uuid.UUID, carrier integration.CarrierCode, trackingNumber string) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Shipment requires an order ID")
	}
	if !carrier.IsValid() {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Shipment requires a known carrier")
	}

	now := time.Now()
	return &Shipment{
		ID:             uuid.New(),
		OrderID:        orderID,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
		CurrentStatus:  StatusLabelCreated,
		LabelCreatedAt: &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// StatusPatch is a sparse update against a shipment. Only non-nil
// fields are written, so partial carrier responses never clobber
// previously known milestone timestamps.
type StatusPatch struct {
	CurrentStatus     *Status
	TrackingNumber    *string
	ShippedAt         *time.Time
	OutForDeliveryAt  *time.Time
	DeliveredAt       *time.Time
	LastLocation      *string
	EstimatedDelivery *time.Time
	DeliverySignature *string
}

// IsEmpty returns true when the patch would write nothing
func (p *StatusPatch) IsEmpty() bool {
	return p.CurrentStatus == nil &&
		p.TrackingNumber == nil &&
		p.ShippedAt == nil &&
		p.OutForDeliveryAt == nil &&
		p.DeliveredAt == nil &&
		p.LastLocation == nil &&
		p.EstimatedDelivery == nil &&
		p.DeliverySignature == nil
}

// PatchFromSnapshot converts a carrier poll result into a sparse patch.
// Milestone timestamps are taken whenever the carrier reports them; the
// latest reported value per key wins over an earlier poll.
func PatchFromSnapshot(snap *integration.TrackingSnapshot) StatusPatch {
	var patch StatusPatch
	if snap.Status != "" {
		s := Status(snap.Status)
		if s.IsValid() {
			patch.CurrentStatus = &s
		}
	}
	if snap.ShippedAt != nil {
		patch.ShippedAt = snap.ShippedAt
	}
	if snap.OutForDeliveryAt != nil {
		patch.OutForDeliveryAt = snap.OutForDeliveryAt
	}
	if snap.DeliveredAt != nil {
		patch.DeliveredAt = snap.DeliveredAt
	}
	if snap.LastLocation != "" {
		loc := snap.LastLocation
		patch.LastLocation = &loc
	}
	if snap.EstimatedDelivery != nil {
		patch.EstimatedDelivery = snap.EstimatedDelivery
	}
	if snap.Signature != "" {
		sig := snap.Signature
		patch.DeliverySignature = &sig
	}
	return patch
}
