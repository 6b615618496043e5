package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Normalized carrier payloads
// ---------------------------------------------------------------------------

// TrackingSnapshot is one carrier poll result for a tracking number.
// Carriers report partially; every field beyond Status may be absent,
// which is why the milestone timestamps are pointers.
type TrackingSnapshot struct {
	// TrackingNumber is the polled tracking number
	TrackingNumber string
	// Status is the carrier status already mapped to the shipment
	// status vocabulary (shipped, out_for_delivery, delivered, ...)
	Status string
	// LastLocation is the most recent location string, if reported
	LastLocation string
	// EstimatedDelivery is the carrier's delivery estimate, if reported
	EstimatedDelivery *time.Time
	// ShippedAt is when the carrier first accepted the parcel
	ShippedAt *time.Time
	// OutForDeliveryAt is when the parcel left for final delivery
	OutForDeliveryAt *time.Time
	// DeliveredAt is when the parcel was delivered
	DeliveredAt *time.Time
	// Signature is the delivery signature, if captured
	Signature string
	// Events are the discrete scan events included in this poll
	Events []CarrierEvent
}

// CarrierEvent is one carrier-reported occurrence in a parcel's history
type CarrierEvent struct {
	// Type is the normalized event type (accepted, in_transit, delivered, ...)
	Type string
	// StatusCode is the carrier-specific status code
	StatusCode string
	// Description is the carrier's human-readable text
	Description string
	// Location is where the event occurred
	Location string
	// OccurredAt is the carrier event timestamp; nil when the carrier
	// omitted it, in which case ingestion time is used
	OccurredAt *time.Time
}

// ---------------------------------------------------------------------------
// CarrierClient port
// ---------------------------------------------------------------------------

// CarrierClient is the port through which carrier tracking data reaches
// the core. Concrete carrier API clients live outside the core.
type CarrierClient interface {
	// Carrier returns the carrier code this client serves
	Carrier() CarrierCode

	// Track polls the carrier for the current state of a tracking number
	Track(ctx context.Context, trackingNumber string) (*TrackingSnapshot, error)
}

// CarrierRegistry resolves carrier clients by carrier code
type CarrierRegistry interface {
	// Client returns the client for the given carrier code
	Client(carrier CarrierCode) (CarrierClient, error)
}
