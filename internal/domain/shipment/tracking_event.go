package shipment

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/shared"
)

// TrackingEvent is one immutable carrier-reported occurrence in a
// shipment's delivery history. Events are only ever appended.
type TrackingEvent struct {
	ID         uuid.UUID
	ShipmentID uuid.UUID

	// EventType is the normalized event type (accepted, in_transit, ...)
	EventType string
	// CarrierStatusCode is the carrier's own status code
	CarrierStatusCode string
	Description       string
	Location          string
	// OccurredAt is the carrier event timestamp, defaulting to
	// ingestion time when the carrier omitted one
	OccurredAt time.Time

	CreatedAt time.Time
}

// NewTrackingEvent creates a tracking event for a shipment. When the
// carrier supplied no timestamp, pass a zero time and ingestion time
// is used.
func NewTrackingEvent(shipmentID uuid.UUID, eventType string, occurredAt time.Time) (*TrackingEvent, error) {
	if shipmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_ID", "Tracking event requires a shipment ID")
	}
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Tracking event requires an event type")
	}

	now := time.Now()
	if occurredAt.IsZero() {
		occurredAt = now
	}

	return &TrackingEvent{
		ID:         uuid.New(),
		ShipmentID: shipmentID,
		EventType:  eventType,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}, nil
}
