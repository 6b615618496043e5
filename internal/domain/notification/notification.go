package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/shared"
)

// Type classifies what transition a notification announces
type Type string

const (
	TypeOrderShipped     Type = "order_shipped"
	TypeOutForDelivery   Type = "out_for_delivery"
	TypeDelivered        Type = "delivered"
	TypeDeliveryProblem  Type = "delivery_problem"
	TypeShipmentReturned Type = "shipment_returned"
)

// IsValid checks if the notification type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeOrderShipped, TypeOutForDelivery, TypeDelivered,
		TypeDeliveryProblem, TypeShipmentReturned:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Channel is the delivery channel a notification went out on
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// DeliveryStatus records the dispatch outcome
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Notification is the append-only audit record of one outbound message.
// It is keyed loosely: either OrderID or ShipmentID may be nil
// depending on the notification's scope. The ledger doubles as the
// substrate for cool-down dedup before repeating an alert.
type Notification struct {
	ID         uuid.UUID
	OrderID    *uuid.UUID
	ShipmentID *uuid.UUID

	Type      Type
	Channel   Channel
	Recipient string
	Subject   string
	Message   string

	Status DeliveryStatus
	SentAt time.Time

	CreatedAt time.Time
}

// New creates a notification record with status defaulting to sent
func New(nType Type, channel Channel, recipient string) (*Notification, error) {
	if !nType.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Unknown notification type")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown notification channel")
	}
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Notification requires a recipient")
	}

	now := time.Now()
	return &Notification{
		ID:        uuid.New(),
		Type:      nType,
		Channel:   channel,
		Recipient: recipient,
		Status:    DeliveryStatusSent,
		SentAt:    now,
		CreatedAt: now,
	}, nil
}

// ForOrder scopes the notification to an order
func (n *Notification) ForOrder(orderID uuid.UUID) *Notification {
	n.OrderID = &orderID
	return n
}

// ForShipment scopes the notification to a shipment
func (n *Notification) ForShipment(shipmentID uuid.UUID) *Notification {
	n.ShipmentID = &shipmentID
	return n
}

// MarkFailed records that dispatch did not succeed
func (n *Notification) MarkFailed() {
	n.Status = DeliveryStatusFailed
}
