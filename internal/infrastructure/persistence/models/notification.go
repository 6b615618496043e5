package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for the Notification entity.
type NotificationModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	ShipmentID *uuid.UUID `gorm:"type:uuid;index"`

	Type      string `gorm:"type:varchar(30);not null;index:idx_notifications_type_sent,priority:1"`
	Channel   string `gorm:"type:varchar(10);not null"`
	Recipient string `gorm:"type:varchar(200);not null"`
	Subject   string `gorm:"type:varchar(500)"`
	Message   string `gorm:"type:text"`

	Status string    `gorm:"type:varchar(10);not null;default:'sent'"`
	SentAt time.Time `gorm:"not null;index:idx_notifications_type_sent,priority:2"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		ID:         m.ID,
		OrderID:    m.OrderID,
		ShipmentID: m.ShipmentID,
		Type:       notification.Type(m.Type),
		Channel:    notification.Channel(m.Channel),
		Recipient:  m.Recipient,
		Subject:    m.Subject,
		Message:    m.Message,
		Status:     notification.DeliveryStatus(m.Status),
		SentAt:     m.SentAt,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.ID = n.ID
	m.OrderID = n.OrderID
	m.ShipmentID = n.ShipmentID
	m.Type = n.Type.String()
	m.Channel = string(n.Channel)
	m.Recipient = n.Recipient
	m.Subject = n.Subject
	m.Message = n.Message
	m.Status = string(n.Status)
	m.SentAt = n.SentAt
	m.CreatedAt = n.CreatedAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
