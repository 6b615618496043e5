package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shipment"
)

// ShipmentModel is the persistence model for the Shipment entity.
// TrackingNumber is a pointer so "no tracking number yet" is a real
// NULL the work-queue query can exclude.
type ShipmentModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`

	Carrier        string  `gorm:"type:varchar(20);not null"`
	ServiceCode    string  `gorm:"type:varchar(50)"`
	TrackingNumber *string `gorm:"type:varchar(100);index"`

	CurrentStatus     string `gorm:"type:varchar(20);not null;default:'label_created';index"`
	LabelCreatedAt    *time.Time
	ShippedAt         *time.Time
	OutForDeliveryAt  *time.Time
	DeliveredAt       *time.Time
	DeliverySignature string `gorm:"type:varchar(200)"`
	LastLocation      string `gorm:"type:varchar(200)"`
	EstimatedDelivery *time.Time

	WeightOz     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LabelRef     string          `gorm:"type:varchar(500)"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment entity.
func (m *ShipmentModel) ToDomain() *shipment.Shipment {
	s := &shipment.Shipment{
		ID:                m.ID,
		OrderID:           m.OrderID,
		Carrier:           integration.CarrierCode(m.Carrier),
		ServiceCode:       m.ServiceCode,
		CurrentStatus:     shipment.Status(m.CurrentStatus),
		LabelCreatedAt:    m.LabelCreatedAt,
		ShippedAt:         m.ShippedAt,
		OutForDeliveryAt:  m.OutForDeliveryAt,
		DeliveredAt:       m.DeliveredAt,
		DeliverySignature: m.DeliverySignature,
		LastLocation:      m.LastLocation,
		EstimatedDelivery: m.EstimatedDelivery,
		WeightOz:          m.WeightOz,
		ShippingCost:      m.ShippingCost,
		LabelRef:          m.LabelRef,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.TrackingNumber != nil {
		s.TrackingNumber = *m.TrackingNumber
	}
	return s
}

// FromDomain populates the persistence model from a domain Shipment entity.
func (m *ShipmentModel) FromDomain(s *shipment.Shipment) {
	m.ID = s.ID
	m.OrderID = s.OrderID
	m.Carrier = s.Carrier.String()
	m.ServiceCode = s.ServiceCode
	if s.TrackingNumber != "" {
		tn := s.TrackingNumber
		m.TrackingNumber = &tn
	} else {
		m.TrackingNumber = nil
	}
	m.CurrentStatus = s.CurrentStatus.String()
	m.LabelCreatedAt = s.LabelCreatedAt
	m.ShippedAt = s.ShippedAt
	m.OutForDeliveryAt = s.OutForDeliveryAt
	m.DeliveredAt = s.DeliveredAt
	m.DeliverySignature = s.DeliverySignature
	m.LastLocation = s.LastLocation
	m.EstimatedDelivery = s.EstimatedDelivery
	m.WeightOz = s.WeightOz
	m.ShippingCost = s.ShippingCost
	m.LabelRef = s.LabelRef
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment entity.
func ShipmentModelFromDomain(s *shipment.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(s)
	return m
}

// TrackingEventModel is the persistence model for the TrackingEvent entity.
type TrackingEventModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_tracking_events_shipment,priority:1"`

	EventType         string    `gorm:"type:varchar(50);not null"`
	CarrierStatusCode string    `gorm:"type:varchar(50)"`
	Description       string    `gorm:"type:text"`
	Location          string    `gorm:"type:varchar(200)"`
	OccurredAt        time.Time `gorm:"not null;index:idx_tracking_events_shipment,priority:2"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "tracking_events"
}

// ToDomain converts the persistence model to a domain TrackingEvent entity.
func (m *TrackingEventModel) ToDomain() *shipment.TrackingEvent {
	return &shipment.TrackingEvent{
		ID:                m.ID,
		ShipmentID:        m.ShipmentID,
		EventType:         m.EventType,
		CarrierStatusCode: m.CarrierStatusCode,
		Description:       m.Description,
		Location:          m.Location,
		OccurredAt:        m.OccurredAt,
		CreatedAt:         m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain TrackingEvent entity.
func (m *TrackingEventModel) FromDomain(e *shipment.TrackingEvent) {
	m.ID = e.ID
	m.ShipmentID = e.ShipmentID
	m.EventType = e.EventType
	m.CarrierStatusCode = e.CarrierStatusCode
	m.Description = e.Description
	m.Location = e.Location
	m.OccurredAt = e.OccurredAt
	m.CreatedAt = e.CreatedAt
}

// TrackingEventModelFromDomain creates a new persistence model from a domain TrackingEvent entity.
func TrackingEventModelFromDomain(e *shipment.TrackingEvent) *TrackingEventModel {
	m := &TrackingEventModel{}
	m.FromDomain(e)
	return m
}
