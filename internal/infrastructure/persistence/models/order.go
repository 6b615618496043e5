package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order entity.
type OrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Platform        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_platform_key,priority:1"`
	PlatformOrderID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_platform_key,priority:2"`
	Status          string    `gorm:"type:varchar(20);not null;index"`

	CustomerName    string              `gorm:"type:varchar(200)"`
	CustomerEmail   string              `gorm:"type:varchar(200)"`
	ShippingAddress valueobject.Address `gorm:"type:text"`
	ItemsJSON       string              `gorm:"type:text;column:items"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PlatformFees decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetRevenue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'USD'"`

	FulfillmentChannel string `gorm:"type:varchar(50)"`
	IsExpedited        bool   `gorm:"not null;default:false"`

	PlatformCreatedAt time.Time
	PlatformUpdatedAt time.Time
	RawPayload        string    `gorm:"type:text"`
	SyncedAt          time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:                 m.ID,
		Platform:           integration.PlatformCode(m.Platform),
		PlatformOrderID:    m.PlatformOrderID,
		Status:             order.Status(m.Status),
		CustomerName:       m.CustomerName,
		CustomerEmail:      m.CustomerEmail,
		ShippingAddress:    m.ShippingAddress,
		Items:              make([]order.LineItem, 0),
		Subtotal:           m.Subtotal,
		ShippingCost:       m.ShippingCost,
		Tax:                m.Tax,
		Total:              m.Total,
		PlatformFees:       m.PlatformFees,
		NetRevenue:         m.NetRevenue,
		Currency:           m.Currency,
		FulfillmentChannel: m.FulfillmentChannel,
		IsExpedited:        m.IsExpedited,
		PlatformCreatedAt:  m.PlatformCreatedAt,
		PlatformUpdatedAt:  m.PlatformUpdatedAt,
		RawPayload:         m.RawPayload,
		SyncedAt:           m.SyncedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	if m.ItemsJSON != "" {
		var items []order.LineItem
		if err := json.Unmarshal([]byte(m.ItemsJSON), &items); err == nil {
			o.Items = items
		}
	}

	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.Platform = o.Platform.String()
	m.PlatformOrderID = o.PlatformOrderID
	m.Status = o.Status.String()
	m.CustomerName = o.CustomerName
	m.CustomerEmail = o.CustomerEmail
	m.ShippingAddress = o.ShippingAddress
	m.Subtotal = o.Subtotal
	m.ShippingCost = o.ShippingCost
	m.Tax = o.Tax
	m.Total = o.Total
	m.PlatformFees = o.PlatformFees
	m.NetRevenue = o.NetRevenue
	m.Currency = o.Currency
	m.FulfillmentChannel = o.FulfillmentChannel
	m.IsExpedited = o.IsExpedited
	m.PlatformCreatedAt = o.PlatformCreatedAt
	m.PlatformUpdatedAt = o.PlatformUpdatedAt
	m.RawPayload = o.RawPayload
	m.SyncedAt = o.SyncedAt
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	if len(o.Items) > 0 {
		if b, err := json.Marshal(o.Items); err == nil {
			m.ItemsJSON = string(b)
		}
	} else {
		m.ItemsJSON = "[]"
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
