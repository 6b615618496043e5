package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shared"
	"github.com/shipsync/backend/internal/domain/shared/valueobject"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending      Status = "pending"
	StatusPaid         Status = "paid"
	StatusLabelCreated Status = "label_created"
	StatusShipped      Status = "shipped"
	StatusDelivered    Status = "delivered"
	StatusCancelled    Status = "cancelled"
	StatusRefunded     Status = "refunded"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusLabelCreated, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsActiveFulfillment returns true while the order still expects
// tracking activity. Orders in this set feed the tracking poller.
func (s Status) IsActiveFulfillment() bool {
	switch s {
	case StatusPaid, StatusLabelCreated, StatusShipped:
		return true
	}
	return false
}

// ActiveFulfillmentStatuses is the tracking poller's selection set
func ActiveFulfillmentStatuses() []Status {
	return []Status{StatusPaid, StatusLabelCreated, StatusShipped}
}

// LineItem represents one purchased listing within an order
type LineItem struct {
	SKU       string          `json:"sku"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Order is one marketplace order, unique per (platform, platform order id).
// Mutable fields are overwritten wholesale on every re-ingestion; the
// local identity and creation metadata survive.
type Order struct {
	ID              uuid.UUID
	Platform        integration.PlatformCode
	PlatformOrderID string
	Status          Status

	CustomerName    string
	CustomerEmail   string
	ShippingAddress valueobject.Address
	Items           []LineItem

	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	PlatformFees decimal.Decimal
	// NetRevenue is derived: Total - PlatformFees - ShippingCost
	NetRevenue decimal.Decimal
	Currency   string

	FulfillmentChannel string
	IsExpedited        bool

	PlatformCreatedAt time.Time
	PlatformUpdatedAt time.Time
	// RawPayload preserves the original platform response verbatim
	RawPayload string
	// SyncedAt is refreshed on every upsert of this order
	SyncedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeNetRevenue derives net revenue from the monetary breakdown.
// Negative inputs (refunds) flow through unchanged.
func ComputeNetRevenue(total, platformFees, shippingCost decimal.Decimal) decimal.Decimal {
	return total.Sub(platformFees).Sub(shippingCost)
}

// RecalculateNetRevenue re-derives NetRevenue from the current money fields
func (o *Order) RecalculateNetRevenue() {
	o.NetRevenue = ComputeNetRevenue(o.Total, o.PlatformFees, o.ShippingCost)
}

// NewFromMarketplace builds an Order from a normalized marketplace
// payload. The marketplace status string is adopted as-is when it maps
// onto the order vocabulary, and falls back to pending otherwise.
func NewFromMarketplace(src *integration.MarketplaceOrder) (*Order, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	status := Status(src.Status)
	if !status.IsValid() {
		status = StatusPending
	}

	currency := src.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]LineItem, len(src.Items))
	for i, it := range src.Items {
		if it.SKU == "" {
			return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item SKU cannot be empty")
		}
		if it.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity must be positive")
		}
		items[i] = LineItem{
			SKU:       it.SKU,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		}
	}

	now := time.Now()
	o := &Order{
		ID:                 uuid.New(),
		Platform:           src.Platform,
		PlatformOrderID:    src.PlatformOrderID,
		Status:             status,
		CustomerName:       src.CustomerName,
		CustomerEmail:      src.CustomerEmail,
		ShippingAddress:    src.ShippingAddress,
		Items:              items,
		Subtotal:           src.Subtotal,
		ShippingCost:       src.ShippingCost,
		Tax:                src.Tax,
		Total:              src.Total,
		PlatformFees:       src.PlatformFees,
		Currency:           currency,
		FulfillmentChannel: src.FulfillmentChannel,
		IsExpedited:        src.IsExpedited,
		PlatformCreatedAt:  src.PlatformCreatedAt,
		PlatformUpdatedAt:  src.PlatformUpdatedAt,
		RawPayload:         src.RawPayload,
		SyncedAt:           now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	o.RecalculateNetRevenue()
	return o, nil
}
