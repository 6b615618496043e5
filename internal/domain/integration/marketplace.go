package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shipsync/backend/internal/domain/shared/valueobject"
)

// ---------------------------------------------------------------------------
// Normalized marketplace payloads
// ---------------------------------------------------------------------------

// MarketplaceOrder is an order as normalized by a marketplace client.
// It is the only shape in which order data crosses into the core; the
// platform-specific response is preserved verbatim in RawPayload.
type MarketplaceOrder struct {
	// Platform identifies the source marketplace
	Platform PlatformCode
	// PlatformOrderID is the order's id on the marketplace
	PlatformOrderID string
	// Status is the marketplace-reported order status
	Status string
	// CustomerName is the buyer's display name
	CustomerName string
	// CustomerEmail is the buyer's contact email
	CustomerEmail string
	// ShippingAddress is the structured delivery address
	ShippingAddress valueobject.Address
	// Items contains the order line items in marketplace order
	Items []MarketplaceOrderItem
	// Subtotal is the item total before shipping and tax
	Subtotal decimal.Decimal
	// ShippingCost is what the buyer paid for shipping
	ShippingCost decimal.Decimal
	// Tax is the collected tax amount
	Tax decimal.Decimal
	// Total is the grand total the buyer paid
	Total decimal.Decimal
	// PlatformFees is the marketplace's cut of the sale
	PlatformFees decimal.Decimal
	// Currency is the ISO 4217 currency code
	Currency string
	// FulfillmentChannel distinguishes merchant vs platform fulfillment
	FulfillmentChannel string
	// IsExpedited marks prime/expedited handling commitments
	IsExpedited bool
	// PlatformCreatedAt is when the order was placed on the marketplace
	PlatformCreatedAt time.Time
	// PlatformUpdatedAt is when the marketplace last touched the order
	PlatformUpdatedAt time.Time
	// RawPayload is the original platform response (JSON), kept for
	// forward compatibility
	RawPayload string
}

// Validate checks the minimum identity contract a marketplace client
// must honor before the order may enter the core.
func (o *MarketplaceOrder) Validate() error {
	if !o.Platform.IsValid() {
		return ErrOrderMissingIdentity
	}
	if o.PlatformOrderID == "" {
		return ErrOrderMissingIdentity
	}
	return nil
}

// MarketplaceOrderItem is a normalized order line item
type MarketplaceOrderItem struct {
	// SKU is the merchant's stock keeping unit
	SKU string `json:"sku"`
	// Title is the listing title at purchase time
	Title string `json:"title,omitempty"`
	// Quantity is the ordered quantity
	Quantity int `json:"qty"`
	// Price is the unit price
	Price decimal.Decimal `json:"price"`
}

// ---------------------------------------------------------------------------
// MarketplaceClient port
// ---------------------------------------------------------------------------

// OrderPullRequest bounds one pull from a marketplace
type OrderPullRequest struct {
	Platform  PlatformCode
	StartTime time.Time
	EndTime   time.Time
}

// Validate validates the pull request
func (r *OrderPullRequest) Validate() error {
	if !r.Platform.IsValid() {
		return ErrPlatformNotConfigured
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errors.New("integration: start time and end time are required")
	}
	if r.StartTime.After(r.EndTime) {
		return errors.New("integration: start time must be before end time")
	}
	return nil
}

// MarketplaceClient is the port through which normalized orders reach
// the core. Concrete HTTP clients live outside the core and implement
// this interface per platform.
type MarketplaceClient interface {
	// Platform returns the platform code this client serves
	Platform() PlatformCode

	// PullOrders returns orders created or updated inside the request's
	// time range, already normalized
	PullOrders(ctx context.Context, req *OrderPullRequest) ([]MarketplaceOrder, error)
}

// MarketplaceRegistry resolves marketplace clients by platform code
type MarketplaceRegistry interface {
	// Client returns the client for the given platform code
	Client(platform PlatformCode) (MarketplaceClient, error)

	// Platforms returns the codes of every registered client
	Platforms() []PlatformCode
}
