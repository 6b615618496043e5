package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/shipment"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.OrderModel{},
		&models.ShipmentModel{},
		&models.TrackingEventModel{},
		&models.SyncRunModel{},
		&models.NotificationModel{},
	)
	require.NoError(t, err)

	return db
}

func testOrder(t *testing.T, platform integration.PlatformCode, platformOrderID string) *order.Order {
	t.Helper()

	o, err := order.NewFromMarketplace(&integration.MarketplaceOrder{
		Platform:        platform,
		PlatformOrderID: platformOrderID,
		Status:          "paid",
		CustomerName:    "Pat Doe",
		CustomerEmail:   "pat@example.com",
		Items: []integration.MarketplaceOrderItem{
			{SKU: "MUG-BLUE", Title: "Blue Mug", Quantity: 2, Price: decimal.NewFromInt(45)},
		},
		Subtotal:          decimal.NewFromInt(90),
		ShippingCost:      decimal.NewFromInt(10),
		Tax:               decimal.NewFromInt(0),
		Total:             decimal.NewFromInt(100),
		PlatformFees:      decimal.NewFromInt(5),
		Currency:          "USD",
		PlatformCreatedAt: time.Now().Add(-time.Hour),
		PlatformUpdatedAt: time.Now(),
	})
	require.NoError(t, err)
	return o
}

func testShipment(t *testing.T, orderID uuid.UUID, trackingNumber string) *shipment.Shipment {
	t.Helper()

	s, err := shipment.NewShipment(orderID, integration.CarrierUSPS, trackingNumber)
	require.NoError(t, err)
	return s
}
