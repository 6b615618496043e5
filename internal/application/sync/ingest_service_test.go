package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/order"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

func pulledOrder(platformOrderID string) integration.MarketplaceOrder {
	return integration.MarketplaceOrder{
		Platform:        integration.PlatformEtsy,
		PlatformOrderID: platformOrderID,
		Status:          "paid",
		CustomerName:    "Jamie Doe",
		CustomerEmail:   "jamie@example.com",
		Items: []integration.MarketplaceOrderItem{
			{SKU: "MUG-BLUE", Quantity: 1, Price: decimal.NewFromInt(45)},
		},
		Subtotal:          decimal.NewFromInt(45),
		ShippingCost:      decimal.NewFromInt(5),
		Total:             decimal.NewFromInt(50),
		PlatformFees:      decimal.NewFromInt(3),
		Currency:          "USD",
		PlatformCreatedAt: time.Now().Add(-time.Hour),
		PlatformUpdatedAt: time.Now(),
	}
}

func pullWindow() (time.Time, time.Time) {
	end := time.Now()
	return end.Add(-24 * time.Hour), end
}

func TestIngestService_IngestOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts every pulled order and completes the run", func(t *testing.T) {
		client := &fakeMarketplaceClient{
			code:   integration.PlatformEtsy,
			orders: []integration.MarketplaceOrder{pulledOrder("E-1"), pulledOrder("E-2"), pulledOrder("E-3")},
		}
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{
			integration.PlatformEtsy: client,
		}}
		orders := newFakeOrderRepo()
		runs := newFakeRunStore()
		svc := NewIngestService(registry, orders, runs, zap.NewNop())

		start, end := pullWindow()
		synced, err := svc.IngestOrders(ctx, integration.PlatformEtsy, start, end)
		require.NoError(t, err)
		assert.Equal(t, 3, synced)

		stored, err := orders.FindByPlatformOrderID(ctx, integration.PlatformEtsy, "E-2")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, stored.Status)
		assert.Equal(t, "jamie@example.com", stored.CustomerEmail)

		run := runs.only(syncrun.SyncTypeOrders)
		require.NotNil(t, run)
		assert.Equal(t, syncrun.RunStatusCompleted, run.Status)
		assert.Equal(t, 3, run.ItemsSynced)
		assert.Empty(t, run.ErrorText)

		require.NotNil(t, client.lastReq)
		assert.Equal(t, start, client.lastReq.StartTime)
		assert.Equal(t, end, client.lastReq.EndTime)
	})

	t.Run("re-ingesting the same window is idempotent", func(t *testing.T) {
		client := &fakeMarketplaceClient{
			code:   integration.PlatformEtsy,
			orders: []integration.MarketplaceOrder{pulledOrder("E-1")},
		}
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{
			integration.PlatformEtsy: client,
		}}
		orders := newFakeOrderRepo()
		svc := NewIngestService(registry, orders, newFakeRunStore(), zap.NewNop())

		start, end := pullWindow()
		_, err := svc.IngestOrders(ctx, integration.PlatformEtsy, start, end)
		require.NoError(t, err)
		first, err := orders.FindByPlatformOrderID(ctx, integration.PlatformEtsy, "E-1")
		require.NoError(t, err)

		_, err = svc.IngestOrders(ctx, integration.PlatformEtsy, start, end)
		require.NoError(t, err)
		second, err := orders.FindByPlatformOrderID(ctx, integration.PlatformEtsy, "E-1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("one bad order does not sink the pass", func(t *testing.T) {
		bad := pulledOrder("E-BAD")
		bad.Items = []integration.MarketplaceOrderItem{{SKU: "", Quantity: 1}}
		client := &fakeMarketplaceClient{
			code:   integration.PlatformEtsy,
			orders: []integration.MarketplaceOrder{pulledOrder("E-1"), bad, pulledOrder("E-3")},
		}
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{
			integration.PlatformEtsy: client,
		}}
		orders := newFakeOrderRepo()
		runs := newFakeRunStore()
		svc := NewIngestService(registry, orders, runs, zap.NewNop())

		start, end := pullWindow()
		synced, err := svc.IngestOrders(ctx, integration.PlatformEtsy, start, end)
		require.Error(t, err)
		assert.Equal(t, 2, synced)
		assert.Contains(t, err.Error(), "E-BAD")

		// The healthy orders around the failure still landed
		_, err = orders.FindByPlatformOrderID(ctx, integration.PlatformEtsy, "E-1")
		assert.NoError(t, err)
		_, err = orders.FindByPlatformOrderID(ctx, integration.PlatformEtsy, "E-3")
		assert.NoError(t, err)

		// The run closes as error so the next pull window re-covers it
		run := runs.only(syncrun.SyncTypeOrders)
		require.NotNil(t, run)
		assert.Equal(t, syncrun.RunStatusError, run.Status)
		assert.Equal(t, 2, run.ItemsSynced)
		assert.Contains(t, run.ErrorText, "1 of 3 orders failed")
	})

	t.Run("pull failure closes the run as error", func(t *testing.T) {
		client := &fakeMarketplaceClient{code: integration.PlatformEtsy, err: errors.New("rate limited")}
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{
			integration.PlatformEtsy: client,
		}}
		runs := newFakeRunStore()
		svc := NewIngestService(registry, newFakeOrderRepo(), runs, zap.NewNop())

		start, end := pullWindow()
		synced, err := svc.IngestOrders(ctx, integration.PlatformEtsy, start, end)
		require.Error(t, err)
		assert.Zero(t, synced)

		run := runs.only(syncrun.SyncTypeOrders)
		require.NotNil(t, run)
		assert.Equal(t, syncrun.RunStatusError, run.Status)
		assert.Contains(t, run.ErrorText, "rate limited")
	})

	t.Run("unconfigured platform closes the run as error", func(t *testing.T) {
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{}}
		runs := newFakeRunStore()
		svc := NewIngestService(registry, newFakeOrderRepo(), runs, zap.NewNop())

		start, end := pullWindow()
		_, err := svc.IngestOrders(ctx, integration.PlatformAmazon, start, end)
		assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)

		run := runs.only(syncrun.SyncTypeOrders)
		require.NotNil(t, run)
		assert.Equal(t, syncrun.RunStatusError, run.Status)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		client := &fakeMarketplaceClient{code: integration.PlatformEtsy}
		registry := &fakeMarketplaceRegistry{clients: map[integration.PlatformCode]integration.MarketplaceClient{
			integration.PlatformEtsy: client,
		}}
		svc := NewIngestService(registry, newFakeOrderRepo(), newFakeRunStore(), zap.NewNop())

		start, end := pullWindow()
		_, err := svc.IngestOrders(ctx, integration.PlatformEtsy, end, start)
		assert.Error(t, err)
		assert.Nil(t, client.lastReq)
	})
}
