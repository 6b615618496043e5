package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsync/backend/internal/domain/notification"
)

func TestNotificationRepository_RecordAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	shipmentID := uuid.New()

	first, err := notification.New(notification.TypeOrderShipped, notification.ChannelEmail, "buyer@example.com")
	require.NoError(t, err)
	first.ForOrder(orderID).ForShipment(shipmentID)
	first.SentAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Record(ctx, first))

	second, err := notification.New(notification.TypeDelivered, notification.ChannelEmail, "buyer@example.com")
	require.NoError(t, err)
	second.ForOrder(orderID).ForShipment(shipmentID)
	require.NoError(t, repo.Record(ctx, second))

	t.Run("lists an order's notifications newest first", func(t *testing.T) {
		found, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, notification.TypeDelivered, found[0].Type)
		assert.Equal(t, notification.TypeOrderShipped, found[1].Type)
	})

	t.Run("other orders see nothing", func(t *testing.T) {
		found, err := repo.FindByOrderID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("failed sends land in the ledger too", func(t *testing.T) {
		failed, err := notification.New(notification.TypeDeliveryProblem, notification.ChannelSMS, "+15555550100")
		require.NoError(t, err)
		failed.ForOrder(orderID)
		failed.MarkFailed()
		require.NoError(t, repo.Record(ctx, failed))

		found, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, notification.DeliveryStatusFailed, found[0].Status)
	})
}

func TestNotificationRepository_ExistsSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	shipmentID := uuid.New()

	n, err := notification.New(notification.TypeOutForDelivery, notification.ChannelEmail, "buyer@example.com")
	require.NoError(t, err)
	n.ForOrder(orderID).ForShipment(shipmentID)
	n.SentAt = time.Now().UTC().Add(-30 * time.Minute)
	require.NoError(t, repo.Record(ctx, n))

	cooldown := time.Now().UTC().Add(-time.Hour)

	t.Run("recent notification suppresses a repeat", func(t *testing.T) {
		exists, err := repo.ExistsSince(ctx, &orderID, &shipmentID, notification.TypeOutForDelivery, cooldown)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("cutoff after the send finds nothing", func(t *testing.T) {
		exists, err := repo.ExistsSince(ctx, &orderID, &shipmentID, notification.TypeOutForDelivery, time.Now().UTC())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("different type is independent", func(t *testing.T) {
		exists, err := repo.ExistsSince(ctx, &orderID, &shipmentID, notification.TypeDelivered, cooldown)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("order-only scope matches", func(t *testing.T) {
		exists, err := repo.ExistsSince(ctx, &orderID, nil, notification.TypeOutForDelivery, cooldown)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("different shipment does not match", func(t *testing.T) {
		other := uuid.New()
		exists, err := repo.ExistsSince(ctx, &orderID, &other, notification.TypeOutForDelivery, cooldown)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
