package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/shipment"
)

func TestShipmentRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	repo := NewGormShipmentRepository(db)
	ctx := context.Background()

	o, err := orderRepo.Upsert(ctx, testOrder(t, integration.PlatformEtsy, "E-1"))
	require.NoError(t, err)

	s := testShipment(t, o.ID, "9400100000001")
	require.NoError(t, repo.Create(ctx, s))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.OrderID)
		assert.Equal(t, integration.CarrierUSPS, found.Carrier)
		assert.Equal(t, shipment.StatusLabelCreated, found.CurrentStatus)
		assert.NotNil(t, found.LabelCreatedAt)
	})

	t.Run("finds by order id", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testShipment(t, o.ID, "9400100000002")))

		shipments, err := repo.FindByOrderID(ctx, o.ID)
		require.NoError(t, err)
		assert.Len(t, shipments, 2)
	})

	t.Run("finds by tracking number", func(t *testing.T) {
		found, err := repo.FindByTrackingNumber(ctx, "9400100000001")
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
	})

	t.Run("returns sentinel for missing shipments", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shipment.ErrNotFound)

		_, err = repo.FindByTrackingNumber(ctx, "nope")
		assert.ErrorIs(t, err, shipment.ErrNotFound)
	})
}

func TestShipmentRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	repo := NewGormShipmentRepository(db)
	ctx := context.Background()

	o, err := orderRepo.Upsert(ctx, testOrder(t, integration.PlatformEtsy, "E-1"))
	require.NoError(t, err)

	t.Run("partial patch preserves earlier milestones", func(t *testing.T) {
		s := testShipment(t, o.ID, "9400200000001")
		require.NoError(t, repo.Create(ctx, s))

		shippedAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
		shipped := shipment.StatusShipped
		loc := "Portland, OR"
		require.NoError(t, repo.UpdateStatus(ctx, s.ID, shipment.StatusPatch{
			CurrentStatus: &shipped,
			ShippedAt:     &shippedAt,
			LastLocation:  &loc,
		}))

		// Later poll reports only delivery; the shipped milestone must survive.
		deliveredAt := time.Date(2026, 8, 22, 14, 30, 0, 0, time.UTC)
		delivered := shipment.StatusDelivered
		sig := "P DOE"
		require.NoError(t, repo.UpdateStatus(ctx, s.ID, shipment.StatusPatch{
			CurrentStatus:     &delivered,
			DeliveredAt:       &deliveredAt,
			DeliverySignature: &sig,
		}))

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, shipment.StatusDelivered, found.CurrentStatus)
		require.NotNil(t, found.ShippedAt)
		assert.True(t, found.ShippedAt.Equal(shippedAt))
		require.NotNil(t, found.DeliveredAt)
		assert.True(t, found.DeliveredAt.Equal(deliveredAt))
		assert.Equal(t, "Portland, OR", found.LastLocation)
		assert.Equal(t, "P DOE", found.DeliverySignature)
	})

	t.Run("patch can assign a late tracking number", func(t *testing.T) {
		s := testShipment(t, o.ID, "")
		require.NoError(t, repo.Create(ctx, s))

		tn := "1Z999AA10123456784"
		require.NoError(t, repo.UpdateStatus(ctx, s.ID, shipment.StatusPatch{TrackingNumber: &tn}))

		found, err := repo.FindByTrackingNumber(ctx, tn)
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
	})

	t.Run("missing shipment yields sentinel", func(t *testing.T) {
		status := shipment.StatusShipped
		err := repo.UpdateStatus(ctx, uuid.New(), shipment.StatusPatch{CurrentStatus: &status})
		assert.ErrorIs(t, err, shipment.ErrNotFound)
	})
}

func TestShipmentRepository_FindNeedingUpdate(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	repo := NewGormShipmentRepository(db)
	ctx := context.Background()

	o, err := orderRepo.Upsert(ctx, testOrder(t, integration.PlatformAmazon, "111-222"))
	require.NoError(t, err)

	// In transit with a tracking number: in the queue.
	active := testShipment(t, o.ID, "9400300000001")
	require.NoError(t, repo.Create(ctx, active))

	// No tracking number yet: nothing to poll.
	require.NoError(t, repo.Create(ctx, testShipment(t, o.ID, "")))

	// Terminal: polling is over.
	returned := testShipment(t, o.ID, "9400300000002")
	returned.CurrentStatus = shipment.StatusReturned
	require.NoError(t, repo.Create(ctx, returned))

	queue, err := repo.FindNeedingUpdate(ctx)
	require.NoError(t, err)

	require.Len(t, queue, 1)
	assert.Equal(t, active.ID, queue[0].Shipment.ID)
	assert.Equal(t, "9400300000001", queue[0].Shipment.TrackingNumber)
	assert.Equal(t, integration.PlatformAmazon, queue[0].Platform)
	assert.Equal(t, "111-222", queue[0].PlatformOrderID)
}
