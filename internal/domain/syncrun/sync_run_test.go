package syncrun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsync/backend/internal/domain/integration"
)

func TestNewSyncRun(t *testing.T) {
	t.Run("opens in running state", func(t *testing.T) {
		run, err := NewSyncRun(integration.PlatformEtsy, SyncTypeOrders)
		require.NoError(t, err)
		assert.Equal(t, RunStatusRunning, run.Status)
		assert.Nil(t, run.CompletedAt)
		assert.False(t, run.StartedAt.IsZero())
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		_, err := NewSyncRun("myspace", SyncTypeOrders)
		assert.Error(t, err)
	})

	t.Run("rejects unknown sync type", func(t *testing.T) {
		_, err := NewSyncRun(integration.PlatformEtsy, "inventory")
		assert.Error(t, err)
	})
}

func TestSyncRun_Complete(t *testing.T) {
	t.Run("no error text yields completed", func(t *testing.T) {
		run, err := NewSyncRun(integration.PlatformEtsy, SyncTypeOrders)
		require.NoError(t, err)

		run.Complete(12, "")

		assert.Equal(t, RunStatusCompleted, run.Status)
		assert.Equal(t, 12, run.ItemsSynced)
		require.NotNil(t, run.CompletedAt)
	})

	t.Run("error text yields error status", func(t *testing.T) {
		run, err := NewSyncRun(integration.PlatformEtsy, SyncTypeTracking)
		require.NoError(t, err)

		run.Complete(3, "boom")

		assert.Equal(t, RunStatusError, run.Status)
		assert.Equal(t, "boom", run.ErrorText)
		require.NotNil(t, run.CompletedAt)
	})
}

func TestSyncRun_IsStale(t *testing.T) {
	run, err := NewSyncRun(integration.PlatformAmazon, SyncTypeOrders)
	require.NoError(t, err)

	assert.False(t, run.IsStale(time.Hour))

	run.StartedAt = time.Now().Add(-2 * time.Hour)
	assert.True(t, run.IsStale(time.Hour))

	run.Complete(0, "")
	assert.False(t, run.IsStale(time.Hour), "completed runs are never stale")
}
