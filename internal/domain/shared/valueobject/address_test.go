package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates valid address", func(t *testing.T) {
		addr, err := NewAddress("123 Main St", "Portland", "OR", "97201", "us")
		require.NoError(t, err)
		assert.Equal(t, "123 Main St", addr.Street1)
		assert.Equal(t, "US", addr.Country)
	})

	t.Run("requires street", func(t *testing.T) {
		_, err := NewAddress("  ", "Portland", "OR", "97201", "US")
		assert.Error(t, err)
	})

	t.Run("requires 2-letter country code", func(t *testing.T) {
		_, err := NewAddress("123 Main St", "Portland", "OR", "97201", "USA")
		assert.Error(t, err)
	})
}

func TestAddress_OneLine(t *testing.T) {
	addr, err := NewAddress("123 Main St", "Portland", "OR", "97201", "US")
	require.NoError(t, err)
	assert.Equal(t, "123 Main St, Portland, OR, 97201, US", addr.OneLine())
}

func TestAddress_ValueScan(t *testing.T) {
	t.Run("round trips through storage form", func(t *testing.T) {
		addr, err := NewAddress("500 Oak Ave", "Austin", "TX", "78701", "US")
		require.NoError(t, err)
		addr.Name = "Jamie Doe"

		v, err := addr.Value()
		require.NoError(t, err)

		var scanned Address
		require.NoError(t, scanned.Scan(v))
		assert.Equal(t, addr, scanned)
	})

	t.Run("zero address stores as NULL", func(t *testing.T) {
		var addr Address
		v, err := addr.Value()
		require.NoError(t, err)
		assert.Nil(t, v)

		var scanned Address
		require.NoError(t, scanned.Scan(nil))
		assert.True(t, scanned.IsZero())
	})
}
