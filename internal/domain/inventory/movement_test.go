package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInboundMovement(t *testing.T) {
	productID := uuid.New()
	lotID := uuid.New()
	purchaseID := uuid.New()
	now := time.Now()

	t.Run("records positive quantity and derived total cost", func(t *testing.T) {
		m, err := NewInboundMovement(productID, lotID, 10, decimal.RequireFromString("12.50"), SourcePurchase, purchaseID, now)
		require.NoError(t, err)

		assert.Equal(t, MovementTypeIn, m.Type)
		assert.Equal(t, int64(10), m.Quantity)
		assert.True(t, m.TotalCost.Equal(decimal.RequireFromString("125.00")))
		require.NotNil(t, m.LotID)
		assert.Equal(t, lotID, *m.LotID)
		require.NotNil(t, m.SourceID)
		assert.Equal(t, purchaseID, *m.SourceID)
	})

	t.Run("requires lot reference", func(t *testing.T) {
		_, err := NewInboundMovement(productID, uuid.Nil, 10, decimal.NewFromInt(1), SourcePurchase, purchaseID, now)
		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewInboundMovement(productID, lotID, 0, decimal.NewFromInt(1), SourcePurchase, purchaseID, now)
		require.Error(t, err)
	})
}

func TestNewOutboundMovement(t *testing.T) {
	productID := uuid.New()
	orderID := uuid.New()
	now := time.Now()

	t.Run("stores negative quantity and attributed cost", func(t *testing.T) {
		m, err := NewOutboundMovement(productID, 8, decimal.RequireFromString("950.00"), SourceOrder, &orderID, now)
		require.NoError(t, err)

		assert.Equal(t, MovementTypeOut, m.Type)
		assert.Equal(t, int64(-8), m.Quantity)
		assert.True(t, m.TotalCost.Equal(decimal.RequireFromString("950.00")))
		assert.True(t, m.UnitCost.Equal(decimal.RequireFromString("118.75")))
		assert.True(t, m.IsOutbound())
	})

	t.Run("allows nil source for write-offs", func(t *testing.T) {
		m, err := NewOutboundMovement(productID, 2, decimal.NewFromInt(20), SourceManual, nil, now)
		require.NoError(t, err)
		assert.Nil(t, m.SourceID)
	})

	t.Run("rejects invalid source type", func(t *testing.T) {
		_, err := NewOutboundMovement(productID, 2, decimal.NewFromInt(20), SourceType("BOGUS"), nil, now)
		require.Error(t, err)
	})
}

func TestNewAdjustmentMovement(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	t.Run("carries no cost basis", func(t *testing.T) {
		m, err := NewAdjustmentMovement(productID, -3, "cycle count correction", now)
		require.NoError(t, err)

		assert.Equal(t, MovementTypeAdjust, m.Type)
		assert.Equal(t, int64(-3), m.Quantity)
		assert.True(t, m.TotalCost.IsZero())
		assert.Equal(t, SourceManual, m.SourceType)
		assert.Nil(t, m.LotID)
	})

	t.Run("positive delta allowed", func(t *testing.T) {
		m, err := NewAdjustmentMovement(productID, 5, "found stock", now)
		require.NoError(t, err)
		assert.Equal(t, int64(5), m.Quantity)
	})

	t.Run("requires a note", func(t *testing.T) {
		_, err := NewAdjustmentMovement(productID, -3, "", now)
		require.Error(t, err)
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		_, err := NewAdjustmentMovement(productID, 0, "noop", now)
		require.Error(t, err)
	})
}
