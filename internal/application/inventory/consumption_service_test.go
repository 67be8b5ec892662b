package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

type consumptionFixture struct {
	service      *ConsumptionService
	lotRepo      *fakeLotRepo
	movementRepo *fakeMovementRepo
}

func newConsumptionFixture() *consumptionFixture {
	lotRepo := newFakeLotRepo()
	movementRepo := newFakeMovementRepo()
	scope := NewNoOpTransactionScope(lotRepo, movementRepo)
	return &consumptionFixture{
		service:      NewConsumptionService(scope, zap.NewNop()),
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
	}
}

func (f *consumptionFixture) seedLot(t *testing.T, productID uuid.UUID, qty int64, cost string, receivedAt time.Time) *inventory.InventoryLot {
	t.Helper()
	lot, err := inventory.NewLot(productID, nil, decimal.RequireFromString(cost), qty, receivedAt)
	require.NoError(t, err)
	require.NoError(t, f.lotRepo.Create(context.Background(), lot))
	return lot
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("partial consumption from single lot", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		lot := f.seedLot(t, productID, 10, "100.00", base)
		orderID := uuid.New()

		result, err := f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   4,
			SourceType: inventory.SourceOrder,
			SourceID:   &orderID,
		})
		require.NoError(t, err)

		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("400.00")),
			"total cost was %s", result.TotalCost)
		require.Len(t, result.Consumptions, 1)
		assert.Equal(t, lot.ID, result.Consumptions[0].LotID)

		stored, err := f.lotRepo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(6), stored.QtyRemaining)

		require.Len(t, f.movementRepo.movements, 1)
		m := f.movementRepo.movements[0]
		assert.Equal(t, inventory.MovementTypeOut, m.Type)
		assert.Equal(t, int64(-4), m.Quantity)
		assert.True(t, m.TotalCost.Equal(decimal.RequireFromString("400.00")))
		require.NotNil(t, m.SourceID)
		assert.Equal(t, orderID, *m.SourceID)
	})

	t.Run("spans lots with blended cost", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		older := f.seedLot(t, productID, 5, "100.00", base)
		newer := f.seedLot(t, productID, 5, "150.00", base.Add(48*time.Hour))

		result, err := f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   8,
			SourceType: inventory.SourceOrder,
		})
		require.NoError(t, err)

		// 5 @ 100 + 3 @ 150 = 950
		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("950.00")),
			"total cost was %s", result.TotalCost)

		storedOlder, err := f.lotRepo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.True(t, storedOlder.IsExhausted())

		storedNewer, err := f.lotRepo.FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), storedNewer.QtyRemaining)
	})

	t.Run("exact exhaustion leaves lot queryable", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		lot := f.seedLot(t, productID, 10, "100.00", base)

		_, err := f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   10,
			SourceType: inventory.SourceOrder,
		})
		require.NoError(t, err)

		stored, err := f.lotRepo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.QtyRemaining)
		assert.Equal(t, int64(10), stored.QtyReceived)

		// The exhausted lot no longer participates in consumption.
		_, err = f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   1,
			SourceType: inventory.SourceOrder,
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("oversell fails mutating nothing", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		lot := f.seedLot(t, productID, 10, "100.00", base)

		_, err := f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   11,
			SourceType: inventory.SourceOrder,
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		stored, err := f.lotRepo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stored.QtyRemaining)
		assert.Empty(t, f.movementRepo.movements)
	})

	t.Run("no stock at all", func(t *testing.T) {
		f := newConsumptionFixture()

		_, err := f.service.Consume(ctx, ConsumeInput{
			ProductID:  uuid.New(),
			Quantity:   1,
			SourceType: inventory.SourceOrder,
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newConsumptionFixture()

		_, err := f.service.Consume(ctx, ConsumeInput{ProductID: uuid.Nil, Quantity: 1, SourceType: inventory.SourceOrder})
		require.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = f.service.Consume(ctx, ConsumeInput{ProductID: uuid.New(), Quantity: 0, SourceType: inventory.SourceOrder})
		require.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = f.service.Consume(ctx, ConsumeInput{ProductID: uuid.New(), Quantity: 1, SourceType: "BOGUS"})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestWriteOff(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("writes off through FIFO with reason", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		f.seedLot(t, productID, 10, "25.00", base)

		result, err := f.service.WriteOff(ctx, productID, 3, "water damage")
		require.NoError(t, err)

		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("75.00")))
		require.Len(t, f.movementRepo.movements, 1)
		m := f.movementRepo.movements[0]
		assert.Equal(t, inventory.SourceManual, m.SourceType)
		assert.Equal(t, "water damage", m.Note)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newConsumptionFixture()
		_, err := f.service.WriteOff(ctx, uuid.New(), 3, "")
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("records adjustment without touching lots", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()
		f.seedLot(t, productID, 10, "25.00", time.Now())

		dto, err := f.service.Adjust(ctx, AdjustInput{
			ProductID:     productID,
			QuantityDelta: -2,
			Note:          "cycle count",
		})
		require.NoError(t, err)

		assert.Equal(t, "ADJUST", dto.Type)
		assert.Equal(t, int64(-2), dto.Quantity)
		assert.True(t, dto.TotalCost.IsZero())

		onHand, err := f.lotRepo.SumRemainingByProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), onHand)
	})

	t.Run("positive adjustment is not consumable", func(t *testing.T) {
		f := newConsumptionFixture()
		productID := uuid.New()

		_, err := f.service.Adjust(ctx, AdjustInput{ProductID: productID, QuantityDelta: 5, Note: "found stock"})
		require.NoError(t, err)

		_, err = f.service.Consume(ctx, ConsumeInput{
			ProductID:  productID,
			Quantity:   1,
			SourceType: inventory.SourceOrder,
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestGetStockSummary(t *testing.T) {
	ctx := context.Background()
	f := newConsumptionFixture()
	query := NewQueryService(f.lotRepo, f.movementRepo)
	productID := uuid.New()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	// Seed a lot plus its matching IN movement, the way posting does.
	lot := f.seedLot(t, productID, 10, "25.00", base)
	in, err := inventory.NewInboundMovement(productID, lot.ID, 10, decimal.RequireFromString("25.00"), inventory.SourcePurchase, uuid.New(), base)
	require.NoError(t, err)
	require.NoError(t, f.movementRepo.Create(ctx, in))

	_, err = f.service.Consume(ctx, ConsumeInput{ProductID: productID, Quantity: 4, SourceType: inventory.SourceOrder})
	require.NoError(t, err)

	summary, err := query.GetStockSummary(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.OnHand)
	assert.Equal(t, int64(6), summary.LedgerQuantity)
	assert.Equal(t, int64(0), summary.AdjustmentGap)

	// An adjustment moves the ledger but not the lots.
	_, err = f.service.Adjust(ctx, AdjustInput{ProductID: productID, QuantityDelta: -2, Note: "shrinkage"})
	require.NoError(t, err)

	summary, err = query.GetStockSummary(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.OnHand)
	assert.Equal(t, int64(4), summary.LedgerQuantity)
	assert.Equal(t, int64(-2), summary.AdjustmentGap)
}
