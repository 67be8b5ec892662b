package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// LotConsumption records how much was taken from a single lot and at what cost
type LotConsumption struct {
	LotID       uuid.UUID       `json:"lot_id"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CostPortion decimal.Decimal `json:"cost_portion"`
}

// ConsumptionPlan is the outcome of planning a FIFO deduction across lots.
// The plan is computed first and only applied once the full quantity is
// known to be coverable, so a failed consumption mutates nothing.
type ConsumptionPlan struct {
	ProductID    uuid.UUID        `json:"product_id"`
	Quantity     int64            `json:"quantity"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	Consumptions []LotConsumption `json:"consumptions"`
}

// FIFOStrategy deducts stock from the oldest lots first.
// Ordering is by ReceivedAt ascending with lot ID as a deterministic
// tiebreaker for lots received at the same instant.
type FIFOStrategy struct{}

// NewFIFOStrategy creates a FIFO outbound strategy
func NewFIFOStrategy() *FIFOStrategy {
	return &FIFOStrategy{}
}

// sortLots orders lots for FIFO consumption without mutating the input slice
func (s *FIFOStrategy) sortLots(lots []*InventoryLot) []*InventoryLot {
	sorted := make([]*InventoryLot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ReceivedAt.Equal(sorted[j].ReceivedAt) {
			return sorted[i].ReceivedAt.Before(sorted[j].ReceivedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return sorted
}

// Plan walks the lots oldest-first and builds the deduction plan for the
// requested quantity. Returns INSUFFICIENT_STOCK when the open lots cannot
// cover the request; in that case no lot is touched.
func (s *FIFOStrategy) Plan(productID uuid.UUID, lots []*InventoryLot, quantity int64) (*ConsumptionPlan, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "consumption quantity must be positive")
	}

	available := AvailableQuantity(lots)
	if available < quantity {
		return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"insufficient stock for product %s: requested %d, available %d", productID, quantity, available)
	}

	plan := &ConsumptionPlan{
		ProductID: productID,
		Quantity:  quantity,
		TotalCost: decimal.Zero,
	}

	remaining := quantity
	for _, lot := range s.sortLots(lots) {
		if remaining == 0 {
			break
		}
		if lot.IsExhausted() {
			continue
		}

		take := lot.QtyRemaining
		if take > remaining {
			take = remaining
		}

		portion := lot.UnitCost.Mul(decimal.NewFromInt(take))
		plan.Consumptions = append(plan.Consumptions, LotConsumption{
			LotID:       lot.ID,
			Quantity:    take,
			UnitCost:    lot.UnitCost,
			CostPortion: portion,
		})
		plan.TotalCost = plan.TotalCost.Add(portion)
		remaining -= take
	}

	return plan, nil
}

// Apply mutates the given lots according to the plan. The lots slice must
// contain every lot the plan references.
func (s *FIFOStrategy) Apply(plan *ConsumptionPlan, lots []*InventoryLot) error {
	byID := make(map[uuid.UUID]*InventoryLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	for _, c := range plan.Consumptions {
		lot, ok := byID[c.LotID]
		if !ok {
			return shared.NewDomainErrorf("NOT_FOUND", "lot %s referenced by plan not found", c.LotID)
		}
		if err := lot.Consume(c.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ConsumedLots returns the lots a plan touches, in plan order
func (p *ConsumptionPlan) ConsumedLots() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Consumptions))
	for _, c := range p.Consumptions {
		ids = append(ids, c.LotID)
	}
	return ids
}

// AvailableQuantity sums the remaining quantity across the given lots
func AvailableQuantity(lots []*InventoryLot) int64 {
	var total int64
	for _, lot := range lots {
		total += lot.QtyRemaining
	}
	return total
}

// StockConsumedEvent is emitted when a FIFO consumption completes
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	SourceType SourceType      `json:"source_type"`
	MovementID uuid.UUID       `json:"movement_id"`
}

// NewStockConsumedEvent creates a stock consumed event
func NewStockConsumedEvent(plan *ConsumptionPlan, sourceType SourceType, movementID uuid.UUID) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("inventory.stock_consumed", plan.ProductID),
		ProductID:       plan.ProductID,
		Quantity:        plan.Quantity,
		TotalCost:       plan.TotalCost,
		SourceType:      sourceType,
		MovementID:      movementID,
	}
}

var _ shared.DomainEvent = (*StockConsumedEvent)(nil)
