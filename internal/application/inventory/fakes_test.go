package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// fakeLotRepo is an in-memory LotRepository for service tests
type fakeLotRepo struct {
	lots map[uuid.UUID]*inventory.InventoryLot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]*inventory.InventoryLot)}
}

func (r *fakeLotRepo) clone(lot *inventory.InventoryLot) *inventory.InventoryLot {
	c := *lot
	return &c
}

func (r *fakeLotRepo) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	r.lots[lot.ID] = r.clone(lot)
	return nil
}

func (r *fakeLotRepo) CreateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
	for _, lot := range lots {
		r.lots[lot.ID] = r.clone(lot)
	}
	return nil
}

func (r *fakeLotRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.clone(lot), nil
}

func (r *fakeLotRepo) FindOpenByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*inventory.InventoryLot, error) {
	var out []*inventory.InventoryLot
	for _, lot := range r.lots {
		if lot.ProductID == productID && !lot.IsExhausted() {
			out = append(out, r.clone(lot))
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindByProduct(ctx context.Context, productID uuid.UUID, includeExhausted bool, filter shared.Filter) ([]*inventory.InventoryLot, int64, error) {
	var out []*inventory.InventoryLot
	for _, lot := range r.lots {
		if lot.ProductID != productID {
			continue
		}
		if !includeExhausted && lot.IsExhausted() {
			continue
		}
		out = append(out, r.clone(lot))
	}
	return out, int64(len(out)), nil
}

func (r *fakeLotRepo) Update(ctx context.Context, lot *inventory.InventoryLot) error {
	if _, ok := r.lots[lot.ID]; !ok {
		return shared.ErrNotFound
	}
	r.lots[lot.ID] = r.clone(lot)
	return nil
}

func (r *fakeLotRepo) UpdateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
	for _, lot := range lots {
		if err := r.Update(ctx, lot); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLotRepo) SumRemainingByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	for _, lot := range r.lots {
		if lot.ProductID == productID {
			total += lot.QtyRemaining
		}
	}
	return total, nil
}

// fakeMovementRepo is an in-memory MovementRepository for service tests
type fakeMovementRepo struct {
	movements []*inventory.InventoryMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Create(ctx context.Context, m *inventory.InventoryMovement) error {
	c := *m
	r.movements = append(r.movements, &c)
	return nil
}

func (r *fakeMovementRepo) CreateBatch(ctx context.Context, ms []*inventory.InventoryMovement) error {
	for _, m := range ms {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMovementRepo) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.InventoryMovement, int64, error) {
	var out []*inventory.InventoryMovement
	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.SourceType != nil && m.SourceType != *filter.SourceType {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMovementRepo) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) SumOutboundCostByProduct(ctx context.Context, sourceType inventory.SourceType, from, to time.Time) ([]inventory.ProductCostRow, error) {
	byProduct := make(map[uuid.UUID]*inventory.ProductCostRow)
	for _, m := range r.movements {
		if m.Type != inventory.MovementTypeOut || m.SourceType != sourceType {
			continue
		}
		if m.OccurredAt.Before(from) || !m.OccurredAt.Before(to) {
			continue
		}
		row, ok := byProduct[m.ProductID]
		if !ok {
			row = &inventory.ProductCostRow{ProductID: m.ProductID}
			byProduct[m.ProductID] = row
		}
		row.Quantity += -m.Quantity
		row.TotalCost = row.TotalCost.Add(m.TotalCost)
	}
	out := make([]inventory.ProductCostRow, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	return out, nil
}

var (
	_ inventory.LotRepository      = (*fakeLotRepo)(nil)
	_ inventory.MovementRepository = (*fakeMovementRepo)(nil)
)
