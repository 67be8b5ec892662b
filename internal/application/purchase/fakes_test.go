package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/purchase"
	"github.com/stockledger/backend/internal/domain/shared"
)

// fakePurchaseRepo is an in-memory purchase.Repository enforcing the same
// version guard as the real one
type fakePurchaseRepo struct {
	purchases map[uuid.UUID]*purchase.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]*purchase.Purchase)}
}

func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	c := *p
	c.Items = make([]purchase.PurchaseItem, len(p.Items))
	copy(c.Items, p.Items)
	c.ClearDomainEvents()
	return &c
}

func (r *fakePurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	if _, ok := r.purchases[p.ID]; ok {
		return shared.ErrAlreadyExists
	}
	r.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *fakePurchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, shared.NewDomainErrorf("NOT_FOUND", "purchase %s not found", id)
	}
	return clonePurchase(p), nil
}

func (r *fakePurchaseRepo) FindByFilter(ctx context.Context, filter purchase.Filter) ([]*purchase.Purchase, int64, error) {
	var out []*purchase.Purchase
	for _, p := range r.purchases {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, clonePurchase(p))
	}
	return out, int64(len(out)), nil
}

func (r *fakePurchaseRepo) save(p *purchase.Purchase) error {
	stored, ok := r.purchases[p.ID]
	if !ok {
		return shared.NewDomainErrorf("NOT_FOUND", "purchase %s not found", p.ID)
	}
	if stored.Version != p.Version {
		return shared.ErrConcurrencyConflict
	}
	p.IncrementVersion()
	r.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *fakePurchaseRepo) Save(ctx context.Context, p *purchase.Purchase) error {
	return r.save(p)
}

func (r *fakePurchaseRepo) SaveWithItems(ctx context.Context, p *purchase.Purchase) error {
	return r.save(p)
}

// fakeProductRepo is an in-memory catalog.ProductRepository
type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := r.products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *fakeProductRepo) FindByFilter(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	var out []*catalog.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateReferenceCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	return p.UpdateReferenceCost(cost)
}

// fakeLotRepo stores created lots
type fakeLotRepo struct {
	lots []*inventory.InventoryLot
}

func (r *fakeLotRepo) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	r.lots = append(r.lots, lot)
	return nil
}

func (r *fakeLotRepo) CreateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
	r.lots = append(r.lots, lots...)
	return nil
}

func (r *fakeLotRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLot, error) {
	for _, lot := range r.lots {
		if lot.ID == id {
			return lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindOpenByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*inventory.InventoryLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) FindByProduct(ctx context.Context, productID uuid.UUID, includeExhausted bool, filter shared.Filter) ([]*inventory.InventoryLot, int64, error) {
	return nil, 0, nil
}

func (r *fakeLotRepo) Update(ctx context.Context, lot *inventory.InventoryLot) error { return nil }

func (r *fakeLotRepo) UpdateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
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

// fakeMovementRepo stores created movements
type fakeMovementRepo struct {
	movements []*inventory.InventoryMovement
}

func (r *fakeMovementRepo) Create(ctx context.Context, m *inventory.InventoryMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) CreateBatch(ctx context.Context, ms []*inventory.InventoryMovement) error {
	r.movements = append(r.movements, ms...)
	return nil
}

func (r *fakeMovementRepo) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.InventoryMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
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
	return nil, nil
}

var (
	_ purchase.Repository          = (*fakePurchaseRepo)(nil)
	_ catalog.ProductRepository    = (*fakeProductRepo)(nil)
	_ inventory.LotRepository      = (*fakeLotRepo)(nil)
	_ inventory.MovementRepository = (*fakeMovementRepo)(nil)
)
