package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// LotRepository manages inventory lot persistence
type LotRepository interface {
	// Create persists a new lot
	Create(ctx context.Context, lot *InventoryLot) error

	// CreateBatch persists multiple lots in one operation
	CreateBatch(ctx context.Context, lots []*InventoryLot) error

	// FindByID retrieves a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryLot, error)

	// FindOpenByProductForUpdate loads all lots with remaining quantity for a
	// product, locking the rows for the duration of the transaction. This is
	// the serialization point for concurrent consumptions of one product.
	FindOpenByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*InventoryLot, error)

	// FindByProduct lists lots for a product, optionally including exhausted ones
	FindByProduct(ctx context.Context, productID uuid.UUID, includeExhausted bool, filter shared.Filter) ([]*InventoryLot, int64, error)

	// Update persists changes to an existing lot
	Update(ctx context.Context, lot *InventoryLot) error

	// UpdateBatch persists changes to multiple lots in one operation
	UpdateBatch(ctx context.Context, lots []*InventoryLot) error

	// SumRemainingByProduct returns the on-hand quantity (open lot remainders)
	SumRemainingByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// MovementFilter narrows movement ledger queries
type MovementFilter struct {
	shared.Filter
	ProductID  *uuid.UUID
	Type       *MovementType
	SourceType *SourceType
	SourceID   *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ProductCostRow is an aggregation row of outbound cost per product
type ProductCostRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// MovementRepository manages the append-only movement ledger.
// Movements are never updated or deleted.
type MovementRepository interface {
	// Create appends a movement to the ledger
	Create(ctx context.Context, movement *InventoryMovement) error

	// CreateBatch appends multiple movements in one operation
	CreateBatch(ctx context.Context, movements []*InventoryMovement) error

	// FindByFilter lists movements matching the filter with total count
	FindByFilter(ctx context.Context, filter MovementFilter) ([]*InventoryMovement, int64, error)

	// SumQuantityByProduct returns the signed quantity sum for a product,
	// used to reconcile the ledger against lot remainders
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// SumOutboundCostByProduct aggregates OUT movement cost per product for
	// movements of the given source type within [from, to)
	SumOutboundCostByProduct(ctx context.Context, sourceType SourceType, from, to time.Time) ([]ProductCostRow, error)
}
