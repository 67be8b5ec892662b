package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// ProductRepository manages product persistence
type ProductRepository interface {
	// Create persists a new product
	Create(ctx context.Context, product *Product) error

	// FindByID retrieves a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU retrieves a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs retrieves the products with the given IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindMissing returns the subset of ids with no matching product,
	// used to validate purchase line items in one query
	FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// FindByFilter lists products matching the filter with total count
	FindByFilter(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)

	// Update persists changes to an existing product
	Update(ctx context.Context, product *Product) error

	// UpdateReferenceCost writes the reference cost for a product directly,
	// bypassing the aggregate version because overrides are last-write-wins
	UpdateReferenceCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) error
}
