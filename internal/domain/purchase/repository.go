package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Filter narrows purchase list queries
type Filter struct {
	shared.Filter
	Status   *PurchaseStatus
	Supplier string
	From     *time.Time
	To       *time.Time
}

// Repository manages purchase persistence
type Repository interface {
	// Create persists a new purchase with its items
	Create(ctx context.Context, p *Purchase) error

	// FindByID retrieves a purchase with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByFilter lists purchases matching the filter with total count
	FindByFilter(ctx context.Context, filter Filter) ([]*Purchase, int64, error)

	// SaveWithItems persists header changes and replaces the item set.
	// The header update is guarded by the aggregate version; a stale version
	// yields CONCURRENCY_CONFLICT and nothing is written.
	SaveWithItems(ctx context.Context, p *Purchase) error

	// Save persists header changes only, guarded by the aggregate version
	Save(ctx context.Context, p *Purchase) error
}
