package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormLotRepository implements inventory.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// Create persists a new lot
func (r *GormLotRepository) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// CreateBatch persists multiple lots in one insert
func (r *GormLotRepository) CreateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lots).Error
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLot, error) {
	var lot inventory.InventoryLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "lot %s not found", id)
		}
		return nil, err
	}
	return &lot, nil
}

// FindOpenByProductForUpdate loads a product's open lots with row locks.
// The locks serialize concurrent consumptions of the same product for the
// rest of the transaction. SQLite (used in tests) locks the whole database
// on write, so the clause is only added for PostgreSQL.
func (r *GormLotRepository) FindOpenByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*inventory.InventoryLot, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND qty_remaining > 0", productID).
		Order("received_at ASC, id ASC")

	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var lots []*inventory.InventoryLot
	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByProduct lists lots for a product, optionally including exhausted ones
func (r *GormLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID, includeExhausted bool, filter shared.Filter) ([]*inventory.InventoryLot, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryLot{}).
		Where("product_id = ?", productID)
	if !includeExhausted {
		query = query.Where("qty_remaining > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, LotSortFields, "received_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var lots []*inventory.InventoryLot
	if err := query.Find(&lots).Error; err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

// Update persists changes to an existing lot
func (r *GormLotRepository) Update(ctx context.Context, lot *inventory.InventoryLot) error {
	result := r.db.WithContext(ctx).Model(&inventory.InventoryLot{}).
		Where("id = ?", lot.ID).
		Updates(map[string]any{
			"qty_remaining": lot.QtyRemaining,
			"updated_at":    lot.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf("NOT_FOUND", "lot %s not found", lot.ID)
	}
	return nil
}

// UpdateBatch persists changes to multiple lots
func (r *GormLotRepository) UpdateBatch(ctx context.Context, lots []*inventory.InventoryLot) error {
	for _, lot := range lots {
		if err := r.Update(ctx, lot); err != nil {
			return err
		}
	}
	return nil
}

// SumRemainingByProduct returns the on-hand quantity for a product
func (r *GormLotRepository) SumRemainingByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryLot{}).
		Where("product_id = ?", productID).
		Select("SUM(qty_remaining)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

var _ inventory.LotRepository = (*GormLotRepository)(nil)
