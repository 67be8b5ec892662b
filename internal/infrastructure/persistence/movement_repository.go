package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/inventory"
)

// GormMovementRepository implements inventory.MovementRepository using GORM.
// The ledger is append-only; there are no update or delete paths.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch appends multiple movements in one insert
func (r *GormMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&movements).Error
}

// FindByFilter lists movements matching the filter with total count
func (r *GormMovementRepository) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.InventoryMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryMovement{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MovementSortFields, "occurred_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var movements []*inventory.InventoryMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// SumQuantityByProduct returns the signed quantity sum for a product
func (r *GormMovementRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryMovement{}).
		Where("product_id = ?", productID).
		Select("SUM(quantity)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// SumOutboundCostByProduct aggregates OUT movement cost per product within [from, to)
func (r *GormMovementRepository) SumOutboundCostByProduct(ctx context.Context, sourceType inventory.SourceType, from, to time.Time) ([]inventory.ProductCostRow, error) {
	var rows []inventory.ProductCostRow
	err := r.db.WithContext(ctx).Model(&inventory.InventoryMovement{}).
		Select("product_id, SUM(-quantity) AS quantity, SUM(total_cost) AS total_cost").
		Where("type = ? AND source_type = ?", inventory.MovementTypeOut, sourceType).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
