package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/purchase"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormPurchaseRepository implements purchase.Repository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create persists a new purchase with its items
func (r *GormPurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID finds a purchase with its items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "purchase %s not found", id)
		}
		return nil, err
	}
	return &p, nil
}

// FindByFilter finds purchases matching the filter with total count
func (r *GormPurchaseRepository) FindByFilter(ctx context.Context, filter purchase.Filter) ([]*purchase.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchase.Purchase{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Supplier != "" {
		query = query.Where("supplier ILIKE ?", "%"+filter.Supplier+"%")
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var purchases []*purchase.Purchase
	if err := query.Preload("Items").Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// saveHeader updates the purchase row guarded by the aggregate version.
// Zero affected rows means another writer got there first.
func (r *GormPurchaseRepository) saveHeader(ctx context.Context, tx *gorm.DB, p *purchase.Purchase) error {
	updates := map[string]any{
		"supplier":   p.Supplier,
		"comment":    p.Comment,
		"status":     p.Status,
		"posted_at":  p.PostedAt,
		"updated_at": time.Now(),
		"version":    p.Version + 1,
	}

	result := tx.WithContext(ctx).Model(&purchase.Purchase{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	p.IncrementVersion()
	return nil
}

// Save persists header changes only, guarded by the aggregate version
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	return r.saveHeader(ctx, r.db, p)
}

// SaveWithItems persists header changes and replaces the item set wholesale
func (r *GormPurchaseRepository) SaveWithItems(ctx context.Context, p *purchase.Purchase) error {
	if err := r.saveHeader(ctx, r.db, p); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", p.ID).
		Delete(&purchase.PurchaseItem{}).Error; err != nil {
		return err
	}
	if len(p.Items) > 0 {
		if err := r.db.WithContext(ctx).Create(&p.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ purchase.Repository = (*GormPurchaseRepository)(nil)
