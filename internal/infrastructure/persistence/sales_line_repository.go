package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/report"
)

// GormSalesLineRepository implements report.SalesLineRepository using GORM
type GormSalesLineRepository struct {
	db *gorm.DB
}

// NewGormSalesLineRepository creates a new GormSalesLineRepository
func NewGormSalesLineRepository(db *gorm.DB) *GormSalesLineRepository {
	return &GormSalesLineRepository{db: db}
}

// CreateBatch records the sold lines of a completed order
func (r *GormSalesLineRepository) CreateBatch(ctx context.Context, lines []*report.SalesLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// MarkOrderRefunded flips every line of the order to REFUNDED
func (r *GormSalesLineRepository) MarkOrderRefunded(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&report.SalesLine{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"order_status": report.OrderStatusRefunded,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SumRevenueByProduct aggregates revenue per product for completed lines in [from, to)
func (r *GormSalesLineRepository) SumRevenueByProduct(ctx context.Context, from, to time.Time) ([]report.RevenueRow, error) {
	var rows []report.RevenueRow
	err := r.db.WithContext(ctx).Model(&report.SalesLine{}).
		Select("product_id, SUM(quantity) AS quantity, SUM(quantity * unit_price) AS revenue").
		Where("order_status = ?", report.OrderStatusCompleted).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountDistinctOrders counts the distinct completed orders in [from, to)
func (r *GormSalesLineRepository) CountDistinctOrders(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&report.SalesLine{}).
		Where("order_status = ?", report.OrderStatusCompleted).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Distinct("order_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ report.SalesLineRepository = (*GormSalesLineRepository)(nil)
