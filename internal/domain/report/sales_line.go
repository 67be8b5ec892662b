package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// OrderStatus is the lifecycle state of the order a sales line belongs to.
// Orders themselves live in the fulfillment system; only the snapshot needed
// for revenue reporting is kept here.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	return s == OrderStatusCompleted || s == OrderStatusRefunded
}

// SalesLine is a snapshot of one sold line item, recorded by the fulfillment
// collaborator when an order completes. UnitPrice is the price at sale time.
type SalesLine struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"unit_price"`
	OrderStatus OrderStatus     `gorm:"type:varchar(20);not null;index" json:"order_status"`
	SoldAt      time.Time       `gorm:"not null;index" json:"sold_at"`
}

// TableName returns the table name for SalesLine
func (SalesLine) TableName() string {
	return "sales_lines"
}

// NewSalesLine records a sold line item snapshot
func NewSalesLine(orderID, productID uuid.UUID, quantity int64, unitPrice decimal.Decimal, soldAt time.Time) (*SalesLine, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order ID is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unit price cannot be negative")
	}
	if soldAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "sold time is required")
	}

	return &SalesLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductID:   productID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		OrderStatus: OrderStatusCompleted,
		SoldAt:      soldAt,
	}, nil
}

// Revenue returns quantity times unit price for this line
func (l *SalesLine) Revenue() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// RevenueRow is an aggregation row of revenue per product
type RevenueRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesLineRepository manages sales line snapshots
type SalesLineRepository interface {
	// CreateBatch records the sold lines of a completed order
	CreateBatch(ctx context.Context, lines []*SalesLine) error

	// MarkOrderRefunded flips every line of the order to REFUNDED, removing
	// the order from revenue aggregation. Returns the number of lines updated.
	MarkOrderRefunded(ctx context.Context, orderID uuid.UUID) (int64, error)

	// SumRevenueByProduct aggregates revenue and quantity per product for
	// completed (non-refunded) lines sold within [from, to)
	SumRevenueByProduct(ctx context.Context, from, to time.Time) ([]RevenueRow, error)

	// CountDistinctOrders counts the distinct completed orders in [from, to),
	// used for the flat per-order packaging cost deduction
	CountDistinctOrders(ctx context.Context, from, to time.Time) (int64, error)
}
