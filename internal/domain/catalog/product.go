package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Product is a catalog entry that inventory lots and movements reference.
// ReferenceCost is an informational default shown when drafting purchases;
// actual cost attribution always comes from FIFO lots, never from here.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"sale_price"`
	ReferenceCost decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"reference_cost"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(sku, name string, salePrice, referenceCost decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "sale price cannot be negative")
	}
	if referenceCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "reference cost cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		SalePrice:         salePrice,
		ReferenceCost:     referenceCost,
		IsActive:          true,
	}, nil
}

// UpdateReferenceCost sets the informational reference cost.
// Called from purchase posting when the cost override flag is set.
func (p *Product) UpdateReferenceCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "reference cost cannot be negative")
	}
	p.ReferenceCost = cost
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateSalePrice sets the product's sale price
func (p *Product) UpdateSalePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "sale price cannot be negative")
	}
	p.SalePrice = price
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate soft-disables the product
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}
