package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// InventoryLot represents a cost-bearing batch of stock received into the
// warehouse. Each lot records the unit cost it was acquired at and how much
// of it is still unconsumed. Lots are the unit of FIFO cost attribution.
type InventoryLot struct {
	shared.BaseEntity
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	PurchaseID   *uuid.UUID      `gorm:"type:uuid;index" json:"purchase_id,omitempty"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"unit_cost"`
	QtyReceived  int64           `gorm:"not null" json:"qty_received"`
	QtyRemaining int64           `gorm:"not null" json:"qty_remaining"`
	ReceivedAt   time.Time       `gorm:"not null;index" json:"received_at"`
}

// TableName returns the table name for InventoryLot
func (InventoryLot) TableName() string {
	return "inventory_lots"
}

// NewLot creates a new inventory lot with its full quantity remaining
func NewLot(productID uuid.UUID, purchaseID *uuid.UUID, unitCost decimal.Decimal, quantity int64, receivedAt time.Time) (*InventoryLot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "lot quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unit cost cannot be negative")
	}
	if receivedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "received time is required")
	}

	return &InventoryLot{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		PurchaseID:   purchaseID,
		UnitCost:     unitCost,
		QtyReceived:  quantity,
		QtyRemaining: quantity,
		ReceivedAt:   receivedAt,
	}, nil
}

// Consume reduces the remaining quantity of the lot.
// The lot never goes negative; callers must plan against QtyRemaining first.
func (l *InventoryLot) Consume(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "consume quantity must be positive")
	}
	if quantity > l.QtyRemaining {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"lot %s has %d remaining, cannot consume %d", l.ID, l.QtyRemaining, quantity)
	}
	l.QtyRemaining -= quantity
	l.UpdatedAt = time.Now()
	return nil
}

// IsExhausted returns true when the lot has no remaining quantity
func (l *InventoryLot) IsExhausted() bool {
	return l.QtyRemaining == 0
}

// ConsumedCost returns the cost of the quantity already consumed from this lot
func (l *InventoryLot) ConsumedCost() decimal.Decimal {
	consumed := l.QtyReceived - l.QtyRemaining
	return l.UnitCost.Mul(decimal.NewFromInt(consumed))
}

// RemainingValue returns the cost basis of the unconsumed quantity
func (l *InventoryLot) RemainingValue() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.QtyRemaining))
}
