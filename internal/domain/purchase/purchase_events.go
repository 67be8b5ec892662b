package purchase

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// PurchaseCreatedEvent is emitted when a draft purchase is created
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	Supplier  string `json:"supplier"`
	LineCount int    `json:"line_count"`
}

// NewPurchaseCreatedEvent creates a purchase created event
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("purchase.created", p.ID),
		Supplier:        p.Supplier,
		LineCount:       len(p.Items),
	}
}

// PurchasePostedEvent is emitted when a purchase is posted to inventory
type PurchasePostedEvent struct {
	shared.BaseDomainEvent
	Supplier  string          `json:"supplier"`
	TotalCost decimal.Decimal `json:"total_cost"`
	LotIDs    []uuid.UUID     `json:"lot_ids"`
}

// NewPurchasePostedEvent creates a purchase posted event
func NewPurchasePostedEvent(p *Purchase, result *PostingResult) *PurchasePostedEvent {
	lotIDs := make([]uuid.UUID, 0, len(result.Lots))
	for _, lot := range result.Lots {
		lotIDs = append(lotIDs, lot.ID)
	}
	return &PurchasePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("purchase.posted", p.ID),
		Supplier:        p.Supplier,
		TotalCost:       p.TotalCost(),
		LotIDs:          lotIDs,
	}
}

// PurchaseCanceledEvent is emitted when a draft purchase is canceled
type PurchaseCanceledEvent struct {
	shared.BaseDomainEvent
	Supplier string `json:"supplier"`
}

// NewPurchaseCanceledEvent creates a purchase canceled event
func NewPurchaseCanceledEvent(p *Purchase) *PurchaseCanceledEvent {
	return &PurchaseCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("purchase.canceled", p.ID),
		Supplier:        p.Supplier,
	}
}

var (
	_ shared.DomainEvent = (*PurchaseCreatedEvent)(nil)
	_ shared.DomainEvent = (*PurchasePostedEvent)(nil)
	_ shared.DomainEvent = (*PurchaseCanceledEvent)(nil)
)
