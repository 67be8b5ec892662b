package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// PurchaseStatus represents the lifecycle state of a purchase
type PurchaseStatus string

const (
	PurchaseStatusDraft    PurchaseStatus = "DRAFT"    // editable, no inventory effect
	PurchaseStatusPosted   PurchaseStatus = "POSTED"   // stock received, immutable
	PurchaseStatusCanceled PurchaseStatus = "CANCELED" // abandoned draft, immutable
)

// IsValid checks if the status is a valid purchase status
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusDraft, PurchaseStatusPosted, PurchaseStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// POSTED and CANCELED are terminal.
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusDraft:
		return target == PurchaseStatusPosted || target == PurchaseStatusCanceled
	default:
		return false
	}
}

// String returns the string representation
func (s PurchaseStatus) String() string {
	return string(s)
}

// PurchaseItem is a line item on a purchase. The same product may appear on
// multiple lines; each line becomes its own lot when the purchase is posted.
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"unit_cost"`
}

// TableName returns the table name for PurchaseItem
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// LineTotal returns quantity times unit cost for this line
func (i *PurchaseItem) LineTotal() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
}

// LineInput is the caller-supplied shape of a purchase line
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ValidateLines checks a prospective item set. Used by both creation and
// replacement so the two paths cannot drift apart.
func ValidateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "purchase must have at least one line item")
	}
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainErrorf("INVALID_INPUT", "line %d: product ID is required", i+1)
		}
		if line.Quantity <= 0 {
			return shared.NewDomainErrorf("INVALID_INPUT", "line %d: quantity must be positive", i+1)
		}
		if line.UnitCost.IsNegative() {
			return shared.NewDomainErrorf("INVALID_INPUT", "line %d: unit cost cannot be negative", i+1)
		}
	}
	return nil
}

// Purchase is the aggregate root for incoming stock acquisitions.
// Posting a purchase is the only way cost-bearing lots enter the system.
type Purchase struct {
	shared.BaseAggregateRoot
	Supplier string         `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	Comment  string         `gorm:"type:text" json:"comment,omitempty"`
	Status   PurchaseStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PostedAt *time.Time     `gorm:"index" json:"posted_at,omitempty"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for Purchase
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new draft purchase with the given line items.
// Supplier and comment are optional metadata.
func NewPurchase(supplier, comment string, lines []LineInput) (*Purchase, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Supplier:          supplier,
		Comment:           comment,
		Status:            PurchaseStatusDraft,
	}
	p.setItems(lines)
	p.AddDomainEvent(NewPurchaseCreatedEvent(p))
	return p, nil
}

func (p *Purchase) setItems(lines []LineInput) {
	items := make([]PurchaseItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, PurchaseItem{
			BaseEntity: shared.NewBaseEntity(),
			PurchaseID: p.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
		})
	}
	p.Items = items
}

// IsDraft returns true while the purchase is still editable
func (p *Purchase) IsDraft() bool {
	return p.Status == PurchaseStatusDraft
}

// Update patches a draft purchase. Nil fields keep their stored value;
// a non-nil line set replaces the items wholesale, never merging with the
// old set.
func (p *Purchase) Update(supplier, comment *string, lines []LineInput) error {
	if !p.IsDraft() {
		return shared.NewDomainErrorf("INVALID_STATE",
			"cannot modify purchase in %s status", p.Status)
	}
	if lines != nil {
		if err := ValidateLines(lines); err != nil {
			return err
		}
	}

	if supplier != nil {
		p.Supplier = *supplier
	}
	if comment != nil {
		p.Comment = *comment
	}
	if lines != nil {
		p.setItems(lines)
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Cancel abandons a draft purchase. Posted purchases cannot be canceled;
// corrections happen through inventory adjustments instead.
func (p *Purchase) Cancel() error {
	if !p.Status.CanTransitionTo(PurchaseStatusCanceled) {
		return shared.NewDomainErrorf("INVALID_STATE",
			"cannot cancel purchase in %s status", p.Status)
	}
	p.Status = PurchaseStatusCanceled
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPurchaseCanceledEvent(p))
	return nil
}

// TotalCost returns the sum of all line totals
func (p *Purchase) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Items {
		total = total.Add(p.Items[i].LineTotal())
	}
	return total
}

// PostingResult holds everything a posting produces, assembled in memory
// before any of it is persisted. One lot and one IN movement per line item.
type PostingResult struct {
	Purchase      *Purchase
	Lots          []*inventory.InventoryLot
	Movements     []*inventory.InventoryMovement
	CostOverrides map[uuid.UUID]decimal.Decimal
}

// BuildPostingResult transitions the purchase to POSTED and assembles the
// lots and inbound movements its lines produce. When updateCostPrice is set,
// CostOverrides carries the new reference cost per product; for products on
// multiple lines the later line wins.
func (p *Purchase) BuildPostingResult(now time.Time, updateCostPrice bool) (*PostingResult, error) {
	if !p.Status.CanTransitionTo(PurchaseStatusPosted) {
		return nil, shared.NewDomainErrorf("INVALID_STATE",
			"cannot post purchase in %s status", p.Status)
	}
	if len(p.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "cannot post purchase without line items")
	}

	result := &PostingResult{
		Purchase: p,
		Lots:     make([]*inventory.InventoryLot, 0, len(p.Items)),
	}

	for i := range p.Items {
		item := &p.Items[i]

		lot, err := inventory.NewLot(item.ProductID, &p.ID, item.UnitCost, item.Quantity, now)
		if err != nil {
			return nil, err
		}
		movement, err := inventory.NewInboundMovement(
			item.ProductID, lot.ID, item.Quantity, item.UnitCost,
			inventory.SourcePurchase, p.ID, now,
		)
		if err != nil {
			return nil, err
		}

		result.Lots = append(result.Lots, lot)
		result.Movements = append(result.Movements, movement)
	}

	if updateCostPrice {
		// Walk lines in order so the last line for a product wins.
		overrides := make(map[uuid.UUID]decimal.Decimal, len(p.Items))
		for i := range p.Items {
			overrides[p.Items[i].ProductID] = p.Items[i].UnitCost
		}
		result.CostOverrides = overrides
	}

	p.Status = PurchaseStatusPosted
	p.PostedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPurchasePostedEvent(p, result))

	return result, nil
}
