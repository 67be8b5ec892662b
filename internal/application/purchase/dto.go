package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/purchase"
)

// LineInput is one purchase line as supplied by the caller
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreateInput carries the fields for creating a draft purchase
type CreateInput struct {
	Supplier string
	Comment  string
	Lines    []LineInput
}

// UpdateInput carries the fields for patching a draft purchase. Nil fields
// are left unchanged; a non-nil line set replaces the items wholesale.
type UpdateInput struct {
	Supplier *string
	Comment  *string
	Lines    []LineInput
}

// ItemDTO is one purchase line in responses
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseDTO is the purchase shape returned to callers
type PurchaseDTO struct {
	ID        uuid.UUID       `json:"id"`
	Supplier  string          `json:"supplier"`
	Comment   string          `json:"comment,omitempty"`
	Status    string          `json:"status"`
	TotalCost decimal.Decimal `json:"total_cost"`
	PostedAt  *time.Time      `json:"posted_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
	Items     []ItemDTO       `json:"items"`
}

// PostResultDTO summarizes what posting a purchase produced
type PostResultDTO struct {
	Purchase         *PurchaseDTO `json:"purchase"`
	LotsCreated      int          `json:"lots_created"`
	MovementsCreated int          `json:"movements_created"`
	CostUpdated      []uuid.UUID  `json:"cost_updated,omitempty"`
}

// toPurchaseDTO maps the aggregate to its response shape
func toPurchaseDTO(p *purchase.Purchase) *PurchaseDTO {
	items := make([]ItemDTO, 0, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			LineTotal: item.LineTotal(),
		})
	}
	return &PurchaseDTO{
		ID:        p.ID,
		Supplier:  p.Supplier,
		Comment:   p.Comment,
		Status:    p.Status.String(),
		TotalCost: p.TotalCost(),
		PostedAt:  p.PostedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
		Items:     items,
	}
}

func toDomainLines(lines []LineInput) []purchase.LineInput {
	out := make([]purchase.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, purchase.LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return out
}
