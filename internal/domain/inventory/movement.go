package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// MovementType categorizes a stock movement
type MovementType string

const (
	MovementTypeIn     MovementType = "IN"     // stock received (purchase posting)
	MovementTypeOut    MovementType = "OUT"    // stock consumed (fulfillment, write-off)
	MovementTypeAdjust MovementType = "ADJUST" // manual correction without cost basis
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust:
		return true
	}
	return false
}

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// SourceType identifies what triggered a movement
type SourceType string

const (
	SourcePurchase SourceType = "PURCHASE" // purchase posting
	SourceOrder    SourceType = "ORDER"    // order fulfillment
	SourceManual   SourceType = "MANUAL"   // write-off or manual adjustment
)

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourcePurchase, SourceOrder, SourceManual:
		return true
	}
	return false
}

// String returns the string representation
func (s SourceType) String() string {
	return string(s)
}

// InventoryMovement is an append-only ledger entry recording a stock change.
// Quantity is signed: positive for IN, negative for OUT, either for ADJUST.
// OUT movements carry the FIFO-attributed cost computed at consumption time;
// that stored cost is the source of truth for COGS and is never re-derived.
type InventoryMovement struct {
	shared.BaseEntity
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	LotID      *uuid.UUID      `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	Type       MovementType    `gorm:"type:varchar(10);not null;index" json:"type"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"unit_cost"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"total_cost"`
	SourceType SourceType      `gorm:"type:varchar(20);not null;index" json:"source_type"`
	SourceID   *uuid.UUID      `gorm:"type:uuid;index" json:"source_id,omitempty"`
	Note       string          `gorm:"type:text" json:"note,omitempty"`
	OccurredAt time.Time       `gorm:"not null;index" json:"occurred_at"`
}

// TableName returns the table name for InventoryMovement
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

// NewInboundMovement records stock received into a lot.
// Quantity is stored positive; total cost is unit cost times quantity.
func NewInboundMovement(productID, lotID uuid.UUID, quantity int64, unitCost decimal.Decimal, sourceType SourceType, sourceID uuid.UUID, occurredAt time.Time) (*InventoryMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if lotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "lot ID is required for inbound movements")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "inbound quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unit cost cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid source type: %s", sourceType)
	}

	src := sourceID
	return &InventoryMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LotID:      &lotID,
		Type:       MovementTypeIn,
		Quantity:   quantity,
		UnitCost:   unitCost,
		TotalCost:  unitCost.Mul(decimal.NewFromInt(quantity)),
		SourceType: sourceType,
		SourceID:   &src,
		OccurredAt: occurredAt,
	}, nil
}

// NewOutboundMovement records stock consumed, with the FIFO-attributed cost.
// Quantity is stored negative.
func NewOutboundMovement(productID uuid.UUID, quantity int64, totalCost decimal.Decimal, sourceType SourceType, sourceID *uuid.UUID, occurredAt time.Time) (*InventoryMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "outbound quantity must be positive")
	}
	if totalCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "total cost cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid source type: %s", sourceType)
	}

	unitCost := decimal.Zero
	if quantity > 0 {
		unitCost = totalCost.DivRound(decimal.NewFromInt(quantity), 4)
	}

	return &InventoryMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Type:       MovementTypeOut,
		Quantity:   -quantity,
		UnitCost:   unitCost,
		TotalCost:  totalCost,
		SourceType: sourceType,
		SourceID:   sourceID,
		OccurredAt: occurredAt,
	}, nil
}

// NewAdjustmentMovement records a manual correction. Adjustments carry no
// cost basis and never create lots, so positive adjustments do not become
// FIFO-consumable stock.
func NewAdjustmentMovement(productID uuid.UUID, quantityDelta int64, note string, occurredAt time.Time) (*InventoryMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if quantityDelta == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "adjustment quantity cannot be zero")
	}
	if note == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "adjustment note is required")
	}

	return &InventoryMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Type:       MovementTypeAdjust,
		Quantity:   quantityDelta,
		UnitCost:   decimal.Zero,
		TotalCost:  decimal.Zero,
		SourceType: SourceManual,
		Note:       note,
		OccurredAt: occurredAt,
	}, nil
}

// WithNote attaches a free-form note to the movement
func (m *InventoryMovement) WithNote(note string) *InventoryMovement {
	m.Note = note
	return m
}

// IsInbound returns true for IN movements
func (m *InventoryMovement) IsInbound() bool {
	return m.Type == MovementTypeIn
}

// IsOutbound returns true for OUT movements
func (m *InventoryMovement) IsOutbound() bool {
	return m.Type == MovementTypeOut
}
