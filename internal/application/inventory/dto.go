package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/inventory"
)

// ConsumeInput describes one FIFO consumption request
type ConsumeInput struct {
	ProductID  uuid.UUID
	Quantity   int64
	SourceType inventory.SourceType
	SourceID   *uuid.UUID
	Note       string
}

// LotConsumptionDTO is one lot's share of a consumption
type LotConsumptionDTO struct {
	LotID       uuid.UUID       `json:"lot_id"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CostPortion decimal.Decimal `json:"cost_portion"`
}

// ConsumeResult reports what a consumption took and what it cost
type ConsumeResult struct {
	MovementID   uuid.UUID           `json:"movement_id"`
	ProductID    uuid.UUID           `json:"product_id"`
	Quantity     int64               `json:"quantity"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Consumptions []LotConsumptionDTO `json:"consumptions"`
}

// AdjustInput describes a manual quantity correction
type AdjustInput struct {
	ProductID     uuid.UUID
	QuantityDelta int64
	Note          string
}

// LotDTO is the lot shape returned to callers
type LotDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	PurchaseID   *uuid.UUID      `json:"purchase_id,omitempty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	QtyReceived  int64           `json:"qty_received"`
	QtyRemaining int64           `json:"qty_remaining"`
	ReceivedAt   time.Time       `json:"received_at"`
}

// MovementDTO is the movement shape returned to callers
type MovementDTO struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LotID      *uuid.UUID      `json:"lot_id,omitempty"`
	Type       string          `json:"type"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	SourceType string          `json:"source_type"`
	SourceID   *uuid.UUID      `json:"source_id,omitempty"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// StockSummary reconciles lot remainders against the movement ledger for
// one product. The two sides differ exactly by the ADJUST movements, which
// change ledger quantity without touching lots.
type StockSummary struct {
	ProductID      uuid.UUID `json:"product_id"`
	OnHand         int64     `json:"on_hand"`
	LedgerQuantity int64     `json:"ledger_quantity"`
	AdjustmentGap  int64     `json:"adjustment_gap"`
}

func toLotDTO(lot *inventory.InventoryLot) *LotDTO {
	return &LotDTO{
		ID:           lot.ID,
		ProductID:    lot.ProductID,
		PurchaseID:   lot.PurchaseID,
		UnitCost:     lot.UnitCost,
		QtyReceived:  lot.QtyReceived,
		QtyRemaining: lot.QtyRemaining,
		ReceivedAt:   lot.ReceivedAt,
	}
}

func toMovementDTO(m *inventory.InventoryMovement) *MovementDTO {
	return &MovementDTO{
		ID:         m.ID,
		ProductID:  m.ProductID,
		LotID:      m.LotID,
		Type:       m.Type.String(),
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		SourceType: m.SourceType.String(),
		SourceID:   m.SourceID,
		Note:       m.Note,
		OccurredAt: m.OccurredAt,
	}
}
