package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ConsumptionService executes FIFO stock deductions. Concurrent consumptions
// of the same product serialize on the locked lot rows, so costs are
// attributed as if requests arrived one at a time.
type ConsumptionService struct {
	scope    TransactionScope
	strategy *inventory.FIFOStrategy
	logger   *zap.Logger
}

// NewConsumptionService creates a new ConsumptionService
func NewConsumptionService(scope TransactionScope, logger *zap.Logger) *ConsumptionService {
	return &ConsumptionService{
		scope:    scope,
		strategy: inventory.NewFIFOStrategy(),
		logger:   logger,
	}
}

// Consume deducts quantity from the product's open lots oldest-first and
// records one OUT movement carrying the attributed cost. If the open lots
// cannot cover the request, nothing is changed and INSUFFICIENT_STOCK is
// returned.
func (s *ConsumptionService) Consume(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	if input.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}
	if input.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	if !input.SourceType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid source type: %s", input.SourceType)
	}

	var result *ConsumeResult

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindOpenByProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return fmt.Errorf("failed to load lots: %w", err)
		}

		plan, err := s.strategy.Plan(input.ProductID, lots, input.Quantity)
		if err != nil {
			return err
		}
		if err := s.strategy.Apply(plan, lots); err != nil {
			return err
		}

		touched := make([]*inventory.InventoryLot, 0, len(plan.Consumptions))
		byID := make(map[uuid.UUID]*inventory.InventoryLot, len(lots))
		for _, lot := range lots {
			byID[lot.ID] = lot
		}
		for _, c := range plan.Consumptions {
			touched = append(touched, byID[c.LotID])
		}
		if err := repos.LotRepo().UpdateBatch(ctx, touched); err != nil {
			return fmt.Errorf("failed to update lots: %w", err)
		}

		movement, err := inventory.NewOutboundMovement(
			input.ProductID, input.Quantity, plan.TotalCost,
			input.SourceType, input.SourceID, time.Now(),
		)
		if err != nil {
			return err
		}
		if input.Note != "" {
			movement.WithNote(input.Note)
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to record movement: %w", err)
		}

		consumptions := make([]LotConsumptionDTO, 0, len(plan.Consumptions))
		for _, c := range plan.Consumptions {
			consumptions = append(consumptions, LotConsumptionDTO{
				LotID:       c.LotID,
				Quantity:    c.Quantity,
				UnitCost:    c.UnitCost,
				CostPortion: c.CostPortion,
			})
		}
		result = &ConsumeResult{
			MovementID:   movement.ID,
			ProductID:    input.ProductID,
			Quantity:     input.Quantity,
			TotalCost:    plan.TotalCost,
			Consumptions: consumptions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock consumed",
		zap.String("product_id", input.ProductID.String()),
		zap.Int64("quantity", input.Quantity),
		zap.String("total_cost", result.TotalCost.String()),
		zap.String("source_type", input.SourceType.String()),
	)
	return result, nil
}

// WriteOff removes damaged or lost stock through the FIFO engine so the
// written-off units still carry their acquisition cost out of inventory.
func (s *ConsumptionService) WriteOff(ctx context.Context, productID uuid.UUID, quantity int64, reason string) (*ConsumeResult, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "write-off reason is required")
	}
	return s.Consume(ctx, ConsumeInput{
		ProductID:  productID,
		Quantity:   quantity,
		SourceType: inventory.SourceManual,
		Note:       reason,
	})
}

// Adjust records a manual quantity correction as an ADJUST movement.
// Adjustments never create or consume lots: positive deltas carry no cost
// basis and are not FIFO-consumable.
func (s *ConsumptionService) Adjust(ctx context.Context, input AdjustInput) (*MovementDTO, error) {
	var dto *MovementDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movement, err := inventory.NewAdjustmentMovement(input.ProductID, input.QuantityDelta, input.Note, time.Now())
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to record adjustment: %w", err)
		}
		dto = toMovementDTO(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", input.ProductID.String()),
		zap.Int64("delta", input.QuantityDelta),
	)
	return dto, nil
}
