package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// QueryService serves read-only inventory views. Queries run outside
// transactions; slight staleness is acceptable for listings.
type QueryService struct {
	lotRepo      inventory.LotRepository
	movementRepo inventory.MovementRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(lotRepo inventory.LotRepository, movementRepo inventory.MovementRepository) *QueryService {
	return &QueryService{
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
	}
}

// ListLots returns a product's lots, optionally including exhausted ones
func (s *QueryService) ListLots(ctx context.Context, productID uuid.UUID, includeExhausted bool, filter shared.Filter) ([]*LotDTO, int64, error) {
	lots, total, err := s.lotRepo.FindByProduct(ctx, productID, includeExhausted, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lots: %w", err)
	}

	dtos := make([]*LotDTO, 0, len(lots))
	for _, lot := range lots {
		dtos = append(dtos, toLotDTO(lot))
	}
	return dtos, total, nil
}

// ListMovements returns ledger entries matching the filter
func (s *QueryService) ListMovements(ctx context.Context, filter inventory.MovementFilter) ([]*MovementDTO, int64, error) {
	movements, total, err := s.movementRepo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}

	dtos := make([]*MovementDTO, 0, len(movements))
	for _, m := range movements {
		dtos = append(dtos, toMovementDTO(m))
	}
	return dtos, total, nil
}

// GetStockSummary reconciles on-hand stock (open lot remainders) against
// the signed movement sum for one product
func (s *QueryService) GetStockSummary(ctx context.Context, productID uuid.UUID) (*StockSummary, error) {
	onHand, err := s.lotRepo.SumRemainingByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum lots: %w", err)
	}
	ledger, err := s.movementRepo.SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements: %w", err)
	}

	return &StockSummary{
		ProductID:      productID,
		OnHand:         onHand,
		LedgerQuantity: ledger,
		AdjustmentGap:  ledger - onHand,
	}, nil
}
