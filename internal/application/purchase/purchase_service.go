package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/purchase"
	"github.com/stockledger/backend/internal/domain/shared"
)

// Service handles the purchase lifecycle: draft creation and editing,
// posting to inventory, and cancellation.
type Service struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewService creates a new purchase Service
func NewService(scope TransactionScope, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		logger: logger,
	}
}

// validateProducts checks that every referenced product exists
func (s *Service) validateProducts(ctx context.Context, repos TransactionalRepositories, lines []LineInput) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	missing, err := repos.ProductRepo().FindMissing(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if len(missing) > 0 {
		return shared.NewDomainErrorf("NOT_FOUND", "unknown product: %s", missing[0])
	}
	return nil
}

// CreateDraft creates a new draft purchase
func (s *Service) CreateDraft(ctx context.Context, input CreateInput) (*PurchaseDTO, error) {
	var dto *PurchaseDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := purchase.ValidateLines(toDomainLines(input.Lines)); err != nil {
			return err
		}
		if err := s.validateProducts(ctx, repos, input.Lines); err != nil {
			return err
		}

		p, err := purchase.NewPurchase(input.Supplier, input.Comment, toDomainLines(input.Lines))
		if err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		dto = toPurchaseDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase draft created",
		zap.String("purchase_id", dto.ID.String()),
		zap.String("supplier", dto.Supplier),
		zap.Int("lines", len(dto.Items)),
	)
	return dto, nil
}

// UpdateDraft patches a draft purchase. Omitted fields keep their stored
// value; a submitted line set replaces the items wholesale, never merging.
func (s *Service) UpdateDraft(ctx context.Context, id uuid.UUID, input UpdateInput) (*PurchaseDTO, error) {
	var dto *PurchaseDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var lines []purchase.LineInput
		if input.Lines != nil {
			lines = toDomainLines(input.Lines)
		}
		if err := p.Update(input.Supplier, input.Comment, lines); err != nil {
			return err
		}

		if input.Lines != nil {
			if err := s.validateProducts(ctx, repos, input.Lines); err != nil {
				return err
			}
			if err := repos.PurchaseRepo().SaveWithItems(ctx, p); err != nil {
				return err
			}
		} else if err := repos.PurchaseRepo().Save(ctx, p); err != nil {
			return err
		}

		dto = toPurchaseDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase draft updated", zap.String("purchase_id", id.String()))
	return dto, nil
}

// Post transitions a draft purchase to POSTED, creating one inventory lot
// and one IN movement per line item atomically with the status flip. When
// updateCostPrice is set, each referenced product's reference cost is
// overridden with its line's unit cost (last line wins per product).
//
// The status flip is guarded by the aggregate version, so two concurrent
// posts of the same purchase cannot both succeed.
func (s *Service) Post(ctx context.Context, id uuid.UUID, updateCostPrice bool) (*PostResultDTO, error) {
	var result *PostResultDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		posting, err := p.BuildPostingResult(time.Now(), updateCostPrice)
		if err != nil {
			return err
		}

		// The version-guarded save is the double-posting gate; everything
		// after it only runs for the winner.
		if err := repos.PurchaseRepo().Save(ctx, p); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return shared.NewDomainError("INVALID_STATE", "purchase was modified concurrently, reload and retry")
			}
			return err
		}

		if err := repos.LotRepo().CreateBatch(ctx, posting.Lots); err != nil {
			return fmt.Errorf("failed to create lots: %w", err)
		}
		if err := repos.MovementRepo().CreateBatch(ctx, posting.Movements); err != nil {
			return fmt.Errorf("failed to record movements: %w", err)
		}

		var updated []uuid.UUID
		for productID, cost := range posting.CostOverrides {
			if err := repos.ProductRepo().UpdateReferenceCost(ctx, productID, cost); err != nil {
				return fmt.Errorf("failed to update reference cost: %w", err)
			}
			updated = append(updated, productID)
		}

		result = &PostResultDTO{
			Purchase:         toPurchaseDTO(p),
			LotsCreated:      len(posting.Lots),
			MovementsCreated: len(posting.Movements),
			CostUpdated:      updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase posted",
		zap.String("purchase_id", id.String()),
		zap.Int("lots_created", result.LotsCreated),
		zap.Bool("cost_override", updateCostPrice),
	)
	return result, nil
}

// Cancel abandons a draft purchase
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	var dto *PurchaseDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Save(ctx, p); err != nil {
			return err
		}

		dto = toPurchaseDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase canceled", zap.String("purchase_id", id.String()))
	return dto, nil
}

// Get retrieves a purchase with its items
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	var dto *PurchaseDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		dto = toPurchaseDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List retrieves purchases matching the filter
func (s *Service) List(ctx context.Context, filter purchase.Filter) ([]*PurchaseDTO, int64, error) {
	var (
		dtos  []*PurchaseDTO
		total int64
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchases, count, err := repos.PurchaseRepo().FindByFilter(ctx, filter)
		if err != nil {
			return err
		}

		dtos = make([]*PurchaseDTO, 0, len(purchases))
		for _, p := range purchases {
			dtos = append(dtos, toPurchaseDTO(p))
		}
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return dtos, total, nil
}
