package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/report"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ProfitService computes profitability over a reporting window. Revenue
// comes from sales line snapshots; COGS comes from the cost stored on OUT
// movements when stock was consumed. Costs are never re-derived from lots.
type ProfitService struct {
	movementRepo          inventory.MovementRepository
	salesRepo             report.SalesLineRepository
	productRepo           catalog.ProductRepository
	packagingCostPerOrder decimal.Decimal
	logger                *zap.Logger
}

// NewProfitService creates a new ProfitService
func NewProfitService(
	movementRepo inventory.MovementRepository,
	salesRepo report.SalesLineRepository,
	productRepo catalog.ProductRepository,
	packagingCostPerOrder decimal.Decimal,
	logger *zap.Logger,
) *ProfitService {
	return &ProfitService{
		movementRepo:          movementRepo,
		salesRepo:             salesRepo,
		productRepo:           productRepo,
		packagingCostPerOrder: packagingCostPerOrder,
		logger:                logger,
	}
}

// SalesLineInput is one sold line reported by the fulfillment system
type SalesLineInput struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// RecordSalesInput carries the sold lines of one completed order
type RecordSalesInput struct {
	OrderID uuid.UUID
	SoldAt  time.Time
	Lines   []SalesLineInput
}

// RecordSales stores the sales line snapshots for a completed order.
// The fulfillment system calls this alongside the stock consumption.
func (s *ProfitService) RecordSales(ctx context.Context, input RecordSalesInput) error {
	if input.OrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "order ID is required")
	}
	if len(input.Lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "at least one sales line is required")
	}
	soldAt := input.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now()
	}

	lines := make([]*report.SalesLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		line, err := report.NewSalesLine(input.OrderID, l.ProductID, l.Quantity, l.UnitPrice, soldAt)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	if err := s.salesRepo.CreateBatch(ctx, lines); err != nil {
		return fmt.Errorf("failed to record sales lines: %w", err)
	}

	s.logger.Info("sales lines recorded",
		zap.String("order_id", input.OrderID.String()),
		zap.Int("lines", len(lines)),
	)
	return nil
}

// MarkOrderRefunded excludes an order from revenue reporting by flipping its
// sales lines to REFUNDED. COGS stays as written at consumption time; stock
// coming back is handled through inventory adjustments.
func (s *ProfitService) MarkOrderRefunded(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "order ID is required")
	}

	updated, err := s.salesRepo.MarkOrderRefunded(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order refunded: %w", err)
	}
	if updated == 0 {
		return shared.NewDomainErrorf("NOT_FOUND", "no sales lines for order %s", orderID)
	}

	s.logger.Info("order refunded",
		zap.String("order_id", orderID.String()),
		zap.Int64("lines", updated),
	)
	return nil
}

// ComputeProfitReport aggregates revenue, COGS and profit per product over
// [from, to). Products with revenue but no matching cost (or the reverse)
// still appear, with the missing side at zero.
func (s *ProfitService) ComputeProfitReport(ctx context.Context, from, to time.Time) (*report.ProfitReport, error) {
	if from.IsZero() || to.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "report window is required")
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_INPUT", "report window start must be before end")
	}

	revenueRows, err := s.salesRepo.SumRevenueByProduct(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	costRows, err := s.movementRepo.SumOutboundCostByProduct(ctx, inventory.SourceOrder, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cost: %w", err)
	}
	orderCount, err := s.salesRepo.CountDistinctOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	type productAgg struct {
		unitsSold int64
		revenue   decimal.Decimal
		cogs      decimal.Decimal
	}
	byProduct := make(map[uuid.UUID]*productAgg)
	agg := func(id uuid.UUID) *productAgg {
		if a, ok := byProduct[id]; ok {
			return a
		}
		a := &productAgg{revenue: decimal.Zero, cogs: decimal.Zero}
		byProduct[id] = a
		return a
	}

	for _, row := range revenueRows {
		a := agg(row.ProductID)
		a.unitsSold = row.Quantity
		a.revenue = row.Revenue
	}
	for _, row := range costRows {
		agg(row.ProductID).cogs = row.TotalCost
	}

	ids := make([]uuid.UUID, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	names := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		names[p.ID] = p
	}

	result := &report.ProfitReport{
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		TotalCOGS:    decimal.Zero,
	}

	for id, a := range byProduct {
		line := report.ProductProfit{
			ProductID:   id,
			UnitsSold:   a.unitsSold,
			Revenue:     a.revenue,
			COGS:        a.cogs,
			GrossProfit: a.revenue.Sub(a.cogs),
			MarginPct:   report.MarginPercent(a.revenue.Sub(a.cogs), a.revenue),
		}
		if p, ok := names[id]; ok {
			line.ProductName = p.Name
			line.SKU = p.SKU
		}
		result.Products = append(result.Products, line)
		result.TotalRevenue = result.TotalRevenue.Add(a.revenue)
		result.TotalCOGS = result.TotalCOGS.Add(a.cogs)
	}

	sort.Slice(result.Products, func(i, j int) bool {
		return result.Products[i].Revenue.GreaterThan(result.Products[j].Revenue)
	})

	result.OrderCount = orderCount
	result.PackagingCost = s.packagingCostPerOrder.Mul(decimal.NewFromInt(orderCount))
	result.GrossProfit = result.TotalRevenue.Sub(result.TotalCOGS)
	result.NetProfit = result.GrossProfit.Sub(result.PackagingCost)
	result.MarginPct = report.MarginPercent(result.NetProfit, result.TotalRevenue)

	s.logger.Info("profit report computed",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("products", len(result.Products)),
		zap.String("net_profit", result.NetProfit.String()),
	)
	return result, nil
}
