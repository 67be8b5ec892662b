package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ProductService handles catalog operations. The catalog here is minimal:
// products exist so purchases and movements have something to reference.
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProductInput carries the fields for creating a product
type CreateProductInput struct {
	SKU           string
	Name          string
	SalePrice     decimal.Decimal
	ReferenceCost decimal.Decimal
}

// ProductDTO is the product shape returned to callers
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	ReferenceCost decimal.Decimal `json:"reference_cost"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toProductDTO(p *catalog.Product) *ProductDTO {
	return &ProductDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		SalePrice:     p.SalePrice,
		ReferenceCost: p.ReferenceCost,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Create creates a new product. SKUs are unique.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	existing, err := s.productRepo.FindBySKU(ctx, input.SKU)
	if err != nil && !shared.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check SKU: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "product with SKU %s already exists", input.SKU)
	}

	product, err := catalog.NewProduct(input.SKU, input.Name, input.SalePrice, input.ReferenceCost)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return toProductDTO(product), nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]*ProductDTO, int64, error) {
	products, total, err := s.productRepo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	return dtos, total, nil
}
