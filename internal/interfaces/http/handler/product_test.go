package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/stockledger/backend/internal/application/catalog"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
	bySKU    map[string]*catalog.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*catalog.Product),
		bySKU:    make(map[string]*catalog.Product),
	}
}

func (r *stubProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	r.bySKU[p.SKU] = p
	return nil
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	if p, ok := r.bySKU[sku]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := r.products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *stubProductRepo) FindByFilter(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) UpdateReferenceCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.ReferenceCost = cost
	return nil
}

func setupProductRouter(repo *stubProductRepo) *gin.Engine {
	service := catalogapp.NewProductService(repo, zap.NewNop())
	handler := NewProductHandler(service)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func TestProductHandlerCreate(t *testing.T) {
	router := setupProductRouter(newStubProductRepo())

	body, _ := json.Marshal(CreateProductRequest{
		SKU:       "WIDGET-1",
		Name:      "Widget",
		SalePrice: decimal.NewFromInt(25),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestProductHandlerCreateDuplicateSKU(t *testing.T) {
	repo := newStubProductRepo()
	router := setupProductRouter(repo)

	body, _ := json.Marshal(CreateProductRequest{SKU: "WIDGET-1", Name: "Widget"})
	for _, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, wantStatus, w.Code)
	}
}

func TestProductHandlerCreateMissingFields(t *testing.T) {
	router := setupProductRouter(newStubProductRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{"name":"no sku"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandlerGetNotFound(t *testing.T) {
	router := setupProductRouter(newStubProductRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandlerGetInvalidID(t *testing.T) {
	router := setupProductRouter(newStubProductRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandlerList(t *testing.T) {
	repo := newStubProductRepo()
	p, err := catalog.NewProduct("SKU-1", "First", decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))

	router := setupProductRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestProductHandlerCreateNegativePrice(t *testing.T) {
	router := setupProductRouter(newStubProductRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
		bytes.NewReader([]byte(`{"sku":"SKU-NEG","name":"Widget","sale_price":"-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
