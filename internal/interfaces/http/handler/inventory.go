package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles stock consumption, adjustments and ledger views
type InventoryHandler struct {
	BaseHandler
	consumptionService *inventoryapp.ConsumptionService
	queryService       *inventoryapp.QueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	consumptionService *inventoryapp.ConsumptionService,
	queryService *inventoryapp.QueryService,
) *InventoryHandler {
	return &InventoryHandler{
		consumptionService: consumptionService,
		queryService:       queryService,
	}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/consume", h.Consume)
		inv.POST("/write-off", h.WriteOff)
		inv.POST("/adjust", h.Adjust)
		inv.GET("/lots", h.ListLots)
		inv.GET("/movements", h.ListMovements)
		inv.GET("/products/:id/summary", h.StockSummary)
	}
}

// ConsumeRequest is the request body for a FIFO stock deduction
type ConsumeRequest struct {
	ProductID  uuid.UUID  `json:"product_id" binding:"required"`
	Quantity   int64      `json:"quantity" binding:"required,gt=0"`
	SourceType string     `json:"source_type" binding:"required,oneof=ORDER MANUAL"`
	SourceID   *uuid.UUID `json:"source_id"`
	Note       string     `json:"note" binding:"max=1000"`
}

// Consume deducts stock from the product's open lots oldest-first
func (h *InventoryHandler) Consume(c *gin.Context) {
	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.consumptionService.Consume(c.Request.Context(), inventoryapp.ConsumeInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		SourceType: inventory.SourceType(req.SourceType),
		SourceID:   req.SourceID,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// WriteOffRequest is the request body for removing damaged or lost stock
type WriteOffRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Reason    string    `json:"reason" binding:"required,max=1000"`
}

// WriteOff removes stock through the FIFO engine with a required reason
func (h *InventoryHandler) WriteOff(c *gin.Context) {
	var req WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.consumptionService.WriteOff(c.Request.Context(), req.ProductID, req.Quantity, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdjustRequest is the request body for a manual quantity correction
type AdjustRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	QuantityDelta int64     `json:"quantity_delta" binding:"required"`
	Note          string    `json:"note" binding:"required,max=1000"`
}

// Adjust records a manual quantity correction as an ADJUST movement
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.consumptionService.Adjust(c.Request.Context(), inventoryapp.AdjustInput{
		ProductID:     req.ProductID,
		QuantityDelta: req.QuantityDelta,
		Note:          req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// listLotsRequest holds lot list query parameters
type listLotsRequest struct {
	dto.ListRequest
	ProductID        uuid.UUID `form:"product_id" binding:"required"`
	IncludeExhausted bool      `form:"include_exhausted"`
}

// ListLots returns a product's inventory lots
func (h *InventoryHandler) ListLots(c *gin.Context) {
	var req listLotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}
	req.Normalize()

	lots, total, err := h.queryService.ListLots(c.Request.Context(), req.ProductID, req.IncludeExhausted, toSharedFilter(req.ListRequest))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, lots, total, req.Page, req.PageSize)
}

// listMovementsRequest holds movement ledger query parameters
type listMovementsRequest struct {
	dto.ListRequest
	ProductID  string `form:"product_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=IN OUT ADJUST"`
	SourceType string `form:"source_type" binding:"omitempty,oneof=PURCHASE ORDER MANUAL"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// ListMovements returns ledger entries matching the filter
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var req listMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}
	req.Normalize()

	filter := inventory.MovementFilter{Filter: toSharedFilter(req.ListRequest)}
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			h.BadRequest(c, "invalid product ID")
			return
		}
		filter.ProductID = &id
	}
	if req.Type != "" {
		mt := inventory.MovementType(req.Type)
		filter.Type = &mt
	}
	if req.SourceType != "" {
		st := inventory.SourceType(req.SourceType)
		filter.SourceType = &st
	}
	if req.From != "" {
		from, err := parseDateTime(req.From)
		if err != nil {
			h.BadRequest(c, "invalid from date")
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDateTime(req.To)
		if err != nil {
			h.BadRequest(c, "invalid to date")
			return
		}
		filter.To = &to
	}

	movements, total, err := h.queryService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, req.Page, req.PageSize)
}

// StockSummary reconciles lot remainders against the movement ledger
func (h *InventoryHandler) StockSummary(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	summary, err := h.queryService.GetStockSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
