package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	purchaseapp "github.com/stockledger/backend/internal/application/purchase"
	"github.com/stockledger/backend/internal/domain/purchase"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

// PurchaseHandler handles purchase lifecycle endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *purchaseapp.Service
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *purchaseapp.Service) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/:id", h.Get)
		purchases.PUT("/:id", h.Update)
		purchases.POST("/:id/post", h.Post)
		purchases.POST("/:id/cancel", h.Cancel)
	}
}

// PurchaseLineRequest is one line of a purchase request body
type PurchaseLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"gte=0"`
}

// CreatePurchaseRequest is the request body for creating a draft purchase.
// Supplier is optional.
type CreatePurchaseRequest struct {
	Supplier string                `json:"supplier" binding:"max=255"`
	Comment  string                `json:"comment" binding:"max=1000"`
	Lines    []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdatePurchaseRequest is the request body for patching a draft purchase.
// Omitted fields keep their stored value; lines, when present, replace the
// item set wholesale.
type UpdatePurchaseRequest struct {
	Supplier *string               `json:"supplier" binding:"omitempty,max=255"`
	Comment  *string               `json:"comment" binding:"omitempty,max=1000"`
	Lines    []PurchaseLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

func toLineInputs(lines []PurchaseLineRequest) []purchaseapp.LineInput {
	out := make([]purchaseapp.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, purchaseapp.LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return out
}

// Create creates a new draft purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.purchaseService.CreateDraft(c.Request.Context(), purchaseapp.CreateInput{
		Supplier: req.Supplier,
		Comment:  req.Comment,
		Lines:    toLineInputs(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get retrieves a purchase with its items
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase ID")
		return
	}

	result, err := h.purchaseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// listPurchasesRequest holds purchase list query parameters
type listPurchasesRequest struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELED"`
	Supplier string `form:"supplier"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// List retrieves purchases matching the filter
func (h *PurchaseHandler) List(c *gin.Context) {
	var req listPurchasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}
	req.Normalize()

	filter := purchase.Filter{
		Filter:   toSharedFilter(req.ListRequest),
		Supplier: req.Supplier,
	}
	if req.Status != "" {
		status := purchase.PurchaseStatus(req.Status)
		filter.Status = &status
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

	results, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, results, total, req.Page, req.PageSize)
}

// Update patches a draft purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase ID")
		return
	}

	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	input := purchaseapp.UpdateInput{
		Supplier: req.Supplier,
		Comment:  req.Comment,
	}
	if req.Lines != nil {
		input.Lines = toLineInputs(req.Lines)
	}
	result, err := h.purchaseService.UpdateDraft(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Post transitions a draft purchase to POSTED, creating inventory lots.
// The update_cost_price query parameter overrides each product's reference
// cost with its line's unit cost.
func (h *PurchaseHandler) Post(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase ID")
		return
	}
	updateCostPrice := c.Query("update_cost_price") == "true"

	result, err := h.purchaseService.Post(c.Request.Context(), id, updateCostPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel abandons a draft purchase
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase ID")
		return
	}

	result, err := h.purchaseService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
