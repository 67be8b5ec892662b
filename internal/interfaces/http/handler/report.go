package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	reportapp "github.com/stockledger/backend/internal/application/report"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

// ReportHandler handles sales recording and profit reporting endpoints
type ReportHandler struct {
	BaseHandler
	profitService *reportapp.ProfitService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(profitService *reportapp.ProfitService) *ReportHandler {
	return &ReportHandler{profitService: profitService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sales", h.RecordSales)
	rg.POST("/sales/:order_id/refund", h.RefundOrder)
	reports := rg.Group("/reports")
	{
		reports.GET("/profit", h.ProfitReport)
	}
}

// SalesLineRequest is one sold line of an order
type SalesLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
}

// RecordSalesRequest is the request body for recording a completed order's lines
type RecordSalesRequest struct {
	OrderID uuid.UUID          `json:"order_id" binding:"required"`
	SoldAt  *time.Time         `json:"sold_at"`
	Lines   []SalesLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordSales stores sales line snapshots for a completed order
func (h *ReportHandler) RecordSales(c *gin.Context) {
	var req RecordSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	input := reportapp.RecordSalesInput{OrderID: req.OrderID}
	if req.SoldAt != nil {
		input.SoldAt = *req.SoldAt
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, reportapp.SalesLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := h.profitService.RecordSales(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"order_id": req.OrderID, "lines": len(req.Lines)})
}

// RefundOrder removes an order's sales lines from revenue reporting
func (h *ReportHandler) RefundOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "order_id")
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	if err := h.profitService.MarkOrderRefunded(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": orderID, "order_status": "REFUNDED"})
}

// ProfitReport computes per-product profitability over [from, to)
func (h *ReportHandler) ProfitReport(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		h.BadRequest(c, "from and to query parameters are required")
		return
	}

	from, err := parseDateTime(fromStr)
	if err != nil {
		h.BadRequest(c, "invalid from date")
		return
	}
	to, err := parseDateTime(toStr)
	if err != nil {
		h.BadRequest(c, "invalid to date")
		return
	}

	result, err := h.profitService.ComputeProfitReport(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
