package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/orderdesk/backend/internal/application/inventory"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockLedgerService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock/low", h.ListLowStock)

	products := rg.Group("/products/:id/stock")
	{
		products.GET("", h.GetStockLevel)
		products.GET("/movements", h.ListMovements)
		products.POST("/restock", h.Restock)
		products.POST("/adjust", h.Adjust)
	}
}

// GetStockLevel returns the current stock level for one product
func (h *StockHandler) GetStockLevel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	level, err := h.stockService.GetStockLevel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListLowStock returns active products at or below their threshold
func (h *StockHandler) ListLowStock(c *gin.Context) {
	levels, err := h.stockService.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// ListMovements returns the movement history for one product
func (h *StockHandler) ListMovements(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// Restock records received stock
func (h *StockHandler) Restock(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	movement, err := h.stockService.Restock(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// Adjust records a manual stock correction. Admin only.
func (h *StockHandler) Adjust(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	movement, err := h.stockService.ManualAdjust(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}
