package handler

import (
	"github.com/gin-gonic/gin"
	returnsapp "github.com/orderdesk/backend/internal/application/returns"
)

// ReturnHandler handles return request endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// RegisterRoutes registers return routes
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	{
		returns.POST("", h.Submit)
		returns.GET("", h.List)
		returns.GET("/:id", h.GetByID)
		returns.POST("/:id/resolve", h.Resolve)
	}
}

// Submit opens a return against a delivered order
func (h *ReturnHandler) Submit(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req returnsapp.SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ret, err := h.returnService.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// List lists return requests
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnsapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rets, total, err := h.returnService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, rets, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a return request with its lines
func (h *ReturnHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Resolve approves or rejects a pending return. Admin only; approval
// restocks resellable pieces.
func (h *ReturnHandler) Resolve(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req returnsapp.ResolveReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ret, err := h.returnService.Resolve(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}
