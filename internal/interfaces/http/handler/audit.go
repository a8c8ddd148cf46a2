package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/backend/internal/domain/audit"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// AuditHandler exposes read access to the audit trail. The routes are
// registered behind the admin middleware; there is no write surface.
type AuditHandler struct {
	BaseHandler
	repo audit.Repository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(repo audit.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trail := rg.Group("/audit")
	{
		trail.GET("/entries", h.List)
		trail.GET("/entries/:entityType/:entityID", h.ListByEntity)
	}
}

// AuditEntryResponse is the wire form of an audit entry
type AuditEntryResponse struct {
	ID             string          `json:"id"`
	ActorID        *string         `json:"actor_id,omitempty"`
	Action         string          `json:"action"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	BeforeSnapshot json.RawMessage `json:"before_snapshot,omitempty"`
	AfterSnapshot  json.RawMessage `json:"after_snapshot,omitempty"`
	ActorIP        string          `json:"actor_ip,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AuditListRequest carries pagination and optional filters
type AuditListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Action   string `form:"action" binding:"omitempty,oneof=CREATE UPDATE DELETE"`
}

// List lists audit entries, newest first
func (h *AuditHandler) List(c *gin.Context) {
	var req AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.toFilter()
	entries, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.repo.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toAuditEntryResponses(entries), total, filter.Page, filter.PageSize)
}

// ListByEntity lists the audit history of one entity
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	var req AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entityType := c.Param("entityType")
	entityID := c.Param("entityID")

	filter := req.toFilter()
	entries, err := h.repo.FindByEntity(c.Request.Context(), entityType, entityID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuditEntryResponses(entries))
}

func (r AuditListRequest) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if r.Page > 0 {
		filter.Page = r.Page
	}
	if r.PageSize > 0 {
		filter.PageSize = r.PageSize
	}
	if r.Action != "" {
		filter.Filters["action"] = r.Action
	}
	return filter
}

func toAuditEntryResponses(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := AuditEntryResponse{
			ID:             e.ID.String(),
			Action:         string(e.Action),
			EntityType:     e.EntityType,
			EntityID:       e.EntityID,
			BeforeSnapshot: json.RawMessage(e.BeforeSnapshot),
			AfterSnapshot:  json.RawMessage(e.AfterSnapshot),
			ActorIP:        e.ActorIP,
			CreatedAt:      e.CreatedAt,
		}
		if e.ActorID != nil {
			id := e.ActorID.String()
			resp.ActorID = &id
		}
		out = append(out, resp)
	}
	return out
}
