package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/agency/booking/internal/services"
)

// AuditHandler exposes the change history
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListEntries returns audit entries newest first, filtered by entity
// and entity id when given.
func (h *AuditHandler) ListEntries(c *gin.Context) {
	var entityID uint
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity_id"})
			return
		}
		entityID = uint(id)
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.auditService.Query(c, c.Query("entity"), entityID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RestoreEvent replays the event snapshot held by an audit entry
func (h *AuditHandler) RestoreEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.auditService.RestoreEvent(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, event)
}

// RegisterRoutes registers the handler's routes
func (h *AuditHandler) RegisterRoutes(router *gin.Engine) {
	audit := router.Group("/audit")
	{
		audit.GET("", h.ListEntries)
		audit.POST("/:id/restore", h.RestoreEvent)
	}
}
