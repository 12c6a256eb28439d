package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/agency/booking/internal/services"
)

// ExportHandler handles bulk export and import requests
type ExportHandler struct {
	exportService *services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export returns the full store as one JSON document
func (h *ExportHandler) Export(c *gin.Context) {
	doc, err := h.exportService.Export(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ImportRequest wraps a document with the clear flag
type ImportRequest struct {
	Clear    bool                     `json:"clear"`
	Document *services.ExportDocument `json:"document" binding:"required"`
}

// Import loads reference entities from a document
func (h *ExportHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.exportService.Import(c, req.Document, req.Clear, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// RegisterRoutes registers the handler's routes
func (h *ExportHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/export", h.Export)
	router.POST("/import", h.Import)
}
