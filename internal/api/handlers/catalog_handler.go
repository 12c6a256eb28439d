package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/agency/booking/internal/services"
)

// CatalogHandler handles reference-entity HTTP requests
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) listArtists(c *gin.Context) {
	if role := c.Query("role"); role != "" {
		artists, err := h.catalogService.ArtistsByRole(c, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artists)
		return
	}
	artists, err := h.catalogService.Artists(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artists)
}

func (h *CatalogHandler) getArtist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	artist, err := h.catalogService.GetArtist(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if artist == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, artist)
}

func (h *CatalogHandler) createArtist(c *gin.Context) {
	var in services.ArtistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0
	artist, err := h.catalogService.SaveArtist(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, artist)
}

func (h *CatalogHandler) updateArtist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ArtistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id
	artist, err := h.catalogService.SaveArtist(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if artist == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, artist)
}

func (h *CatalogHandler) deleteArtist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.catalogService.DeleteArtist(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listServices(c *gin.Context) {
	services, err := h.catalogService.Services(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) getService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	svc, err := h.catalogService.GetService(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if svc == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) createService(c *gin.Context) {
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0
	svc, err := h.catalogService.SaveService(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) updateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id
	svc, err := h.catalogService.SaveService(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if svc == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) deleteService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.catalogService.DeleteService(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listFormats(c *gin.Context) {
	formats, err := h.catalogService.Formats(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formats)
}

func (h *CatalogHandler) getFormat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	format, err := h.catalogService.GetFormat(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if format == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, format)
}

func (h *CatalogHandler) createFormat(c *gin.Context) {
	var in services.FormatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0
	format, err := h.catalogService.SaveFormat(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, format)
}

func (h *CatalogHandler) updateFormat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.FormatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id
	format, err := h.catalogService.SaveFormat(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if format == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, format)
}

func (h *CatalogHandler) deleteFormat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.catalogService.DeleteFormat(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listPromoters(c *gin.Context) {
	promoters, err := h.catalogService.Promoters(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, promoters)
}

func (h *CatalogHandler) getPromoter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	promoter, err := h.catalogService.GetPromoter(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if promoter == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, promoter)
}

func (h *CatalogHandler) createPromoter(c *gin.Context) {
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0
	promoter, err := h.catalogService.SavePromoter(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promoter)
}

func (h *CatalogHandler) updatePromoter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id
	promoter, err := h.catalogService.SavePromoter(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if promoter == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, promoter)
}

func (h *CatalogHandler) deletePromoter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.catalogService.DeletePromoter(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) listTourManagers(c *gin.Context) {
	managers, err := h.catalogService.TourManagers(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

func (h *CatalogHandler) getTourManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	manager, err := h.catalogService.GetTourManager(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if manager == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *CatalogHandler) createTourManager(c *gin.Context) {
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0
	manager, err := h.catalogService.SaveTourManager(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, manager)
}

func (h *CatalogHandler) updateTourManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id
	manager, err := h.catalogService.SaveTourManager(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if manager == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *CatalogHandler) deleteTourManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.catalogService.DeleteTourManager(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	artists := router.Group("/artists")
	{
		artists.GET("", h.listArtists)
		artists.POST("", h.createArtist)
		artists.GET("/:id", h.getArtist)
		artists.PUT("/:id", h.updateArtist)
		artists.DELETE("/:id", h.deleteArtist)
	}

	providers := router.Group("/services")
	{
		providers.GET("", h.listServices)
		providers.POST("", h.createService)
		providers.GET("/:id", h.getService)
		providers.PUT("/:id", h.updateService)
		providers.DELETE("/:id", h.deleteService)
	}

	formats := router.Group("/formats")
	{
		formats.GET("", h.listFormats)
		formats.POST("", h.createFormat)
		formats.GET("/:id", h.getFormat)
		formats.PUT("/:id", h.updateFormat)
		formats.DELETE("/:id", h.deleteFormat)
	}

	promoters := router.Group("/promoters")
	{
		promoters.GET("", h.listPromoters)
		promoters.POST("", h.createPromoter)
		promoters.GET("/:id", h.getPromoter)
		promoters.PUT("/:id", h.updatePromoter)
		promoters.DELETE("/:id", h.deletePromoter)
	}

	managers := router.Group("/tour_managers")
	{
		managers.GET("", h.listTourManagers)
		managers.POST("", h.createTourManager)
		managers.GET("/:id", h.getTourManager)
		managers.PUT("/:id", h.updateTourManager)
		managers.DELETE("/:id", h.deleteTourManager)
	}
}
