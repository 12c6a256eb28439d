package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/agency/booking/config"
	"example.com/agency/booking/internal/api/handlers"
	"example.com/agency/booking/internal/api/middleware"
	"example.com/agency/booking/internal/services"
)

// Services bundles the application services the API serves
type Services struct {
	Events  *services.EventService
	Catalog *services.CatalogService
	Tasks   *services.TaskService
	Audit   *services.AuditService
	Export  *services.ExportService
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svcs Services) *Server {
	server := &Server{
		config:   cfg,
		services: svcs,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	handlers.NewEventHandler(s.services.Events, s.services.Tasks).RegisterRoutes(router)
	handlers.NewCatalogHandler(s.services.Catalog).RegisterRoutes(router)
	handlers.NewTaskHandler(s.services.Tasks).RegisterRoutes(router)
	handlers.NewAuditHandler(s.services.Audit).RegisterRoutes(router)
	handlers.NewExportHandler(s.services.Export).RegisterRoutes(router)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
