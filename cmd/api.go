package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/agency/booking/internal/api"
	"example.com/agency/booking/internal/cache"
	"example.com/agency/booking/internal/database"
	"example.com/agency/booking/internal/services"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for events, catalogs, checklists and audit history`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := database.Connect(&cfg)
	if err != nil {
		return err
	}

	redisCache := cache.NewCache(&cfg)

	eventService := services.NewEventService(db)
	svcs := api.Services{
		Events:  eventService,
		Catalog: services.NewCatalogService(db, redisCache),
		Tasks:   services.NewTaskService(db),
		Audit:   services.NewAuditService(db, eventService),
		Export:  services.NewExportService(db),
	}

	server := api.NewServer(cfg, svcs)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
