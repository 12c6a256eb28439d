package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/agency/booking/internal/database"
	"example.com/agency/booking/internal/services"
)

var importClear bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import reference entities from a JSON export",
	Long:  `Import artists, services, formats, promoters and tour managers from a JSON export. Event rows in the document are not replayed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importClear, "clear", false, "empty the reference tables before importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(&cfg)
	if err != nil {
		return err
	}

	counts, err := services.NewExportService(db).
		ImportFromFile(context.Background(), args[0], importClear, "cli")
	if err != nil {
		return err
	}

	log.Info().
		Int("artists", counts.Artists).
		Int("services", counts.Services).
		Int("formats", counts.Formats).
		Int("promoters", counts.Promoters).
		Int("tour_managers", counts.TourManagers).
		Msg("Import finished")

	return nil
}
