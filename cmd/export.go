package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"example.com/agency/booking/internal/database"
	"example.com/agency/booking/internal/services"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole store to a JSON file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "booking_export.json", "output file path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(&cfg)
	if err != nil {
		return err
	}

	return services.NewExportService(db).ExportToFile(context.Background(), exportOutput)
}
