package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"example.com/agency/booking/internal/database"
	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load starter reference data and checklist templates",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(&cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	artists := []models.Artist{
		{Name: "Luca Bianchi", Role: "dj"},
		{Name: "Sara Conti", Role: "vocalist"},
		{Name: "Marco Ferri", Role: "artist"},
		{Name: "Giulia Riva", Role: "dancer"},
	}
	for i := range artists {
		if err := db.WithContext(ctx).
			Where(models.Artist{Name: artists[i].Name}).
			FirstOrCreate(&artists[i]).Error; err != nil {
			return err
		}
	}

	services := []models.Service{
		{Name: "Audio SRL", Contact: "Paolo"},
		{Name: "Luci Piemonte", Contact: "Anna"},
		{Name: "Palco Service", Contact: "Gigi"},
	}
	for i := range services {
		if err := db.WithContext(ctx).
			Where(models.Service{Name: services[i].Name}).
			FirstOrCreate(&services[i]).Error; err != nil {
			return err
		}
	}

	formats := []models.Format{
		{Name: "Notte Italiana", Description: "Show format with DJ and vocalist"},
		{Name: "Summer Tour", Description: "Open-air summer format"},
	}
	for i := range formats {
		if err := db.WithContext(ctx).
			Where(models.Format{Name: formats[i].Name}).
			FirstOrCreate(&formats[i]).Error; err != nil {
			return err
		}
	}

	promoters := []models.Promoter{
		{Name: "Eventi Nord", Contact: "Franco"},
	}
	for i := range promoters {
		if err := db.WithContext(ctx).
			Where(models.Promoter{Name: promoters[i].Name}).
			FirstOrCreate(&promoters[i]).Error; err != nil {
			return err
		}
	}

	managers := []models.TourManager{
		{Name: "Davide Rossi"},
	}
	for i := range managers {
		if err := db.WithContext(ctx).
			Where(models.TourManager{Name: managers[i].Name}).
			FirstOrCreate(&managers[i]).Error; err != nil {
			return err
		}
	}

	templates := repositories.NewTemplateRepository(db)
	eventTemplates := []models.EventTemplate{
		{
			Name: "format_checklist", Type: models.EventTypeFormat,
			Description:    "Standard format show checklist",
			RequiredFields: datatypes.JSON(`["dj_id","vocalist_id","hotel","staging"]`),
		},
		{
			Name: "artist_checklist", Type: models.EventTypeArtist,
			Description:    "Standard artist booking checklist",
			RequiredFields: datatypes.JSON(`["artist_ids","travel","porters"]`),
		},
	}
	for i := range eventTemplates {
		if err := db.WithContext(ctx).
			Where(models.EventTemplate{Name: eventTemplates[i].Name}).
			FirstOrCreate(&eventTemplates[i]).Error; err != nil {
			return err
		}
	}

	taskRows := []models.TaskTemplate{
		{TemplateName: "format_checklist", Title: "Confermare DJ", Description: "Verificare disponibilità e rider", OffsetDays: -7},
		{TemplateName: "format_checklist", Title: "Confermare Vocalist", Description: "Contattare vocalist e confermare set", OffsetDays: -7},
		{TemplateName: "format_checklist", Title: "Allestimenti", Description: "Verificare palco e luci", OffsetDays: -3},
		{TemplateName: "format_checklist", Title: "Hotel", Description: "Controllare prenotazioni hotel", OffsetDays: -3},
		{TemplateName: "artist_checklist", Title: "Rider tecnico", Description: "Inviare e confermare rider", OffsetDays: -7},
		{TemplateName: "artist_checklist", Title: "Facchini", Description: "Confermare numero facchini", OffsetDays: -3},
		{TemplateName: "artist_checklist", Title: "Trasporti", Description: "Organizzare van e viaggi", OffsetDays: -2},
	}
	for _, name := range []string{"format_checklist", "artist_checklist"} {
		existing, err := templates.ListTaskTemplatesFor(ctx, name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for i := range taskRows {
			if taskRows[i].TemplateName != name {
				continue
			}
			if err := templates.CreateTaskTemplate(ctx, &taskRows[i]); err != nil {
				return err
			}
		}
	}

	log.Info().Msg("Seed data loaded")
	return nil
}
