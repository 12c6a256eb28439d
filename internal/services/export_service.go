package services

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

// ExportService dumps the whole store to a JSON document and loads
// reference data back from one.
type ExportService struct {
	db *gorm.DB
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// ExportDocument is the bulk JSON shape. Events are flattened to the
// same field maps the audit log stores. Importing restores reference
// entities only: event rows in the document are kept for inspection
// and for the audit trail, not replayed.
type ExportDocument struct {
	ExportedAt   time.Time            `json:"exported_at"`
	Artists      []models.Artist      `json:"artists"`
	Services     []models.Service     `json:"services"`
	Formats      []models.Format      `json:"formats"`
	Promoters    []models.Promoter    `json:"promoters"`
	TourManagers []models.TourManager `json:"tour_managers"`
	Events       []map[string]any     `json:"events"`
	Tasks        []models.Task        `json:"tasks"`
	AuditLogs    []models.AuditLog    `json:"audit_logs"`
}

// Export assembles the full document from the store
func (s *ExportService) Export(ctx context.Context) (*ExportDocument, error) {
	doc := &ExportDocument{ExportedAt: time.Now().UTC()}
	var err error

	if doc.Artists, err = repositories.NewArtistRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if doc.Services, err = repositories.NewServiceRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if doc.Formats, err = repositories.NewFormatRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if doc.Promoters, err = repositories.NewPromoterRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if doc.TourManagers, err = repositories.NewTourManagerRepository(s.db).List(ctx); err != nil {
		return nil, err
	}

	events, err := repositories.NewEventRepository(s.db).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	doc.Events = make([]map[string]any, 0, len(events))
	for i := range events {
		doc.Events = append(doc.Events, events[i].Snapshot())
	}

	if doc.Tasks, err = repositories.NewTaskRepository(s.db).ListAll(ctx); err != nil {
		return nil, err
	}
	if doc.AuditLogs, err = repositories.NewAuditRepository(s.db).ListAllAscending(ctx); err != nil {
		return nil, err
	}

	return doc, nil
}

// ExportToFile writes the document as indented JSON
func (s *ExportService) ExportToFile(ctx context.Context, path string) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode export document")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, "failed to write export file")
	}

	log.Info().
		Str("path", path).
		Int("events", len(doc.Events)).
		Int("artists", len(doc.Artists)).
		Msg("Export written")

	return nil
}

// ImportCounts reports how many reference rows an import created
type ImportCounts struct {
	Artists      int `json:"artists"`
	Services     int `json:"services"`
	Formats      int `json:"formats"`
	Promoters    int `json:"promoters"`
	TourManagers int `json:"tour_managers"`
}

// Import loads the reference entities of a document, keeping their
// ids. With clearExisting the reference tables are emptied first;
// otherwise rows colliding on id or name fail the whole import. One
// audit entry records the operation.
func (s *ExportService) Import(ctx context.Context, doc *ExportDocument, clearExisting bool, user string) (*ImportCounts, error) {
	counts := &ImportCounts{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearExisting {
			for _, model := range []any{
				&models.Artist{},
				&models.Service{},
				&models.Format{},
				&models.Promoter{},
				&models.TourManager{},
			} {
				if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
					return errors.Wrap(err, "failed to clear reference table")
				}
			}
		}

		for i := range doc.Artists {
			row := doc.Artists[i]
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "failed to import artist")
			}
			counts.Artists++
		}
		for i := range doc.Services {
			row := doc.Services[i]
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "failed to import service")
			}
			counts.Services++
		}
		for i := range doc.Formats {
			row := doc.Formats[i]
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "failed to import format")
			}
			counts.Formats++
		}
		for i := range doc.Promoters {
			row := doc.Promoters[i]
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "failed to import promoter")
			}
			counts.Promoters++
		}
		for i := range doc.TourManagers {
			row := doc.TourManagers[i]
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "failed to import tour manager")
			}
			counts.TourManagers++
		}

		payload := map[string]any{"cleared": clearExisting, "counts": counts}
		return repositories.NewAuditRepository(tx).Append(ctx, "store", 0, "import", payload, user)
	})

	if err != nil {
		if isDuplicateKey(err) {
			return nil, &ValidationError{Field: "document", Reason: "conflicts with existing rows"}
		}
		return nil, err
	}

	log.Info().
		Bool("cleared", clearExisting).
		Int("artists", counts.Artists).
		Int("services", counts.Services).
		Str("user", user).
		Msg("Import completed")

	return counts, nil
}

// ImportFromFile reads a document from path and imports it
func (s *ExportService) ImportFromFile(ctx context.Context, path string, clearExisting bool, user string) (*ImportCounts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read import file")
	}
	var doc ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode import file")
	}
	return s.Import(ctx, &doc, clearExisting, user)
}
