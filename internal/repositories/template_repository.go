package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

// TemplateRepository provides access to event and task templates
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListEventTemplates gets all event blueprints ordered by name
func (r *TemplateRepository) ListEventTemplates(ctx context.Context) ([]models.EventTemplate, error) {
	var templates []models.EventTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&templates).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list event templates")
	}
	return templates, nil
}

// CreateEventTemplate inserts a new event blueprint
func (r *TemplateRepository) CreateEventTemplate(ctx context.Context, template *models.EventTemplate) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(template).Error, "failed to create event template")
}

// ListTaskTemplatesFor gets the checklist rows of one named template,
// ordered by offset so earlier deadlines come first.
func (r *TemplateRepository) ListTaskTemplatesFor(ctx context.Context, templateName string) ([]models.TaskTemplate, error) {
	var rows []models.TaskTemplate
	err := r.db.WithContext(ctx).
		Where("template_name = ?", templateName).
		Order("offset_days ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list task templates")
	}
	return rows, nil
}

// CreateTaskTemplate inserts one checklist row
func (r *TemplateRepository) CreateTaskTemplate(ctx context.Context, row *models.TaskTemplate) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(row).Error, "failed to create task template")
}
