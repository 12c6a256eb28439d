package repositories

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

// AuditRepository provides append and query access to the audit trail.
// Appends run on whatever handle the repository was built over, so a
// mutation's audit entry commits or rolls back with the mutation.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append records one mutation. A failed append is a hard error: the
// caller's transaction must abort rather than commit unaudited.
func (r *AuditRepository) Append(ctx context.Context, entity string, entityID uint, action string, payload any, user string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal audit payload")
	}
	entry := models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Payload:  raw,
		User:     user,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.Wrap(err, "failed to append audit entry")
	}
	return nil
}

// GetByID gets one audit entry, nil when missing
func (r *AuditRepository) GetByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	var entry models.AuditLog
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get audit entry")
	}
	return &entry, nil
}

// List gets entries most recent first, optionally narrowed to an
// entity kind and id (zero values mean no filter).
func (r *AuditRepository) List(ctx context.Context, entity string, entityID uint, limit int) ([]models.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{}).Order("ts DESC, id DESC")
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []models.AuditLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// ListAllAscending gets the full trail oldest first, for the export
func (r *AuditRepository) ListAllAscending(ctx context.Context) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).Order("ts ASC, id ASC").Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit trail")
	}
	return entries, nil
}
