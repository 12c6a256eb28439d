package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"example.com/agency/booking/internal/models"
)

// AssignmentRepository provides access to per-date service claims
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindConflicts returns the subset of serviceIDs already claimed for
// date by an event other than excludeEventID (0 excludes nothing).
// Pure query; the unique index on (service_id, date) remains the final
// arbiter when two saves race past this check.
func (r *AssignmentRepository) FindConflicts(ctx context.Context, date time.Time, serviceIDs []uint, excludeEventID uint) ([]uint, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Model(&models.ServiceAssignment{}).
		Where("service_id IN ? AND date = ?", serviceIDs, models.DateOnly(date))
	if excludeEventID != 0 {
		q = q.Where("event_id <> ?", excludeEventID)
	}

	var taken []uint
	if err := q.Pluck("service_id", &taken).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query service conflicts")
	}

	busy := make(map[uint]bool, len(taken))
	for _, id := range taken {
		busy[id] = true
	}

	// Preserve the caller's order in the conflict list
	var conflicts []uint
	for _, id := range serviceIDs {
		if busy[id] {
			conflicts = append(conflicts, id)
		}
	}
	return conflicts, nil
}

// ListForEvent gets all assignments held by one event
func (r *AssignmentRepository) ListForEvent(ctx context.Context, eventID uint) ([]models.ServiceAssignment, error) {
	var rows []models.ServiceAssignment
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("service_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignments for event")
	}
	return rows, nil
}

// ReplaceForEvent discards the event's assignments and rewrites them
// for the given services at the given date.
func (r *AssignmentRepository) ReplaceForEvent(ctx context.Context, eventID uint, serviceIDs []uint, date time.Time) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("event_id = ?", eventID).Delete(&models.ServiceAssignment{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear assignments for event")
	}
	day := models.DateOnly(date)
	for _, sid := range serviceIDs {
		row := models.ServiceAssignment{EventID: eventID, ServiceID: sid, Date: day}
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "failed to create service assignment")
		}
	}
	return nil
}

// CreateSkipConflict inserts one assignment, silently skipping the row
// when the (service, date) pair is already claimed. Used by event
// duplication, which is best-effort by contract.
func (r *AssignmentRepository) CreateSkipConflict(ctx context.Context, row *models.ServiceAssignment) error {
	row.Date = models.DateOnly(row.Date)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	return errors.Wrap(err, "failed to copy service assignment")
}

// MoveDateForEvent redates every assignment held by the event
func (r *AssignmentRepository) MoveDateForEvent(ctx context.Context, eventID uint, date time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.ServiceAssignment{}).
		Where("event_id = ?", eventID).
		Update("date", models.DateOnly(date)).Error
	return errors.Wrap(err, "failed to move assignment dates")
}

// DeleteForEvent removes every assignment held by the event
func (r *AssignmentRepository) DeleteForEvent(ctx context.Context, eventID uint) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.ServiceAssignment{}).Error
	return errors.Wrap(err, "failed to delete assignments for event")
}
