package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

// EventRepository provides access to event data. Construct it over a
// transaction handle to take part in an enclosing transaction.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// eager preloads the relations read paths must resolve up front, so
// callers never fall back to per-item lookups.
func (r *EventRepository) eager(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Artists").
		Preload("Services").
		Preload("Dancers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Mascots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// GetByID gets one event with its relations resolved. Returns nil when
// the id does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.eager(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get event by ID")
	}
	return &event, nil
}

// ListByDate gets all events on one calendar date
func (r *EventRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.eager(ctx).
		Where("date = ?", models.DateOnly(date)).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events by date")
	}
	return events, nil
}

// ListRange gets all events in an inclusive date range, optionally
// filtered by type and status (empty means any).
func (r *EventRepository) ListRange(ctx context.Context, from, to time.Time, eventType models.EventType, status models.EventStatus) ([]models.Event, error) {
	q := r.eager(ctx).
		Where("date >= ? AND date <= ?", models.DateOnly(from), models.DateOnly(to))
	if eventType != "" {
		q = q.Where("type = ?", eventType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var events []models.Event
	if err := q.Order("date ASC").Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list events in range")
	}
	return events, nil
}

// Upcoming gets events from today through today+days inclusive
func (r *EventRepository) Upcoming(ctx context.Context, days int) ([]models.Event, error) {
	today := models.DateOnly(time.Now())
	return r.ListRange(ctx, today, today.AddDate(0, 0, days), "", "")
}

// WithoutDJ gets events in range that still have no DJ booked
func (r *EventRepository) WithoutDJ(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.eager(ctx).
		Where("date >= ? AND date <= ? AND dj_id IS NULL", models.DateOnly(from), models.DateOnly(to)).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events without DJ")
	}
	return events, nil
}

// WithoutPromoter gets events in range that have no promoter attached
func (r *EventRepository) WithoutPromoter(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.eager(ctx).
		Where("date >= ? AND date <= ? AND promoter_id IS NULL", models.DateOnly(from), models.DateOnly(to)).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events without promoter")
	}
	return events, nil
}

// ListAll gets every event, ordered by date, without relations. Used
// by the bulk export together with the association id queries below.
func (r *EventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.eager(ctx).Order("date ASC, id ASC").Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all events")
	}
	return events, nil
}

// Create inserts a new event row
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return errors.Wrap(err, "failed to create event")
	}
	return nil
}

// Save writes every column of an already-loaded event row
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	err := r.db.WithContext(ctx).
		Omit("Artists", "Services", "Dancers", "Mascots").
		Save(event).Error
	if err != nil {
		return errors.Wrap(err, "failed to save event")
	}
	return nil
}

// Delete removes the event row itself. Tasks and assignments are the
// caller's responsibility; EventService deletes all three in one
// transaction.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Event{}, id).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete event")
	}
	return nil
}

// ReplaceArtists swaps the event's artist set for the given ids.
// Unknown ids are dropped rather than failing the save.
func (r *EventRepository) ReplaceArtists(ctx context.Context, event *models.Event, artistIDs []uint) error {
	var artists []models.Artist
	if len(artistIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", artistIDs).Find(&artists).Error; err != nil {
			return errors.Wrap(err, "failed to load artists")
		}
	}
	refs := make([]any, 0, len(artists))
	for i := range artists {
		refs = append(refs, &artists[i])
	}
	err := r.db.WithContext(ctx).Model(event).Association("Artists").Replace(refs...)
	return errors.Wrap(err, "failed to replace event artists")
}

// ReplaceServices swaps the event's service set for the given ids
func (r *EventRepository) ReplaceServices(ctx context.Context, event *models.Event, serviceIDs []uint) error {
	var services []models.Service
	if len(serviceIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", serviceIDs).Find(&services).Error; err != nil {
			return errors.Wrap(err, "failed to load services")
		}
	}
	refs := make([]any, 0, len(services))
	for i := range services {
		refs = append(refs, &services[i])
	}
	err := r.db.WithContext(ctx).Model(event).Association("Services").Replace(refs...)
	return errors.Wrap(err, "failed to replace event services")
}

// ReplaceDancers rewrites the ordered dancer line-up
func (r *EventRepository) ReplaceDancers(ctx context.Context, eventID uint, artistIDs []uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventDancer{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear event dancers")
	}
	for i, id := range artistIDs {
		row := models.EventDancer{EventID: eventID, ArtistID: id, Position: i}
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "failed to add event dancer")
		}
	}
	return nil
}

// ReplaceMascots rewrites the ordered mascot line-up
func (r *EventRepository) ReplaceMascots(ctx context.Context, eventID uint, artistIDs []uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventMascot{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear event mascots")
	}
	for i, id := range artistIDs {
		row := models.EventMascot{EventID: eventID, ArtistID: id, Position: i}
		if err := tx.Create(&row).Error; err != nil {
			return errors.Wrap(err, "failed to add event mascot")
		}
	}
	return nil
}
