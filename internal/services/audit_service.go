package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

// AuditService reads the append-only change history and can replay an
// event snapshot out of it.
type AuditService struct {
	db     *gorm.DB
	events *EventService
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB, events *EventService) *AuditService {
	return &AuditService{db: db, events: events}
}

// Query lists audit entries newest first. Empty entity matches all
// entities, zero entityID matches all rows of the entity, zero limit
// means no limit.
func (s *AuditService) Query(ctx context.Context, entity string, entityID uint, limit int) ([]models.AuditLog, error) {
	return repositories.NewAuditRepository(s.db).List(ctx, entity, entityID, limit)
}

// GetEntry returns one audit entry or nil when missing
func (s *AuditService) GetEntry(ctx context.Context, id uint) (*models.AuditLog, error) {
	return repositories.NewAuditRepository(s.db).GetByID(ctx, id)
}

// eventSnapshot reads an audit snapshot back into a save input. The
// outer Date shadows the input's time field because snapshots store
// dates as plain "2006-01-02" strings.
type eventSnapshot struct {
	models.EventInput
	Date *string `json:"date"`
}

// RestoreEvent replays the event state captured in an audit entry: the
// "after" snapshot, or the "before" one for delete entries. The entry
// must belong to an event. The replay runs through the normal save
// path, so it re-checks service conflicts and is itself audited. When
// the event no longer exists it is recreated under a fresh id.
func (s *AuditService) RestoreEvent(ctx context.Context, entryID uint, user string) (*models.Event, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	if entry.Entity != "event" {
		return nil, &ValidationError{Field: "entry", Reason: "not an event entry"}
	}

	var payload struct {
		Before json.RawMessage `json:"before"`
		After  json.RawMessage `json:"after"`
	}
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode audit payload")
	}

	raw := payload.After
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		raw = payload.Before
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return nil, &ValidationError{Field: "entry", Reason: "no snapshot to restore"}
	}

	var snap eventSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to decode event snapshot")
	}
	in := snap.EventInput
	if snap.Date != nil {
		day, err := time.Parse("2006-01-02", *snap.Date)
		if err != nil {
			return nil, errors.Wrap(err, "invalid snapshot date")
		}
		in.Date = &day
	}

	in.ID = entry.EntityID
	restored, err := s.events.Save(ctx, in, user)
	if err != nil {
		return nil, err
	}
	if restored == nil {
		// Event was deleted since; recreate it from the snapshot.
		in.ID = 0
		restored, err = s.events.Save(ctx, in, user)
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Uint("entry_id", entryID).
		Uint("event_id", restored.ID).
		Str("user", user).
		Msg("Event restored from audit entry")

	return restored, nil
}
