package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

// EventService owns the event lifecycle and the consistency between an
// event and its per-date service assignments. Every mutating method
// runs as one transaction covering the event write, the assignment
// rewrite and the audit append.
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Save upserts an event from a partial input. Fields absent from the
// input keep their stored value. When the input carries service ids,
// conflicting services abort the whole save and the returned
// ConflictError names them. Returns nil when an update addresses a
// missing id.
func (s *EventService) Save(ctx context.Context, in models.EventInput, user string) (*models.Event, error) {
	var (
		savedID     uint
		attemptDate time.Time
		attemptIDs  []uint
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		assignments := repositories.NewAssignmentRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		var ev *models.Event
		action := "create"
		before := map[string]any{}

		if in.ID != 0 {
			action = "update"
			loaded, err := events.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			ev = loaded
			before = ev.Snapshot()
		} else {
			if in.Date == nil {
				return &ValidationError{Field: "date", Reason: "required"}
			}
			ev = &models.Event{Type: models.EventTypeArtist, Status: models.StatusDraft}
		}

		if in.Status != nil && !in.Status.IsValid() {
			return &ValidationError{Field: "status", Reason: "unknown value"}
		}
		if in.Type != nil && *in.Type != models.EventTypeArtist && *in.Type != models.EventTypeFormat {
			return &ValidationError{Field: "type", Reason: "unknown value"}
		}

		dateChanged := in.Date != nil && in.ID != 0 && !models.DateOnly(*in.Date).Equal(ev.Date)
		applyEventInput(ev, in)

		if in.ID == 0 {
			if err := events.Create(ctx, ev); err != nil {
				return err
			}
		} else {
			if err := events.Save(ctx, ev); err != nil {
				return err
			}
		}

		if in.ArtistIDs != nil {
			if err := events.ReplaceArtists(ctx, ev, *in.ArtistIDs); err != nil {
				return err
			}
		}
		if in.DancerIDs != nil {
			if err := events.ReplaceDancers(ctx, ev.ID, *in.DancerIDs); err != nil {
				return err
			}
		}
		if in.MascotIDs != nil {
			if err := events.ReplaceMascots(ctx, ev.ID, *in.MascotIDs); err != nil {
				return err
			}
		}

		switch {
		case in.ServiceIDs != nil:
			attemptDate, attemptIDs = ev.Date, *in.ServiceIDs
			conflicts, err := assignments.FindConflicts(ctx, ev.Date, *in.ServiceIDs, ev.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &ConflictError{Date: ev.Date, ServiceIDs: conflicts}
			}
			if err := events.ReplaceServices(ctx, ev, *in.ServiceIDs); err != nil {
				return err
			}
			if err := assignments.ReplaceForEvent(ctx, ev.ID, *in.ServiceIDs, ev.Date); err != nil {
				return err
			}
		case dateChanged:
			// The service set is untouched but the date moved, so the
			// event's existing claims must follow it or the save must
			// fail as a whole.
			rows, err := assignments.ListForEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				ids := make([]uint, 0, len(rows))
				for _, row := range rows {
					ids = append(ids, row.ServiceID)
				}
				attemptDate, attemptIDs = ev.Date, ids
				conflicts, err := assignments.FindConflicts(ctx, ev.Date, ids, ev.ID)
				if err != nil {
					return err
				}
				if len(conflicts) > 0 {
					return &ConflictError{Date: ev.Date, ServiceIDs: conflicts}
				}
				if err := assignments.MoveDateForEvent(ctx, ev.ID, ev.Date); err != nil {
					return err
				}
			}
		}

		saved, err := events.GetByID(ctx, ev.ID)
		if err != nil {
			return err
		}
		payload := map[string]any{"before": before, "after": saved.Snapshot()}
		if err := audit.Append(ctx, "event", ev.ID, action, payload, user); err != nil {
			return err
		}

		savedID = ev.ID
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		if isDuplicateKey(err) {
			// Lost the race for a (service, date) pair between our
			// pre-check and the commit; report it as the conflict it is.
			return nil, &ConflictError{Date: attemptDate, ServiceIDs: attemptIDs}
		}
		return nil, err
	}

	log.Info().
		Uint("event_id", savedID).
		Str("user", user).
		Msg("Event saved")

	return s.GetEvent(ctx, savedID)
}

// Duplicate copies an event into a new draft on the same date. Scalar
// fields and relations carry over; the title gains a copy marker.
// Service assignments are copied best-effort: a claim already taken on
// that date is skipped silently rather than failing the duplication.
func (s *EventService) Duplicate(ctx context.Context, eventID uint, user string) (*models.Event, error) {
	var newID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		assignments := repositories.NewAssignmentRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		src, err := events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if src == nil {
			return errNotFound
		}

		dup := &models.Event{
			Date:          src.Date,
			Title:         src.Title + " (Copia)",
			Location:      src.Location,
			Type:          src.Type,
			Status:        models.StatusDraft,
			Notes:         src.Notes,
			FormatID:      src.FormatID,
			PromoterID:    src.PromoterID,
			TourManagerID: src.TourManagerID,
			Van:           src.Van,
			Travel:        src.Travel,
			Hotel:         src.Hotel,
			Staging:       src.Staging,
			Porters:       src.Porters,
			Deposit:       src.Deposit,
			Balance:       src.Balance,
			DJID:          src.DJID,
			VocalistID:    src.VocalistID,
		}
		if err := events.Create(ctx, dup); err != nil {
			return err
		}

		artistIDs := make([]uint, 0, len(src.Artists))
		for _, a := range src.Artists {
			artistIDs = append(artistIDs, a.ID)
		}
		serviceIDs := make([]uint, 0, len(src.Services))
		for _, sv := range src.Services {
			serviceIDs = append(serviceIDs, sv.ID)
		}
		dancerIDs := make([]uint, 0, len(src.Dancers))
		for _, d := range src.Dancers {
			dancerIDs = append(dancerIDs, d.ArtistID)
		}
		mascotIDs := make([]uint, 0, len(src.Mascots))
		for _, m := range src.Mascots {
			mascotIDs = append(mascotIDs, m.ArtistID)
		}

		if err := events.ReplaceArtists(ctx, dup, artistIDs); err != nil {
			return err
		}
		if err := events.ReplaceServices(ctx, dup, serviceIDs); err != nil {
			return err
		}
		if err := events.ReplaceDancers(ctx, dup.ID, dancerIDs); err != nil {
			return err
		}
		if err := events.ReplaceMascots(ctx, dup.ID, mascotIDs); err != nil {
			return err
		}

		srcAssignments, err := assignments.ListForEvent(ctx, src.ID)
		if err != nil {
			return err
		}
		for _, sa := range srcAssignments {
			row := models.ServiceAssignment{
				EventID:   dup.ID,
				ServiceID: sa.ServiceID,
				Date:      dup.Date,
			}
			if err := assignments.CreateSkipConflict(ctx, &row); err != nil {
				return err
			}
		}

		saved, err := events.GetByID(ctx, dup.ID)
		if err != nil {
			return err
		}
		payload := map[string]any{"source_event": src.ID, "after": saved.Snapshot()}
		if err := audit.Append(ctx, "event", dup.ID, "create", payload, user); err != nil {
			return err
		}

		newID = dup.ID
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log.Info().
		Uint("source_event_id", eventID).
		Uint("event_id", newID).
		Str("user", user).
		Msg("Event duplicated")

	return s.GetEvent(ctx, newID)
}

// MoveDate moves an event and all its service assignments to a new
// date, or fails entirely when any assigned service is already taken.
func (s *EventService) MoveDate(ctx context.Context, eventID uint, newDate time.Time, user string) (*models.Event, error) {
	day := models.DateOnly(newDate)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		assignments := repositories.NewAssignmentRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		ev, err := events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return errNotFound
		}
		oldDate := ev.Date

		rows, err := assignments.ListForEvent(ctx, eventID)
		if err != nil {
			return err
		}
		serviceIDs := make([]uint, 0, len(rows))
		for _, row := range rows {
			serviceIDs = append(serviceIDs, row.ServiceID)
		}

		conflicts, err := assignments.FindConflicts(ctx, day, serviceIDs, eventID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Date: day, ServiceIDs: conflicts}
		}

		ev.Date = day
		if err := events.Save(ctx, ev); err != nil {
			return err
		}
		if err := assignments.MoveDateForEvent(ctx, eventID, day); err != nil {
			return err
		}

		payload := map[string]any{
			"before": map[string]any{"date": oldDate.Format("2006-01-02")},
			"after":  map[string]any{"date": day.Format("2006-01-02")},
		}
		return audit.Append(ctx, "event", eventID, "move_date", payload, user)
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log.Info().
		Uint("event_id", eventID).
		Str("date", day.Format("2006-01-02")).
		Str("user", user).
		Msg("Event moved")

	return s.GetEvent(ctx, eventID)
}

// Delete removes an event together with its tasks and assignments.
// Returns false when the event does not exist.
func (s *EventService) Delete(ctx context.Context, eventID uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		assignments := repositories.NewAssignmentRepository(tx)
		tasks := repositories.NewTaskRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		ev, err := events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return errNotFound
		}

		if err := tasks.DeleteForEvent(ctx, eventID); err != nil {
			return err
		}
		if err := assignments.DeleteForEvent(ctx, eventID); err != nil {
			return err
		}
		if err := events.ReplaceArtists(ctx, ev, nil); err != nil {
			return err
		}
		if err := events.ReplaceServices(ctx, ev, nil); err != nil {
			return err
		}
		if err := events.ReplaceDancers(ctx, eventID, nil); err != nil {
			return err
		}
		if err := events.ReplaceMascots(ctx, eventID, nil); err != nil {
			return err
		}
		if err := events.Delete(ctx, eventID); err != nil {
			return err
		}

		payload := map[string]any{"id": eventID, "before": ev.Snapshot()}
		return audit.Append(ctx, "event", eventID, "delete", payload, user)
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}

	log.Info().
		Uint("event_id", eventID).
		Str("user", user).
		Msg("Event deleted")

	return true, nil
}

// FindConflicts returns the subset of serviceIDs already claimed on
// date by an event other than excludeEventID. Read-only.
func (s *EventService) FindConflicts(ctx context.Context, date time.Time, serviceIDs []uint, excludeEventID uint) ([]uint, error) {
	return repositories.NewAssignmentRepository(s.db).
		FindConflicts(ctx, date, serviceIDs, excludeEventID)
}

// GetEvent gets one event with relations resolved, nil when missing
func (s *EventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	return repositories.NewEventRepository(s.db).GetByID(ctx, id)
}

// EventsByDate gets all events on one calendar date
func (s *EventService) EventsByDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	return repositories.NewEventRepository(s.db).ListByDate(ctx, date)
}

// EventsRange gets events in an inclusive range, optionally narrowed
// by type and status.
func (s *EventService) EventsRange(ctx context.Context, from, to time.Time, eventType models.EventType, status models.EventStatus) ([]models.Event, error) {
	return repositories.NewEventRepository(s.db).ListRange(ctx, from, to, eventType, status)
}

// UpcomingEvents gets events from today through today+days
func (s *EventService) UpcomingEvents(ctx context.Context, days int) ([]models.Event, error) {
	return repositories.NewEventRepository(s.db).Upcoming(ctx, days)
}

// EventsWithoutDJ gets format bookings in range still missing a DJ
func (s *EventService) EventsWithoutDJ(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return repositories.NewEventRepository(s.db).WithoutDJ(ctx, from, to)
}

// EventsWithoutPromoter gets events in range with no promoter attached
func (s *EventService) EventsWithoutPromoter(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return repositories.NewEventRepository(s.db).WithoutPromoter(ctx, from, to)
}

// applyEventInput copies the present fields of in onto ev
func applyEventInput(ev *models.Event, in models.EventInput) {
	if in.Date != nil {
		ev.Date = models.DateOnly(*in.Date)
	}
	if in.Title != nil {
		ev.Title = *in.Title
	}
	if in.Location != nil {
		ev.Location = *in.Location
	}
	if in.Type != nil {
		ev.Type = *in.Type
	}
	if in.Status != nil {
		ev.Status = *in.Status
	}
	if in.Notes != nil {
		ev.Notes = *in.Notes
	}
	if in.FormatID.Set {
		ev.FormatID = in.FormatID.Value
	}
	if in.PromoterID.Set {
		ev.PromoterID = in.PromoterID.Value
	}
	if in.TourManagerID.Set {
		ev.TourManagerID = in.TourManagerID.Value
	}
	if in.Van != nil {
		ev.Van = *in.Van
	}
	if in.Travel != nil {
		ev.Travel = *in.Travel
	}
	if in.Hotel != nil {
		ev.Hotel = *in.Hotel
	}
	if in.Staging != nil {
		ev.Staging = *in.Staging
	}
	if in.Porters != nil {
		ev.Porters = *in.Porters
	}
	if in.Deposit.Set {
		ev.Deposit = in.Deposit.Value
	}
	if in.Balance.Set {
		ev.Balance = in.Balance.Value
	}
	if in.DJID.Set {
		ev.DJID = in.DJID.Value
	}
	if in.VocalistID.Set {
		ev.VocalistID = in.VocalistID.Value
	}
}
