package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/repositories"
)

// ReminderService produces the periodic digest the worker logs:
// events coming up and checklist items past due.
type ReminderService struct {
	db *gorm.DB
}

// NewReminderService creates a new reminder service
func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// Sweep logs upcoming events within horizonDays and every open task
// whose due date has passed.
func (s *ReminderService) Sweep(ctx context.Context, horizonDays int) error {
	events := repositories.NewEventRepository(s.db)
	tasks := repositories.NewTaskRepository(s.db)

	upcoming, err := events.Upcoming(ctx, horizonDays)
	if err != nil {
		return err
	}
	for _, ev := range upcoming {
		log.Info().
			Uint("event_id", ev.ID).
			Str("date", ev.Date.Format("2006-01-02")).
			Str("title", ev.Title).
			Str("status", string(ev.Status)).
			Msg("Upcoming event")
	}

	overdue, err := tasks.ListOverdue(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, task := range overdue {
		entry := log.Warn().
			Uint("task_id", task.ID).
			Uint("event_id", task.EventID).
			Str("title", task.Title)
		if task.Assignee != "" {
			entry = entry.Str("assignee", task.Assignee)
		}
		if task.DueDate != nil {
			entry = entry.Str("due_date", task.DueDate.Format("2006-01-02"))
		}
		entry.Msg("Task overdue")
	}

	log.Info().
		Int("upcoming_events", len(upcoming)).
		Int("overdue_tasks", len(overdue)).
		Msg("Reminder sweep completed")

	return nil
}
