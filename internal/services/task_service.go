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

// TaskService manages per-event checklists: manual tasks and the ones
// generated from named templates.
type TaskService struct {
	db *gorm.DB
}

// NewTaskService creates a new task service
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// TaskInput carries the writable task fields; nil means unchanged
type TaskInput struct {
	ID          uint       `json:"id"`
	EventID     uint       `json:"event_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
	Done        *bool      `json:"done"`
}

// templateRow is one task definition with its due-date offset
type templateRow struct {
	title       string
	description string
	offsetDays  int
}

// fallbackTemplates are the built-in checklists used when no stored
// template rows exist under the requested name.
var fallbackTemplates = map[string][]templateRow{
	"format_checklist": {
		{"Confermare DJ", "Verificare disponibilità e rider", -7},
		{"Confermare Vocalist", "Contattare vocalist e confermare set", -7},
		{"Allestimenti", "Verificare palco e luci", -3},
		{"Hotel", "Controllare prenotazioni hotel", -3},
	},
	"artist_checklist": {
		{"Rider tecnico", "Inviare e confermare rider", -7},
		{"Facchini", "Confermare numero facchini", -3},
		{"Trasporti", "Organizzare van e viaggi", -2},
	},
}

// AddTask creates a task attached to an existing event. Returns nil
// without error when the event does not exist.
func (s *TaskService) AddTask(ctx context.Context, in TaskInput, user string) (*models.Task, error) {
	if in.Title == nil || *in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}

	var saved *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		tasks := repositories.NewTaskRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		ev, err := events.GetByID(ctx, in.EventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return errNotFound
		}

		task := &models.Task{EventID: in.EventID, Title: *in.Title}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Assignee != nil {
			task.Assignee = *in.Assignee
		}
		if in.DueDate != nil {
			due := models.DateOnly(*in.DueDate)
			task.DueDate = &due
		}
		if err := tasks.Create(ctx, task); err != nil {
			return err
		}

		if err := audit.Append(ctx, "task", task.ID, "create", taskSnapshot(task), user); err != nil {
			return err
		}
		saved = task
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log.Info().Uint("task_id", saved.ID).Uint("event_id", saved.EventID).Msg("Task created")
	return saved, nil
}

// UpdateTask applies the present fields of in to an existing task.
// Returns nil when the id does not exist.
func (s *TaskService) UpdateTask(ctx context.Context, in TaskInput, user string) (*models.Task, error) {
	var saved *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := repositories.NewTaskRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		task, err := tasks.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if task == nil {
			return errNotFound
		}
		before := taskSnapshot(task)

		if in.Title != nil {
			if *in.Title == "" {
				return &ValidationError{Field: "title", Reason: "required"}
			}
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Assignee != nil {
			task.Assignee = *in.Assignee
		}
		if in.DueDate != nil {
			due := models.DateOnly(*in.DueDate)
			task.DueDate = &due
		}
		if in.Done != nil {
			task.Done = *in.Done
		}
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}

		payload := map[string]any{"before": before, "after": taskSnapshot(task)}
		if err := audit.Append(ctx, "task", task.ID, "update", payload, user); err != nil {
			return err
		}
		saved = task
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return saved, nil
}

// ToggleTask flips a task's done flag. Returns nil when missing.
func (s *TaskService) ToggleTask(ctx context.Context, id uint, user string) (*models.Task, error) {
	var saved *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := repositories.NewTaskRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if task == nil {
			return errNotFound
		}

		task.Done = !task.Done
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}

		payload := map[string]any{"done": task.Done}
		if err := audit.Append(ctx, "task", task.ID, "toggle_done", payload, user); err != nil {
			return err
		}
		saved = task
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return saved, nil
}

// DeleteTask removes a task; false when the id does not exist
func (s *TaskService) DeleteTask(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := repositories.NewTaskRepository(tx)
		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if task == nil {
			return errNotFound
		}
		if err := tasks.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": taskSnapshot(task)}
		return repositories.NewAuditRepository(tx).Append(ctx, "task", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GenerateFromTemplate creates a checklist for an event from the named
// template. Stored template rows win; when none exist under that name
// the built-in fallback checklist is used. Generation is not
// idempotent: calling it twice produces duplicate tasks. Returns nil
// tasks when the event is missing and a ValidationError for a template
// name that is neither stored nor built in.
func (s *TaskService) GenerateFromTemplate(ctx context.Context, eventID uint, templateName, user string) ([]models.Task, error) {
	var created []models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := repositories.NewEventRepository(tx)
		templates := repositories.NewTemplateRepository(tx)
		tasks := repositories.NewTaskRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		ev, err := events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return errNotFound
		}

		rows, err := templates.ListTaskTemplatesFor(ctx, templateName)
		if err != nil {
			return err
		}

		action := "create_from_template"
		var defs []templateRow
		if len(rows) > 0 {
			for _, row := range rows {
				defs = append(defs, templateRow{title: row.Title, description: row.Description, offsetDays: row.OffsetDays})
			}
		} else {
			fallback, ok := fallbackTemplates[templateName]
			if !ok {
				return &ValidationError{Field: "template", Reason: "unknown template " + templateName}
			}
			action = "create_from_fallback_template"
			defs = fallback
		}

		for _, def := range defs {
			due := models.DateOnly(ev.Date.AddDate(0, 0, def.offsetDays))
			task := &models.Task{
				EventID:     eventID,
				Title:       def.title,
				Description: def.description,
				DueDate:     &due,
			}
			if err := tasks.Create(ctx, task); err != nil {
				return err
			}
			payload := map[string]any{"template": templateName, "after": taskSnapshot(task)}
			if err := audit.Append(ctx, "task", task.ID, action, payload, user); err != nil {
				return err
			}
			created = append(created, *task)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	log.Info().
		Uint("event_id", eventID).
		Str("template", templateName).
		Int("tasks", len(created)).
		Msg("Checklist generated")

	return created, nil
}

// Templates lists the stored event blueprints
func (s *TaskService) Templates(ctx context.Context) ([]models.EventTemplate, error) {
	return repositories.NewTemplateRepository(s.db).ListEventTemplates(ctx)
}

// TemplateTasks lists the stored task rows of one named checklist
func (s *TaskService) TemplateTasks(ctx context.Context, templateName string) ([]models.TaskTemplate, error) {
	return repositories.NewTemplateRepository(s.db).ListTaskTemplatesFor(ctx, templateName)
}

// SaveTemplate stores an event blueprint together with its checklist
// rows. Used by the seeding path and the templates endpoint.
func (s *TaskService) SaveTemplate(ctx context.Context, template *models.EventTemplate, rows []models.TaskTemplate) error {
	if template.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		templates := repositories.NewTemplateRepository(tx)
		if err := templates.CreateEventTemplate(ctx, template); err != nil {
			return err
		}
		for i := range rows {
			rows[i].TemplateName = template.Name
			if err := templates.CreateTaskTemplate(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if isDuplicateKey(err) {
		return &ValidationError{Field: "name", Reason: "already exists"}
	}
	return err
}

// GetTask returns one task or nil when missing
func (s *TaskService) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return repositories.NewTaskRepository(s.db).GetByID(ctx, id)
}

// TasksForEvent lists an event's checklist, open items first
func (s *TaskService) TasksForEvent(ctx context.Context, eventID uint) ([]models.Task, error) {
	return repositories.NewTaskRepository(s.db).ListForEvent(ctx, eventID)
}

// TasksByDueDate lists tasks due on one calendar date
func (s *TaskService) TasksByDueDate(ctx context.Context, date time.Time) ([]models.Task, error) {
	return repositories.NewTaskRepository(s.db).ListByDueDate(ctx, date)
}

// TasksByAssignee lists tasks for one assignee, optionally open only
func (s *TaskService) TasksByAssignee(ctx context.Context, assignee string, onlyOpen bool) ([]models.Task, error) {
	return repositories.NewTaskRepository(s.db).ListByAssignee(ctx, assignee, onlyOpen)
}

// OverdueTasks lists open tasks whose due date has passed as of asOf
func (s *TaskService) OverdueTasks(ctx context.Context, asOf time.Time) ([]models.Task, error) {
	return repositories.NewTaskRepository(s.db).ListOverdue(ctx, asOf)
}

func taskSnapshot(t *models.Task) map[string]any {
	snap := map[string]any{
		"event_id":    t.EventID,
		"title":       t.Title,
		"description": t.Description,
		"assignee":    t.Assignee,
		"done":        t.Done,
	}
	if t.DueDate != nil {
		snap["due_date"] = t.DueDate.Format("2006-01-02")
	} else {
		snap["due_date"] = nil
	}
	return snap
}
