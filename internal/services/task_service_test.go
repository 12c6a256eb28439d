package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

func newEventForTasks(t *testing.T, db *gorm.DB, date string) *models.Event {
	t.Helper()
	svc := NewEventService(db)
	event, err := svc.Save(context.Background(), models.EventInput{
		Date:  ptr(day(t, date)),
		Title: ptr("Evento"),
	}, "anna")
	require.NoError(t, err)
	return event
}

func TestGenerateFromFallbackTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")

	tasks, err := svc.GenerateFromTemplate(ctx, event.ID, "artist_checklist", "anna")
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	byTitle := map[string]models.Task{}
	for _, task := range tasks {
		require.NotNil(t, task.DueDate)
		byTitle[task.Title] = task
		assert.False(t, task.Done)
	}
	assert.Equal(t, "2024-07-03", byTitle["Rider tecnico"].DueDate.Format("2006-01-02"))
	assert.Equal(t, "2024-07-07", byTitle["Facchini"].DueDate.Format("2006-01-02"))
	assert.Equal(t, "2024-07-08", byTitle["Trasporti"].DueDate.Format("2006-01-02"))
	assert.Equal(t, "Inviare e confermare rider", byTitle["Rider tecnico"].Description)
	assert.Equal(t, "Confermare numero facchini", byTitle["Facchini"].Description)
	assert.Equal(t, "Organizzare van e viaggi", byTitle["Trasporti"].Description)

	entries := auditEntries(t, db, "task", tasks[0].ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "create_from_fallback_template", entries[0].Action)
}

func TestGenerateFormatChecklistDueDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")

	tasks, err := svc.GenerateFromTemplate(ctx, event.ID, "format_checklist", "anna")
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	byDate := map[string]int{}
	for _, task := range tasks {
		require.NotNil(t, task.DueDate)
		byDate[task.DueDate.Format("2006-01-02")]++
	}
	assert.Equal(t, map[string]int{"2024-07-03": 2, "2024-07-07": 2}, byDate)
}

func TestGenerateFromStoredTemplateWins(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")

	templates := repositories.NewTemplateRepository(db)
	require.NoError(t, templates.CreateTaskTemplate(ctx, &models.TaskTemplate{
		TemplateName: "format_checklist", Title: "Soundcheck",
		Description: "Verificare impianto e monitor", OffsetDays: -1,
	}))

	tasks, err := svc.GenerateFromTemplate(ctx, event.ID, "format_checklist", "anna")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Soundcheck", tasks[0].Title)
	assert.Equal(t, "Verificare impianto e monitor", tasks[0].Description)
	assert.Equal(t, "2024-07-09", tasks[0].DueDate.Format("2006-01-02"))

	entries := auditEntries(t, db, "task", tasks[0].ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "create_from_template", entries[0].Action)
}

func TestGenerateIsNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")

	_, err := svc.GenerateFromTemplate(ctx, event.ID, "format_checklist", "anna")
	require.NoError(t, err)
	_, err = svc.GenerateFromTemplate(ctx, event.ID, "format_checklist", "anna")
	require.NoError(t, err)

	tasks, err := svc.TasksForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 8)
}

func TestGenerateUnknownTemplateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	event := newEventForTasks(t, db, "2024-07-10")

	_, err := svc.GenerateFromTemplate(context.Background(), event.ID, "misterioso", "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestGenerateForMissingEventReturnsNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	tasks, err := svc.GenerateFromTemplate(context.Background(), 42, "format_checklist", "anna")
	require.NoError(t, err)
	assert.Nil(t, tasks)
}

func TestAddTaskValidatesEventAndTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	_, err := svc.AddTask(ctx, TaskInput{EventID: 1}, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	task, err := svc.AddTask(ctx, TaskInput{EventID: 42, Title: ptr("Orfano")}, "anna")
	require.NoError(t, err)
	assert.Nil(t, task)

	event := newEventForTasks(t, db, "2024-07-10")
	task, err = svc.AddTask(ctx, TaskInput{
		EventID:  event.ID,
		Title:    ptr("Chiamare il promoter"),
		Assignee: ptr("anna"),
		DueDate:  ptr(day(t, "2024-07-05")),
	}, "anna")
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "anna", task.Assignee)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-07-05", task.DueDate.Format("2006-01-02"))
}

func TestToggleTaskFlipsAndAudits(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")
	task, err := svc.AddTask(ctx, TaskInput{EventID: event.ID, Title: ptr("Hotel")}, "anna")
	require.NoError(t, err)

	toggled, err := svc.ToggleTask(ctx, task.ID, "anna")
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	toggled, err = svc.ToggleTask(ctx, task.ID, "anna")
	require.NoError(t, err)
	assert.False(t, toggled.Done)

	entries := auditEntries(t, db, "task", task.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, "toggle_done", entries[1].Action)
	assert.Equal(t, "toggle_done", entries[2].Action)
}

func TestTaskQueries(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")

	_, err := svc.AddTask(ctx, TaskInput{
		EventID: event.ID, Title: ptr("Per Anna"),
		Assignee: ptr("anna"), DueDate: ptr(day(t, "2024-07-05")),
	}, "anna")
	require.NoError(t, err)
	done, err := svc.AddTask(ctx, TaskInput{
		EventID: event.ID, Title: ptr("Fatto"),
		Assignee: ptr("anna"),
	}, "anna")
	require.NoError(t, err)
	_, err = svc.ToggleTask(ctx, done.ID, "anna")
	require.NoError(t, err)

	open, err := svc.TasksByAssignee(ctx, "anna", true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Per Anna", open[0].Title)

	all, err := svc.TasksByAssignee(ctx, "anna", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	due, err := svc.TasksByDueDate(ctx, day(t, "2024-07-05"))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Per Anna", due[0].Title)

	overdue, err := svc.OverdueTasks(ctx, day(t, "2024-07-06"))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Per Anna", overdue[0].Title)
}

func TestUpdateAndDeleteTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()

	event := newEventForTasks(t, db, "2024-07-10")
	task, err := svc.AddTask(ctx, TaskInput{EventID: event.ID, Title: ptr("Bozza")}, "anna")
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, TaskInput{
		ID:          task.ID,
		Title:       ptr("Definitivo"),
		Description: ptr("con dettagli"),
	}, "anna")
	require.NoError(t, err)
	assert.Equal(t, "Definitivo", updated.Title)
	assert.Equal(t, "con dettagli", updated.Description)

	missing, err := svc.UpdateTask(ctx, TaskInput{ID: 999, Title: ptr("X")}, "anna")
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := svc.DeleteTask(ctx, task.ID, "anna")
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
