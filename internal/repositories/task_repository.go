package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

// TaskRepository provides access to checklist tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID gets one task, nil when missing
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get task by ID")
	}
	return &task, nil
}

// ListForEvent gets the event's tasks, open ones first
func (r *TaskRepository) ListForEvent(ctx context.Context, eventID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("done ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks for event")
	}
	return tasks, nil
}

// ListByDueDate gets tasks due on one calendar date
func (r *TaskRepository) ListByDueDate(ctx context.Context, date time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("due_date = ?", models.DateOnly(date)).
		Order("done ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks by due date")
	}
	return tasks, nil
}

// ListByAssignee gets tasks assigned to one person, optionally only
// the open ones.
func (r *TaskRepository) ListByAssignee(ctx context.Context, assignee string, onlyOpen bool) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Where("assignee = ?", assignee)
	if onlyOpen {
		q = q.Where("done = ?", false)
	}

	var tasks []models.Task
	if err := q.Order("due_date ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tasks by assignee")
	}
	return tasks, nil
}

// ListOverdue gets open tasks whose due date has passed
func (r *TaskRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("done = ? AND due_date IS NOT NULL AND due_date < ?", false, models.DateOnly(asOf)).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list overdue tasks")
	}
	return tasks, nil
}

// ListAll gets every task, for the bulk export
func (r *TaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all tasks")
	}
	return tasks, nil
}

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return errors.Wrap(err, "failed to create task")
	}
	return nil
}

// Save writes every column of an already-loaded task
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return errors.Wrap(err, "failed to save task")
	}
	return nil
}

// Delete removes one task
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
	return errors.Wrap(err, "failed to delete task")
}

// DeleteForEvent removes every task belonging to the event
func (r *TaskRepository) DeleteForEvent(ctx context.Context, eventID uint) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.Task{}).Error
	return errors.Wrap(err, "failed to delete tasks for event")
}
