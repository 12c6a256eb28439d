package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/services"
)

// TaskHandler handles checklist HTTP requests not scoped to an event
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks filters tasks by assignee or due date
func (h *TaskHandler) ListTasks(c *gin.Context) {
	if assignee := c.Query("assignee"); assignee != "" {
		onlyOpen := c.Query("open") == "true"
		tasks, err := h.taskService.TasksByAssignee(c, assignee, onlyOpen)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
		return
	}

	day, ok, err := queryDate(c, "due")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee or due is required"})
		return
	}
	tasks, err := h.taskService.TasksByDueDate(c, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask returns one task
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id

	task, err := h.taskService.UpdateTask(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleTask flips a task's done flag
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := h.taskService.ToggleTask(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.taskService.DeleteTask(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTemplates returns the stored event blueprints
func (h *TaskHandler) ListTemplates(c *gin.Context) {
	templates, err := h.taskService.Templates(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ListTemplateTasks returns the task rows of one named checklist
func (h *TaskHandler) ListTemplateTasks(c *gin.Context) {
	rows, err := h.taskService.TemplateTasks(c, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TemplateRequest carries a blueprint with its checklist rows
type TemplateRequest struct {
	Template models.EventTemplate  `json:"template" binding:"required"`
	Tasks    []models.TaskTemplate `json:"tasks"`
}

// CreateTemplate stores an event blueprint with its checklist rows
func (h *TaskHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.taskService.SaveTemplate(c, &req.Template, req.Tasks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req.Template)
}

// RegisterRoutes registers the handler's routes
func (h *TaskHandler) RegisterRoutes(router *gin.Engine) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/toggle", h.ToggleTask)
	}

	templates := router.Group("/templates")
	{
		templates.GET("", h.ListTemplates)
		templates.POST("", h.CreateTemplate)
		templates.GET("/:name/tasks", h.ListTemplateTasks)
	}
}
