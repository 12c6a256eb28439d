package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/services"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService *services.EventService
	taskService  *services.TaskService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, taskService *services.TaskService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		taskService:  taskService,
	}
}

// ListEvents returns events in a date range, optionally filtered by
// type and status. A single "date" parameter narrows to one day.
func (h *EventHandler) ListEvents(c *gin.Context) {
	if day, ok, err := queryDate(c, "date"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	} else if ok {
		events, err := h.eventService.EventsByDate(c, day)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
		return
	}

	from, ok, err := queryDate(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	if !ok {
		from = models.DateOnly(time.Now())
	}
	to, ok, err := queryDate(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if !ok {
		to = from.AddDate(0, 1, 0)
	}

	events, err := h.eventService.EventsRange(c, from, to,
		models.EventType(c.Query("type")), models.EventStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent returns one event with its relations
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.eventService.GetEvent(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent creates an event from a partial input
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var in models.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = 0

	event, err := h.eventService.Save(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent applies a partial update to an existing event
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = id

	event, err := h.eventService.Save(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DuplicateEvent copies an event into a new draft
func (h *EventHandler) DuplicateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.eventService.Duplicate(c, id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// MoveDateRequest carries the target date for a move
type MoveDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// MoveEventDate moves an event and its assignments to a new date
func (h *EventHandler) MoveEventDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req MoveDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	event, err := h.eventService.MoveDate(c, id, day, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event with its tasks and assignments
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.eventService.Delete(c, id, currentUser(c))
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

// CheckConflicts reports which of the given services are already
// booked on a date.
func (h *EventHandler) CheckConflicts(c *gin.Context) {
	day, ok, err := queryDate(c, "date")
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	var serviceIDs []uint
	for _, part := range strings.Split(c.Query("service_ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_ids"})
			return
		}
		serviceIDs = append(serviceIDs, uint(id))
	}

	var exclude uint
	if raw := c.Query("exclude_event_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude_event_id"})
			return
		}
		exclude = uint(id)
	}

	conflicts, err := h.eventService.FindConflicts(c, day, serviceIDs, exclude)
	if err != nil {
		respondError(c, err)
		return
	}
	if conflicts == nil {
		conflicts = []uint{}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":        day.Format(dateLayout),
		"service_ids": conflicts,
	})
}

// UpcomingEvents returns events within the next N days (default 7)
func (h *EventHandler) UpcomingEvents(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}
	events, err := h.eventService.UpcomingEvents(c, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// EventsWithoutDJ returns format bookings in range still missing a DJ
func (h *EventHandler) EventsWithoutDJ(c *gin.Context) {
	h.rangeReport(c, h.eventService.EventsWithoutDJ)
}

// EventsWithoutPromoter returns events in range with no promoter
func (h *EventHandler) EventsWithoutPromoter(c *gin.Context) {
	h.rangeReport(c, h.eventService.EventsWithoutPromoter)
}

func (h *EventHandler) rangeReport(c *gin.Context, query func(ctx context.Context, from, to time.Time) ([]models.Event, error)) {
	from, ok, err := queryDate(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	if !ok {
		from = models.DateOnly(time.Now())
	}
	to, ok, err := queryDate(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if !ok {
		to = from.AddDate(0, 3, 0)
	}

	events, err := query(c, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListEventTasks returns an event's checklist
func (h *EventHandler) ListEventTasks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.eventService.GetEvent(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if event == nil {
		notFound(c)
		return
	}
	tasks, err := h.taskService.TasksForEvent(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// AddEventTask attaches a task to an event
func (h *EventHandler) AddEventTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.EventID = id

	task, err := h.taskService.AddTask(c, in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ChecklistRequest names the template to generate tasks from
type ChecklistRequest struct {
	Template string `json:"template" binding:"required"`
}

// GenerateChecklist creates an event's checklist from a template
func (h *EventHandler) GenerateChecklist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.taskService.GenerateFromTemplate(c, id, req.Template, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusCreated, tasks)
}

// RegisterRoutes registers the handler's routes
func (h *EventHandler) RegisterRoutes(router *gin.Engine) {
	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.POST("", h.CreateEvent)
		events.GET("/:id", h.GetEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/:id/duplicate", h.DuplicateEvent)
		events.POST("/:id/move_date", h.MoveEventDate)
		events.GET("/:id/tasks", h.ListEventTasks)
		events.POST("/:id/tasks", h.AddEventTask)
		events.POST("/:id/checklist", h.GenerateChecklist)
	}

	router.GET("/conflicts", h.CheckConflicts)

	reports := router.Group("/reports")
	{
		reports.GET("/upcoming", h.UpcomingEvents)
		reports.GET("/without_dj", h.EventsWithoutDJ)
		reports.GET("/without_promoter", h.EventsWithoutPromoter)
	}
}
