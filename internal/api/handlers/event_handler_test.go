package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "booking.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))

	router := gin.New()
	eventService := services.NewEventService(db)
	taskService := services.NewTaskService(db)
	NewEventHandler(eventService, taskService).RegisterRoutes(router)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", "anna")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetEvent(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":   "2024-06-01T00:00:00Z",
		"title":  "Notte Italiana",
		"status": "confermato",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Notte Italiana", created.Title)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/events/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/events/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEventMissingDateIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{"title": "Senza data"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictReturns409WithServiceIDs(t *testing.T) {
	router, db := newTestRouter(t)

	audio := models.Service{Name: "Audio SRL"}
	require.NoError(t, db.Create(&audio).Error)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":        "2024-06-01T00:00:00Z",
		"title":       "Evento A",
		"service_ids": []uint{audio.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":        "2024-06-01T00:00:00Z",
		"title":       "Evento B",
		"service_ids": []uint{audio.ID},
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Date       string `json:"date"`
		ServiceIDs []uint `json:"service_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-01", body.Date)
	assert.Equal(t, []uint{audio.ID}, body.ServiceIDs)
}

func TestConflictProbe(t *testing.T) {
	router, db := newTestRouter(t)

	audio := models.Service{Name: "Audio SRL"}
	require.NoError(t, db.Create(&audio).Error)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":        "2024-06-01T00:00:00Z",
		"title":       "Evento",
		"service_ids": []uint{audio.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/conflicts?date=2024-06-01&service_ids=%d", audio.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ServiceIDs []uint `json:"service_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []uint{audio.ID}, body.ServiceIDs)
}

func TestMoveDateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":  "2024-06-01T00:00:00Z",
		"title": "Evento",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/events/%d/move_date", created.ID), gin.H{"date": "2024-06-10"})
	require.Equal(t, http.StatusOK, w.Code)

	var moved models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	assert.Equal(t, "2024-06-10", moved.Date.Format("2006-01-02"))
}

func TestChecklistEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/events", gin.H{
		"date":  "2024-07-10T00:00:00Z",
		"title": "Evento",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/events/%d/checklist", created.ID), gin.H{"template": "format_checklist"})
	require.Equal(t, http.StatusCreated, w.Code)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 4)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/events/%d/tasks", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
}
