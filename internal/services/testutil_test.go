package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"example.com/agency/booking/internal/models"
)

// newTestDB opens a throwaway sqlite store in the test's temp dir.
// The busy timeout keeps concurrent writers waiting instead of
// failing, which the conflict tests rely on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "booking.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))
	return db
}

func seedArtist(t *testing.T, db *gorm.DB, name, role string) models.Artist {
	t.Helper()
	artist := models.Artist{Name: name, Role: role}
	require.NoError(t, db.Create(&artist).Error)
	return artist
}

func seedService(t *testing.T, db *gorm.DB, name string) models.Service {
	t.Helper()
	svc := models.Service{Name: name}
	require.NoError(t, db.Create(&svc).Error)
	return svc
}

func seedPromoter(t *testing.T, db *gorm.DB, name string) models.Promoter {
	t.Helper()
	promoter := models.Promoter{Name: name}
	require.NoError(t, db.Create(&promoter).Error)
	return promoter
}

// day parses a "2006-01-02" literal used throughout the tests
func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func ptr[T any](v T) *T {
	return &v
}

func assignmentCount(t *testing.T, db *gorm.DB, eventID uint) int {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.ServiceAssignment{}).
		Where("event_id = ?", eventID).Count(&count).Error)
	return int(count)
}

func auditEntries(t *testing.T, db *gorm.DB, entity string, entityID uint) []models.AuditLog {
	t.Helper()
	var entries []models.AuditLog
	require.NoError(t, db.
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("id ASC").
		Find(&entries).Error)
	return entries
}
