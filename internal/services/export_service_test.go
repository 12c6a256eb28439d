package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/agency/booking/internal/cache"
	"example.com/agency/booking/internal/models"
)

func TestExportCollectsEverything(t *testing.T) {
	db := newTestDB(t)
	events := NewEventService(db)
	tasks := NewTaskService(db)
	export := NewExportService(db)
	ctx := context.Background()

	audio := seedService(t, db, "Audio SRL")
	artist := seedArtist(t, db, "Marco Ferri", "artist")
	seedPromoter(t, db, "Eventi Nord")

	event, err := events.Save(ctx, models.EventInput{
		Date:       ptr(day(t, "2024-06-01")),
		Title:      ptr("Concerto"),
		ArtistIDs:  &[]uint{artist.ID},
		ServiceIDs: &[]uint{audio.ID},
	}, "anna")
	require.NoError(t, err)

	_, err = tasks.AddTask(ctx, TaskInput{EventID: event.ID, Title: ptr("Hotel")}, "anna")
	require.NoError(t, err)

	doc, err := export.Export(ctx)
	require.NoError(t, err)

	assert.Len(t, doc.Artists, 1)
	assert.Len(t, doc.Services, 1)
	assert.Len(t, doc.Promoters, 1)
	assert.Len(t, doc.Tasks, 1)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, "Concerto", doc.Events[0]["title"])
	assert.Equal(t, "2024-06-01", doc.Events[0]["date"])
	// Event create + task create
	assert.Len(t, doc.AuditLogs, 2)
}

func TestExportToFileAndImport(t *testing.T) {
	source := newTestDB(t)
	catalog := NewCatalogService(source, &cache.Cache{})
	ctx := context.Background()

	_, err := catalog.SaveArtist(ctx, ArtistInput{Name: ptr("Luca"), Role: ptr("dj")}, "anna")
	require.NoError(t, err)
	_, err = catalog.SaveService(ctx, ContactInput{Name: ptr("Audio SRL")}, "anna")
	require.NoError(t, err)
	_, err = catalog.SaveFormat(ctx, FormatInput{Name: ptr("Notte Italiana")}, "anna")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, NewExportService(source).ExportToFile(ctx, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ExportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Artists, 1)

	target := newTestDB(t)
	counts, err := NewExportService(target).ImportFromFile(ctx, path, false, "anna")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Artists)
	assert.Equal(t, 1, counts.Services)
	assert.Equal(t, 1, counts.Formats)

	var artist models.Artist
	require.NoError(t, target.First(&artist).Error)
	assert.Equal(t, "Luca", artist.Name)
	assert.Equal(t, "dj", artist.Role)
}

func TestImportCollisionFailsWithoutClear(t *testing.T) {
	db := newTestDB(t)
	export := NewExportService(db)
	ctx := context.Background()

	seedArtist(t, db, "Luca", "dj")

	doc := &ExportDocument{Artists: []models.Artist{{Name: "Luca"}}}
	_, err := export.Import(ctx, doc, false, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// With clear the import replaces the table
	counts, err := export.Import(ctx, doc, true, "anna")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Artists)

	var count int64
	require.NoError(t, db.Model(&models.Artist{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportIsAudited(t *testing.T) {
	db := newTestDB(t)
	export := NewExportService(db)
	ctx := context.Background()

	doc := &ExportDocument{Services: []models.Service{{Name: "Audio SRL"}}}
	_, err := export.Import(ctx, doc, false, "anna")
	require.NoError(t, err)

	entries := auditEntries(t, db, "store", 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "import", entries[0].Action)
	assert.Equal(t, "anna", entries[0].User)
}
