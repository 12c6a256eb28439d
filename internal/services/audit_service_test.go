package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

func newAudit(t *testing.T) (*AuditService, *EventService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	events := NewEventService(db)
	return NewAuditService(db, events), events, db
}

func TestQueryFiltersAndOrders(t *testing.T) {
	audit, events, _ := newAudit(t)
	ctx := context.Background()

	first, err := events.Save(ctx, models.EventInput{
		Date:  ptr(day(t, "2024-06-01")),
		Title: ptr("Primo"),
	}, "anna")
	require.NoError(t, err)

	_, err = events.Save(ctx, models.EventInput{
		ID:     first.ID,
		Status: ptr(models.StatusConfirmed),
	}, "marco")
	require.NoError(t, err)

	_, err = events.Save(ctx, models.EventInput{
		Date:  ptr(day(t, "2024-06-02")),
		Title: ptr("Secondo"),
	}, "anna")
	require.NoError(t, err)

	all, err := audit.Query(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forFirst, err := audit.Query(ctx, "event", first.ID, 0)
	require.NoError(t, err)
	require.Len(t, forFirst, 2)
	// Newest first
	assert.Equal(t, "update", forFirst[0].Action)
	assert.Equal(t, "marco", forFirst[0].User)
	assert.Equal(t, "create", forFirst[1].Action)

	limited, err := audit.Query(ctx, "event", first.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "update", limited[0].Action)
}

func TestRestoreEventRollsBackUpdate(t *testing.T) {
	audit, events, db := newAudit(t)
	ctx := context.Background()

	created, err := events.Save(ctx, models.EventInput{
		Date:     ptr(day(t, "2024-06-01")),
		Title:    ptr("Titolo originale"),
		Location: ptr("Torino"),
		Deposit:  models.NullableOf(500.0),
	}, "anna")
	require.NoError(t, err)

	_, err = events.Save(ctx, models.EventInput{
		ID:       created.ID,
		Title:    ptr("Titolo cambiato"),
		Location: ptr("Milano"),
		Deposit:  models.NullableClear[float64](),
	}, "anna")
	require.NoError(t, err)

	// The create entry's "after" snapshot holds the original state
	entries := auditEntries(t, db, "event", created.ID)
	require.Len(t, entries, 2)

	restored, err := audit.RestoreEvent(ctx, entries[0].ID, "anna")
	require.NoError(t, err)
	require.NotNil(t, restored)

	assert.Equal(t, created.ID, restored.ID)
	assert.Equal(t, "Titolo originale", restored.Title)
	assert.Equal(t, "Torino", restored.Location)
	assert.Equal(t, "2024-06-01", restored.Date.Format("2006-01-02"))
	require.NotNil(t, restored.Deposit)
	assert.Equal(t, 500.0, *restored.Deposit)

	// The restore itself is audited
	entries = auditEntries(t, db, "event", created.ID)
	assert.Len(t, entries, 3)
}

func TestRestoreEventAfterDeleteRecreates(t *testing.T) {
	audit, events, db := newAudit(t)
	ctx := context.Background()

	created, err := events.Save(ctx, models.EventInput{
		Date:  ptr(day(t, "2024-06-01")),
		Title: ptr("Cancellando"),
	}, "anna")
	require.NoError(t, err)

	deleted, err := events.Delete(ctx, created.ID, "anna")
	require.NoError(t, err)
	require.True(t, deleted)

	entries := auditEntries(t, db, "event", created.ID)
	require.Len(t, entries, 2)
	deleteEntry := entries[1]
	require.Equal(t, "delete", deleteEntry.Action)

	restored, err := audit.RestoreEvent(ctx, deleteEntry.ID, "anna")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.NotEqual(t, created.ID, restored.ID)
	assert.Equal(t, "Cancellando", restored.Title)
	assert.Equal(t, "2024-06-01", restored.Date.Format("2006-01-02"))
}

func TestRestoreRejectsNonEventEntry(t *testing.T) {
	db := newTestDB(t)
	events := NewEventService(db)
	audit := NewAuditService(db, events)

	entry := models.AuditLog{Entity: "artist", EntityID: 1, Action: "create", Payload: []byte(`{}`)}
	require.NoError(t, db.Create(&entry).Error)

	_, err := audit.RestoreEvent(context.Background(), entry.ID, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestRestoreMissingEntryReturnsNil(t *testing.T) {
	audit, _, _ := newAudit(t)

	restored, err := audit.RestoreEvent(context.Background(), 12345, "anna")
	require.NoError(t, err)
	assert.Nil(t, restored)
}
