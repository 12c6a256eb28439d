package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/cache"
)

func newCatalog(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewCatalogService(db, &cache.Cache{}), db
}

func TestSaveArtistValidatesName(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.SaveArtist(ctx, ArtistInput{}, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.SaveArtist(ctx, ArtistInput{Name: ptr("   ")}, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSaveArtistTrimsAndAudits(t *testing.T) {
	svc, db := newCatalog(t)
	ctx := context.Background()

	artist, err := svc.SaveArtist(ctx, ArtistInput{
		Name: ptr("  Luca Bianchi  "),
		Role: ptr("dj"),
	}, "anna")
	require.NoError(t, err)
	assert.Equal(t, "Luca Bianchi", artist.Name)
	assert.Equal(t, "dj", artist.Role)

	entries := auditEntries(t, db, "artist", artist.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)

	updated, err := svc.SaveArtist(ctx, ArtistInput{
		ID:    artist.ID,
		Phone: ptr("333 1234567"),
	}, "anna")
	require.NoError(t, err)
	assert.Equal(t, "Luca Bianchi", updated.Name)
	assert.Equal(t, "333 1234567", updated.Phone)

	entries = auditEntries(t, db, "artist", artist.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, "update", entries[1].Action)
}

func TestSaveArtistRejectsDuplicateName(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.SaveArtist(ctx, ArtistInput{Name: ptr("Luca Bianchi")}, "anna")
	require.NoError(t, err)

	_, err = svc.SaveArtist(ctx, ArtistInput{Name: ptr("Luca Bianchi")}, "anna")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestArtistsByRole(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.SaveArtist(ctx, ArtistInput{Name: ptr("Luca"), Role: ptr("dj")}, "anna")
	require.NoError(t, err)
	_, err = svc.SaveArtist(ctx, ArtistInput{Name: ptr("Sara"), Role: ptr("vocalist")}, "anna")
	require.NoError(t, err)

	djs, err := svc.ArtistsByRole(ctx, "dj")
	require.NoError(t, err)
	require.Len(t, djs, 1)
	assert.Equal(t, "Luca", djs[0].Name)
}

func TestDeleteArtist(t *testing.T) {
	svc, db := newCatalog(t)
	ctx := context.Background()

	artist, err := svc.SaveArtist(ctx, ArtistInput{Name: ptr("Luca")}, "anna")
	require.NoError(t, err)

	deleted, err := svc.DeleteArtist(ctx, artist.ID, "anna")
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := svc.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	entries := auditEntries(t, db, "artist", artist.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, "delete", entries[1].Action)

	deleted, err = svc.DeleteArtist(ctx, artist.ID, "anna")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestContactEntitiesRoundTrip(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	provider, err := svc.SaveService(ctx, ContactInput{
		Name:    ptr("Audio SRL"),
		Contact: ptr("Paolo"),
	}, "anna")
	require.NoError(t, err)
	assert.Equal(t, "Paolo", provider.Contact)

	promoter, err := svc.SavePromoter(ctx, ContactInput{
		Name:  ptr("Eventi Nord"),
		Email: ptr("info@eventinord.it"),
	}, "anna")
	require.NoError(t, err)
	assert.Equal(t, "info@eventinord.it", promoter.Email)

	manager, err := svc.SaveTourManager(ctx, ContactInput{Name: ptr("Davide")}, "anna")
	require.NoError(t, err)

	format, err := svc.SaveFormat(ctx, FormatInput{
		Name:        ptr("Notte Italiana"),
		Description: ptr("show serale"),
	}, "anna")
	require.NoError(t, err)

	services, err := svc.Services(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)

	promoters, err := svc.Promoters(ctx)
	require.NoError(t, err)
	assert.Len(t, promoters, 1)

	managers, err := svc.TourManagers(ctx)
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	formats, err := svc.Formats(ctx)
	require.NoError(t, err)
	require.Len(t, formats, 1)
	assert.Equal(t, "show serale", formats[0].Description)

	_, err = svc.DeleteService(ctx, provider.ID, "anna")
	require.NoError(t, err)
	_, err = svc.DeletePromoter(ctx, promoter.ID, "anna")
	require.NoError(t, err)
	_, err = svc.DeleteTourManager(ctx, manager.ID, "anna")
	require.NoError(t, err)
	_, err = svc.DeleteFormat(ctx, format.ID, "anna")
	require.NoError(t, err)
}

func TestUpdateMissingReferenceReturnsNil(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	artist, err := svc.SaveArtist(ctx, ArtistInput{ID: 99, Name: ptr("X")}, "anna")
	require.NoError(t, err)
	assert.Nil(t, artist)

	format, err := svc.SaveFormat(ctx, FormatInput{ID: 99, Name: ptr("X")}, "anna")
	require.NoError(t, err)
	assert.Nil(t, format)
}
