package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/models"
)

// The reference-entity repositories below are intentionally uniform:
// artists, services, formats, promoters and tour managers share the
// same list / get / create / save / delete surface and no lifecycle
// coupling to events.

// ArtistRepository provides access to the artist roster
type ArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// List gets all artists ordered by name
func (r *ArtistRepository) List(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.WithContext(ctx).Order("name ASC").Find(&artists).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list artists")
	}
	return artists, nil
}

// ListByRole gets artists with one role (dj, vocalist, dancer, ...)
func (r *ArtistRepository) ListByRole(ctx context.Context, role string) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&artists).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list artists by role")
	}
	return artists, nil
}

// GetByID gets one artist, nil when missing
func (r *ArtistRepository) GetByID(ctx context.Context, id uint) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).First(&artist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get artist by ID")
	}
	return &artist, nil
}

// Create inserts a new artist
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(artist).Error, "failed to create artist")
}

// Save writes every column of an already-loaded artist
func (r *ArtistRepository) Save(ctx context.Context, artist *models.Artist) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(artist).Error, "failed to save artist")
}

// Delete removes one artist. Events referencing it keep their dangling
// id by design.
func (r *ArtistRepository) Delete(ctx context.Context, id uint) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&models.Artist{}, id).Error, "failed to delete artist")
}

// ServiceRepository provides access to technical providers
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List gets all services ordered by name
func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list services")
	}
	return services, nil
}

// GetByID gets one service, nil when missing
func (r *ServiceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get service by ID")
	}
	return &service, nil
}

// Create inserts a new service
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(service).Error, "failed to create service")
}

// Save writes every column of an already-loaded service
func (r *ServiceRepository) Save(ctx context.Context, service *models.Service) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(service).Error, "failed to save service")
}

// Delete removes one service
func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&models.Service{}, id).Error, "failed to delete service")
}

// FormatRepository provides access to format show concepts
type FormatRepository struct {
	db *gorm.DB
}

// NewFormatRepository creates a new format repository
func NewFormatRepository(db *gorm.DB) *FormatRepository {
	return &FormatRepository{db: db}
}

// List gets all formats ordered by name
func (r *FormatRepository) List(ctx context.Context) ([]models.Format, error) {
	var formats []models.Format
	err := r.db.WithContext(ctx).Order("name ASC").Find(&formats).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list formats")
	}
	return formats, nil
}

// GetByID gets one format, nil when missing
func (r *FormatRepository) GetByID(ctx context.Context, id uint) (*models.Format, error) {
	var format models.Format
	err := r.db.WithContext(ctx).First(&format, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get format by ID")
	}
	return &format, nil
}

// Create inserts a new format
func (r *FormatRepository) Create(ctx context.Context, format *models.Format) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(format).Error, "failed to create format")
}

// Save writes every column of an already-loaded format
func (r *FormatRepository) Save(ctx context.Context, format *models.Format) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(format).Error, "failed to save format")
}

// Delete removes one format
func (r *FormatRepository) Delete(ctx context.Context, id uint) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&models.Format{}, id).Error, "failed to delete format")
}

// PromoterRepository provides access to promoters
type PromoterRepository struct {
	db *gorm.DB
}

// NewPromoterRepository creates a new promoter repository
func NewPromoterRepository(db *gorm.DB) *PromoterRepository {
	return &PromoterRepository{db: db}
}

// List gets all promoters ordered by name
func (r *PromoterRepository) List(ctx context.Context) ([]models.Promoter, error) {
	var promoters []models.Promoter
	err := r.db.WithContext(ctx).Order("name ASC").Find(&promoters).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list promoters")
	}
	return promoters, nil
}

// GetByID gets one promoter, nil when missing
func (r *PromoterRepository) GetByID(ctx context.Context, id uint) (*models.Promoter, error) {
	var promoter models.Promoter
	err := r.db.WithContext(ctx).First(&promoter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get promoter by ID")
	}
	return &promoter, nil
}

// Create inserts a new promoter
func (r *PromoterRepository) Create(ctx context.Context, promoter *models.Promoter) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(promoter).Error, "failed to create promoter")
}

// Save writes every column of an already-loaded promoter
func (r *PromoterRepository) Save(ctx context.Context, promoter *models.Promoter) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(promoter).Error, "failed to save promoter")
}

// Delete removes one promoter
func (r *PromoterRepository) Delete(ctx context.Context, id uint) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&models.Promoter{}, id).Error, "failed to delete promoter")
}

// TourManagerRepository provides access to tour managers
type TourManagerRepository struct {
	db *gorm.DB
}

// NewTourManagerRepository creates a new tour manager repository
func NewTourManagerRepository(db *gorm.DB) *TourManagerRepository {
	return &TourManagerRepository{db: db}
}

// List gets all tour managers ordered by name
func (r *TourManagerRepository) List(ctx context.Context) ([]models.TourManager, error) {
	var managers []models.TourManager
	err := r.db.WithContext(ctx).Order("name ASC").Find(&managers).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tour managers")
	}
	return managers, nil
}

// GetByID gets one tour manager, nil when missing
func (r *TourManagerRepository) GetByID(ctx context.Context, id uint) (*models.TourManager, error) {
	var manager models.TourManager
	err := r.db.WithContext(ctx).First(&manager, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get tour manager by ID")
	}
	return &manager, nil
}

// Create inserts a new tour manager
func (r *TourManagerRepository) Create(ctx context.Context, manager *models.TourManager) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(manager).Error, "failed to create tour manager")
}

// Save writes every column of an already-loaded tour manager
func (r *TourManagerRepository) Save(ctx context.Context, manager *models.TourManager) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(manager).Error, "failed to save tour manager")
}

// Delete removes one tour manager
func (r *TourManagerRepository) Delete(ctx context.Context, id uint) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&models.TourManager{}, id).Error, "failed to delete tour manager")
}
