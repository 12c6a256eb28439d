package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/agency/booking/internal/cache"
	"example.com/agency/booking/internal/models"
	"example.com/agency/booking/internal/repositories"
)

// CatalogService manages the reference entities events point at:
// artists, services, formats, promoters and tour managers. Listings go
// through the cache; every mutation invalidates the entity's listing
// and appends an audit entry in the same transaction.
type CatalogService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB, c *cache.Cache) *CatalogService {
	return &CatalogService{db: db, cache: c}
}

// ArtistInput carries the writable artist fields; nil means unchanged
type ArtistInput struct {
	ID    uint    `json:"id"`
	Name  *string `json:"name"`
	Role  *string `json:"role"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

// ContactInput carries the writable fields shared by services,
// promoters and tour managers.
type ContactInput struct {
	ID      uint    `json:"id"`
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

// FormatInput carries the writable format fields
type FormatInput struct {
	ID          uint    `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

// requireName validates and normalizes a name field on create/update
func requireName(current string, in *string, creating bool) (string, error) {
	if in == nil {
		if creating {
			return "", &ValidationError{Field: "name", Reason: "required"}
		}
		return current, nil
	}
	name := strings.TrimSpace(*in)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "required"}
	}
	return name, nil
}

func nameTaken(err error) error {
	if isDuplicateKey(err) {
		return &ValidationError{Field: "name", Reason: "already exists"}
	}
	return err
}

// Artists lists the roster ordered by name
func (s *CatalogService) Artists(ctx context.Context) ([]models.Artist, error) {
	key := cache.CatalogKey("artist")
	var cached []models.Artist
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	artists, err := repositories.NewArtistRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, artists)
	return artists, nil
}

// ArtistsByRole lists artists with a given role, e.g. "dj"
func (s *CatalogService) ArtistsByRole(ctx context.Context, role string) ([]models.Artist, error) {
	return repositories.NewArtistRepository(s.db).ListByRole(ctx, role)
}

// GetArtist returns one artist or nil when missing
func (s *CatalogService) GetArtist(ctx context.Context, id uint) (*models.Artist, error) {
	return repositories.NewArtistRepository(s.db).GetByID(ctx, id)
}

// SaveArtist upserts an artist. A blank or colliding name is rejected
// with a ValidationError; an update of a missing id returns nil.
func (s *CatalogService) SaveArtist(ctx context.Context, in ArtistInput, user string) (*models.Artist, error) {
	var saved *models.Artist

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewArtistRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		artist := &models.Artist{Role: "artist"}
		action := "create"
		before := map[string]any{}
		if in.ID != 0 {
			action = "update"
			loaded, err := repo.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			artist = loaded
			before = map[string]any{
				"name": artist.Name, "role": artist.Role,
				"phone": artist.Phone, "email": artist.Email, "notes": artist.Notes,
			}
		}

		name, err := requireName(artist.Name, in.Name, in.ID == 0)
		if err != nil {
			return err
		}
		artist.Name = name
		if in.Role != nil {
			artist.Role = *in.Role
		}
		if in.Phone != nil {
			artist.Phone = *in.Phone
		}
		if in.Email != nil {
			artist.Email = *in.Email
		}
		if in.Notes != nil {
			artist.Notes = *in.Notes
		}

		if in.ID == 0 {
			err = repo.Create(ctx, artist)
		} else {
			err = repo.Save(ctx, artist)
		}
		if err != nil {
			return nameTaken(err)
		}

		after := map[string]any{
			"name": artist.Name, "role": artist.Role,
			"phone": artist.Phone, "email": artist.Email, "notes": artist.Notes,
		}
		if err := audit.Append(ctx, "artist", artist.ID, action, map[string]any{"before": before, "after": after}, user); err != nil {
			return err
		}
		saved = artist
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.Delete(ctx, cache.CatalogKey("artist"))
	log.Info().Uint("artist_id", saved.ID).Str("user", user).Msg("Artist saved")
	return saved, nil
}

// DeleteArtist removes an artist; false when the id does not exist
func (s *CatalogService) DeleteArtist(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewArtistRepository(tx)
		artist, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if artist == nil {
			return errNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": map[string]any{"name": artist.Name, "role": artist.Role}}
		return repositories.NewAuditRepository(tx).Append(ctx, "artist", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Delete(ctx, cache.CatalogKey("artist"))
	return true, nil
}

// Services lists the providers ordered by name
func (s *CatalogService) Services(ctx context.Context) ([]models.Service, error) {
	key := cache.CatalogKey("service")
	var cached []models.Service
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	services, err := repositories.NewServiceRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, services)
	return services, nil
}

// GetService returns one service or nil when missing
func (s *CatalogService) GetService(ctx context.Context, id uint) (*models.Service, error) {
	return repositories.NewServiceRepository(s.db).GetByID(ctx, id)
}

// SaveService upserts a service provider
func (s *CatalogService) SaveService(ctx context.Context, in ContactInput, user string) (*models.Service, error) {
	var saved *models.Service

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewServiceRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		svc := &models.Service{}
		action := "create"
		before := map[string]any{}
		if in.ID != 0 {
			action = "update"
			loaded, err := repo.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			svc = loaded
			before = contactSnapshot(svc.Name, svc.Contact, svc.Phone, "", svc.Notes)
		}

		name, err := requireName(svc.Name, in.Name, in.ID == 0)
		if err != nil {
			return err
		}
		svc.Name = name
		if in.Contact != nil {
			svc.Contact = *in.Contact
		}
		if in.Phone != nil {
			svc.Phone = *in.Phone
		}
		if in.Notes != nil {
			svc.Notes = *in.Notes
		}

		if in.ID == 0 {
			err = repo.Create(ctx, svc)
		} else {
			err = repo.Save(ctx, svc)
		}
		if err != nil {
			return nameTaken(err)
		}

		after := contactSnapshot(svc.Name, svc.Contact, svc.Phone, "", svc.Notes)
		if err := audit.Append(ctx, "service", svc.ID, action, map[string]any{"before": before, "after": after}, user); err != nil {
			return err
		}
		saved = svc
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.Delete(ctx, cache.CatalogKey("service"))
	log.Info().Uint("service_id", saved.ID).Str("user", user).Msg("Service saved")
	return saved, nil
}

// DeleteService removes a provider; false when the id does not exist
func (s *CatalogService) DeleteService(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewServiceRepository(tx)
		svc, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return errNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": map[string]any{"name": svc.Name}}
		return repositories.NewAuditRepository(tx).Append(ctx, "service", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Delete(ctx, cache.CatalogKey("service"))
	return true, nil
}

// Formats lists the show formats ordered by name
func (s *CatalogService) Formats(ctx context.Context) ([]models.Format, error) {
	key := cache.CatalogKey("format")
	var cached []models.Format
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	formats, err := repositories.NewFormatRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, formats)
	return formats, nil
}

// GetFormat returns one format or nil when missing
func (s *CatalogService) GetFormat(ctx context.Context, id uint) (*models.Format, error) {
	return repositories.NewFormatRepository(s.db).GetByID(ctx, id)
}

// SaveFormat upserts a show format
func (s *CatalogService) SaveFormat(ctx context.Context, in FormatInput, user string) (*models.Format, error) {
	var saved *models.Format

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewFormatRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		format := &models.Format{}
		action := "create"
		before := map[string]any{}
		if in.ID != 0 {
			action = "update"
			loaded, err := repo.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			format = loaded
			before = map[string]any{"name": format.Name, "description": format.Description, "notes": format.Notes}
		}

		name, err := requireName(format.Name, in.Name, in.ID == 0)
		if err != nil {
			return err
		}
		format.Name = name
		if in.Description != nil {
			format.Description = *in.Description
		}
		if in.Notes != nil {
			format.Notes = *in.Notes
		}

		if in.ID == 0 {
			err = repo.Create(ctx, format)
		} else {
			err = repo.Save(ctx, format)
		}
		if err != nil {
			return nameTaken(err)
		}

		after := map[string]any{"name": format.Name, "description": format.Description, "notes": format.Notes}
		if err := audit.Append(ctx, "format", format.ID, action, map[string]any{"before": before, "after": after}, user); err != nil {
			return err
		}
		saved = format
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.Delete(ctx, cache.CatalogKey("format"))
	log.Info().Uint("format_id", saved.ID).Str("user", user).Msg("Format saved")
	return saved, nil
}

// DeleteFormat removes a format; false when the id does not exist
func (s *CatalogService) DeleteFormat(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewFormatRepository(tx)
		format, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if format == nil {
			return errNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": map[string]any{"name": format.Name}}
		return repositories.NewAuditRepository(tx).Append(ctx, "format", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Delete(ctx, cache.CatalogKey("format"))
	return true, nil
}

// Promoters lists the promoters ordered by name
func (s *CatalogService) Promoters(ctx context.Context) ([]models.Promoter, error) {
	key := cache.CatalogKey("promoter")
	var cached []models.Promoter
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	promoters, err := repositories.NewPromoterRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, promoters)
	return promoters, nil
}

// GetPromoter returns one promoter or nil when missing
func (s *CatalogService) GetPromoter(ctx context.Context, id uint) (*models.Promoter, error) {
	return repositories.NewPromoterRepository(s.db).GetByID(ctx, id)
}

// SavePromoter upserts a promoter
func (s *CatalogService) SavePromoter(ctx context.Context, in ContactInput, user string) (*models.Promoter, error) {
	var saved *models.Promoter

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewPromoterRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		promoter := &models.Promoter{}
		action := "create"
		before := map[string]any{}
		if in.ID != 0 {
			action = "update"
			loaded, err := repo.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			promoter = loaded
			before = contactSnapshot(promoter.Name, promoter.Contact, promoter.Phone, promoter.Email, promoter.Notes)
		}

		name, err := requireName(promoter.Name, in.Name, in.ID == 0)
		if err != nil {
			return err
		}
		promoter.Name = name
		if in.Contact != nil {
			promoter.Contact = *in.Contact
		}
		if in.Phone != nil {
			promoter.Phone = *in.Phone
		}
		if in.Email != nil {
			promoter.Email = *in.Email
		}
		if in.Notes != nil {
			promoter.Notes = *in.Notes
		}

		if in.ID == 0 {
			err = repo.Create(ctx, promoter)
		} else {
			err = repo.Save(ctx, promoter)
		}
		if err != nil {
			return nameTaken(err)
		}

		after := contactSnapshot(promoter.Name, promoter.Contact, promoter.Phone, promoter.Email, promoter.Notes)
		if err := audit.Append(ctx, "promoter", promoter.ID, action, map[string]any{"before": before, "after": after}, user); err != nil {
			return err
		}
		saved = promoter
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.Delete(ctx, cache.CatalogKey("promoter"))
	log.Info().Uint("promoter_id", saved.ID).Str("user", user).Msg("Promoter saved")
	return saved, nil
}

// DeletePromoter removes a promoter; false when the id does not exist
func (s *CatalogService) DeletePromoter(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewPromoterRepository(tx)
		promoter, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if promoter == nil {
			return errNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": map[string]any{"name": promoter.Name}}
		return repositories.NewAuditRepository(tx).Append(ctx, "promoter", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Delete(ctx, cache.CatalogKey("promoter"))
	return true, nil
}

// TourManagers lists the tour managers ordered by name
func (s *CatalogService) TourManagers(ctx context.Context) ([]models.TourManager, error) {
	key := cache.CatalogKey("tour_manager")
	var cached []models.TourManager
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	managers, err := repositories.NewTourManagerRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, managers)
	return managers, nil
}

// GetTourManager returns one tour manager or nil when missing
func (s *CatalogService) GetTourManager(ctx context.Context, id uint) (*models.TourManager, error) {
	return repositories.NewTourManagerRepository(s.db).GetByID(ctx, id)
}

// SaveTourManager upserts a tour manager
func (s *CatalogService) SaveTourManager(ctx context.Context, in ContactInput, user string) (*models.TourManager, error) {
	var saved *models.TourManager

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTourManagerRepository(tx)
		audit := repositories.NewAuditRepository(tx)

		manager := &models.TourManager{}
		action := "create"
		before := map[string]any{}
		if in.ID != 0 {
			action = "update"
			loaded, err := repo.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if loaded == nil {
				return errNotFound
			}
			manager = loaded
			before = contactSnapshot(manager.Name, manager.Contact, manager.Phone, manager.Email, manager.Notes)
		}

		name, err := requireName(manager.Name, in.Name, in.ID == 0)
		if err != nil {
			return err
		}
		manager.Name = name
		if in.Contact != nil {
			manager.Contact = *in.Contact
		}
		if in.Phone != nil {
			manager.Phone = *in.Phone
		}
		if in.Email != nil {
			manager.Email = *in.Email
		}
		if in.Notes != nil {
			manager.Notes = *in.Notes
		}

		if in.ID == 0 {
			err = repo.Create(ctx, manager)
		} else {
			err = repo.Save(ctx, manager)
		}
		if err != nil {
			return nameTaken(err)
		}

		after := contactSnapshot(manager.Name, manager.Contact, manager.Phone, manager.Email, manager.Notes)
		if err := audit.Append(ctx, "tour_manager", manager.ID, action, map[string]any{"before": before, "after": after}, user); err != nil {
			return err
		}
		saved = manager
		return nil
	})

	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.Delete(ctx, cache.CatalogKey("tour_manager"))
	log.Info().Uint("tour_manager_id", saved.ID).Str("user", user).Msg("Tour manager saved")
	return saved, nil
}

// DeleteTourManager removes a tour manager; false when missing
func (s *CatalogService) DeleteTourManager(ctx context.Context, id uint, user string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTourManagerRepository(tx)
		manager, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if manager == nil {
			return errNotFound
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		payload := map[string]any{"before": map[string]any{"name": manager.Name}}
		return repositories.NewAuditRepository(tx).Append(ctx, "tour_manager", id, "delete", payload, user)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	s.cache.Delete(ctx, cache.CatalogKey("tour_manager"))
	return true, nil
}

func contactSnapshot(name, contact, phone, email, notes string) map[string]any {
	snap := map[string]any{"name": name, "contact": contact, "phone": phone, "notes": notes}
	if email != "" {
		snap["email"] = email
	}
	return snap
}
