package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/models"
	"repairdesk/internal/uuid"
)

// catalogOrder is the listing order for ordered catalog entities. UUIDv7 ids
// break ties in insertion order.
const catalogOrder = "sort_order ASC, id ASC"

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non-alphanumerics into a dash.
func Slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-")
}

// catalogService handles the device catalog: categories, series, models and injury types.
type catalogService struct {
	store store
}

// NewCatalogService creates a new CatalogServicer.
func NewCatalogService(db *gorm.DB, timeout time.Duration) CatalogServicer {
	return &catalogService{store: newStore(db, timeout)}
}

// canonicalID trims id and rewrites any accepted UUID spelling (upper case,
// braces, urn:uuid:, bare hex) into the lower-case hyphenated form ids are
// stored in. Anything that is not a UUID is returned trimmed but unchanged.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if canon, err := uuid.Parse(id); err == nil {
		return canon
	}
	return id
}

// first loads the row with the given id or returns sentinel. Malformed ids
// cannot exist and never reach the database.
func first[T any](db *gorm.DB, id string, sentinel *apperrors.AppError) (*T, error) {
	canon, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, sentinel
	}
	var out T
	if err := db.Where("id = ?", canon).First(&out).Error; err != nil {
		return nil, notFound(err, sentinel)
	}
	return &out, nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithReason(apperrors.ErrValidation, "missing_name", "name is required")
	}
	return name, nil
}

// Structure returns every category, series, model and injury in one read.
func (s *catalogService) Structure(ctx context.Context) (*Structure, error) {
	out := &Structure{
		Categories: []models.Category{},
		Series:     []models.Series{},
		Models:     []models.DeviceModel{},
		Injuries:   []models.InjuryType{},
	}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		if err := db.Order(catalogOrder).Find(&out.Categories).Error; err != nil {
			return err
		}
		if err := db.Order(catalogOrder).Find(&out.Series).Error; err != nil {
			return err
		}
		if err := db.Order(catalogOrder).Find(&out.Models).Error; err != nil {
			return err
		}
		return db.Order("name ASC, id ASC").Find(&out.Injuries).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns all categories ordered by order, then insertion.
func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Order(catalogOrder).Find(&categories).Error
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *catalogService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category *models.Category
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		category, err = first[models.Category](db, id, apperrors.ErrCategoryNotFound)
		return err
	})
	return category, err
}

// CreateCategory creates a new category
func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:  name,
		Image: strings.TrimSpace(in.Image),
		Order: in.Order,
	}
	if err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Create(category).Error
	}); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies the non-nil fields of patch to a category.
func (s *catalogService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	var category *models.Category
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		if category, err = first[models.Category](db, id, apperrors.ErrCategoryNotFound); err != nil {
			return err
		}
		if patch.Name != nil {
			if category.Name, err = requireName(*patch.Name); err != nil {
				return err
			}
		}
		if patch.Image != nil {
			category.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.Order != nil {
			category.Order = *patch.Order
		}
		return db.Save(category).Error
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that owns no series, along with the
// price combinations scoped to it.
func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	id = canonicalID(id)
	return s.store.tx(ctx, func(tx *gorm.DB) error {
		if _, err := first[models.Category](tx, id, apperrors.ErrCategoryNotFound); err != nil {
			return err
		}

		var children int64
		if err := tx.Model(&models.Series{}).Where("category_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return apperrors.WithMessage(apperrors.ErrHasDependents, "category still has series")
		}

		if err := tx.Where("category_id = ?", id).Delete(&models.PriceCombination{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Category{}).Error
	})
}

// ListSeries returns all series ordered by order, then insertion.
func (s *catalogService) ListSeries(ctx context.Context) ([]models.Series, error) {
	series := []models.Series{}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Order(catalogOrder).Find(&series).Error
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeriesByID retrieves a series by ID
func (s *catalogService) GetSeriesByID(ctx context.Context, id string) (*models.Series, error) {
	var series *models.Series
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		series, err = first[models.Series](db, id, apperrors.ErrSeriesNotFound)
		return err
	})
	return series, err
}

// CreateSeries creates a series under an existing category. A blank slug is
// derived from the name.
func (s *catalogService) CreateSeries(ctx context.Context, in SeriesInput) (*models.Series, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	categoryID := canonicalID(in.CategoryID)
	if categoryID == "" {
		return nil, apperrors.WithReason(apperrors.ErrValidation, "missing_category_id", "categoryId is required")
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	series := &models.Series{
		CategoryID: categoryID,
		Name:       name,
		Slug:       slug,
		Image:      strings.TrimSpace(in.Image),
		Order:      in.Order,
	}
	err = s.store.with(ctx, func(db *gorm.DB) error {
		if _, err := first[models.Category](db, categoryID, apperrors.ErrCategoryNotFound); err != nil {
			return err
		}
		return db.Create(series).Error
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// UpdateSeries applies the non-nil fields of patch to a series.
func (s *catalogService) UpdateSeries(ctx context.Context, id string, patch SeriesPatch) (*models.Series, error) {
	var series *models.Series
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		if series, err = first[models.Series](db, id, apperrors.ErrSeriesNotFound); err != nil {
			return err
		}
		if patch.CategoryID != nil {
			categoryID := canonicalID(*patch.CategoryID)
			if _, err := first[models.Category](db, categoryID, apperrors.ErrCategoryNotFound); err != nil {
				return err
			}
			series.CategoryID = categoryID
		}
		if patch.Name != nil {
			if series.Name, err = requireName(*patch.Name); err != nil {
				return err
			}
		}
		if patch.Slug != nil {
			series.Slug = strings.TrimSpace(*patch.Slug)
		}
		if patch.Image != nil {
			series.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.Order != nil {
			series.Order = *patch.Order
		}
		return db.Save(series).Error
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// DeleteSeries deletes a series that owns no models, along with the price
// combinations scoped to it.
func (s *catalogService) DeleteSeries(ctx context.Context, id string) error {
	id = canonicalID(id)
	return s.store.tx(ctx, func(tx *gorm.DB) error {
		if _, err := first[models.Series](tx, id, apperrors.ErrSeriesNotFound); err != nil {
			return err
		}

		var children int64
		if err := tx.Model(&models.DeviceModel{}).Where("series_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return apperrors.WithMessage(apperrors.ErrHasDependents, "series still has models")
		}

		if err := tx.Where("series_id = ?", id).Delete(&models.PriceCombination{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Series{}).Error
	})
}

// ListModels returns all device models ordered by order, then insertion.
func (s *catalogService) ListModels(ctx context.Context) ([]models.DeviceModel, error) {
	deviceModels := []models.DeviceModel{}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Order(catalogOrder).Find(&deviceModels).Error
	})
	if err != nil {
		return nil, err
	}
	return deviceModels, nil
}

// GetModelByID retrieves a device model by ID
func (s *catalogService) GetModelByID(ctx context.Context, id string) (*models.DeviceModel, error) {
	var model *models.DeviceModel
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		model, err = first[models.DeviceModel](db, id, apperrors.ErrModelNotFound)
		return err
	})
	return model, err
}

// CreateModel creates a device model under an existing series.
func (s *catalogService) CreateModel(ctx context.Context, in ModelInput) (*models.DeviceModel, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	seriesID := canonicalID(in.SeriesID)
	if seriesID == "" {
		return nil, apperrors.WithReason(apperrors.ErrValidation, "missing_series_id", "seriesId is required")
	}

	model := &models.DeviceModel{
		SeriesID: seriesID,
		Name:     name,
		SKU:      strings.TrimSpace(in.SKU),
		GUID:     strings.TrimSpace(in.GUID),
		Order:    in.Order,
	}
	err = s.store.with(ctx, func(db *gorm.DB) error {
		if _, err := first[models.Series](db, seriesID, apperrors.ErrSeriesNotFound); err != nil {
			return err
		}
		return db.Create(model).Error
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

// UpdateModel applies the non-nil fields of patch to a device model.
func (s *catalogService) UpdateModel(ctx context.Context, id string, patch ModelPatch) (*models.DeviceModel, error) {
	var model *models.DeviceModel
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		if model, err = first[models.DeviceModel](db, id, apperrors.ErrModelNotFound); err != nil {
			return err
		}
		if patch.SeriesID != nil {
			seriesID := canonicalID(*patch.SeriesID)
			if _, err := first[models.Series](db, seriesID, apperrors.ErrSeriesNotFound); err != nil {
				return err
			}
			model.SeriesID = seriesID
		}
		if patch.Name != nil {
			if model.Name, err = requireName(*patch.Name); err != nil {
				return err
			}
		}
		if patch.SKU != nil {
			model.SKU = strings.TrimSpace(*patch.SKU)
		}
		if patch.GUID != nil {
			model.GUID = strings.TrimSpace(*patch.GUID)
		}
		if patch.Order != nil {
			model.Order = *patch.Order
		}
		return db.Save(model).Error
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

// DeleteModel deletes a device model and the price combinations scoped to it.
func (s *catalogService) DeleteModel(ctx context.Context, id string) error {
	id = canonicalID(id)
	return s.store.tx(ctx, func(tx *gorm.DB) error {
		if _, err := first[models.DeviceModel](tx, id, apperrors.ErrModelNotFound); err != nil {
			return err
		}
		if err := tx.Where("model_id = ?", id).Delete(&models.PriceCombination{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.DeviceModel{}).Error
	})
}

// ListInjuries returns all injury types ordered by name.
func (s *catalogService) ListInjuries(ctx context.Context) ([]models.InjuryType, error) {
	injuries := []models.InjuryType{}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Order("name ASC, id ASC").Find(&injuries).Error
	})
	if err != nil {
		return nil, err
	}
	return injuries, nil
}

// GetInjuryByID retrieves an injury type by ID
func (s *catalogService) GetInjuryByID(ctx context.Context, id string) (*models.InjuryType, error) {
	var injury *models.InjuryType
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		injury, err = first[models.InjuryType](db, id, apperrors.ErrInjuryNotFound)
		return err
	})
	return injury, err
}

// defaultPrice normalizes merchant text; a blank default means free.
func defaultPrice(p models.Price) models.Price {
	if trimmed := strings.TrimSpace(string(p)); trimmed != "" {
		return models.Price(trimmed)
	}
	return "0"
}

// CreateInjury creates an injury type. A blank default price is stored as "0".
func (s *catalogService) CreateInjury(ctx context.Context, in InjuryInput) (*models.InjuryType, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	injury := &models.InjuryType{
		Name:         name,
		Image:        strings.TrimSpace(in.Image),
		DefaultPrice: defaultPrice(in.DefaultPrice),
	}
	if err := s.store.with(ctx, func(db *gorm.DB) error {
		return db.Create(injury).Error
	}); err != nil {
		return nil, err
	}
	return injury, nil
}

// UpdateInjury applies the non-nil fields of patch to an injury type.
func (s *catalogService) UpdateInjury(ctx context.Context, id string, patch InjuryPatch) (*models.InjuryType, error) {
	var injury *models.InjuryType
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		if injury, err = first[models.InjuryType](db, id, apperrors.ErrInjuryNotFound); err != nil {
			return err
		}
		if patch.Name != nil {
			if injury.Name, err = requireName(*patch.Name); err != nil {
				return err
			}
		}
		if patch.Image != nil {
			injury.Image = strings.TrimSpace(*patch.Image)
		}
		if patch.DefaultPrice != nil {
			injury.DefaultPrice = defaultPrice(*patch.DefaultPrice)
		}
		return db.Save(injury).Error
	})
	if err != nil {
		return nil, err
	}
	return injury, nil
}

// DeleteInjury deletes an injury type that no price combination references.
func (s *catalogService) DeleteInjury(ctx context.Context, id string) error {
	id = canonicalID(id)
	return s.store.tx(ctx, func(tx *gorm.DB) error {
		if _, err := first[models.InjuryType](tx, id, apperrors.ErrInjuryNotFound); err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.PriceCombination{}).Where("injury_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.WithMessage(apperrors.ErrHasDependents, "injury type is used by price combinations")
		}
		return tx.Where("id = ?", id).Delete(&models.InjuryType{}).Error
	})
}
