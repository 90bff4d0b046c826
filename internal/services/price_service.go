package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/logger"
	"repairdesk/internal/metrics"
	"repairdesk/internal/models"
	"repairdesk/internal/uuid"
)

// zeroPrice is quoted when the injury is blank or unknown.
const zeroPrice models.Price = "0"

// priceService resolves quotes and manages price combinations.
type priceService struct {
	store store
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB, timeout time.Duration) PriceServicer {
	return &priceService{store: newStore(db, timeout)}
}

// Resolve quotes a price for the selection. The most specific price
// combination wins (model, then series, then category); otherwise the
// injury's default price; otherwise "0". An unknown injury is not an error.
func (s *priceService) Resolve(ctx context.Context, sel Selection) (*Quote, error) {
	injuryID := canonicalID(sel.InjuryID)
	if !uuid.IsValid(injuryID) {
		return s.quoted(&Quote{Price: zeroPrice, Level: LevelNone}, sel), nil
	}

	candidates := []struct {
		level models.ScopeLevel
		id    string
		out   ResolutionLevel
	}{
		{models.ScopeModel, canonicalID(sel.ModelID), LevelModel},
		{models.ScopeSeries, canonicalID(sel.SeriesID), LevelSeries},
		{models.ScopeCategory, canonicalID(sel.CategoryID), LevelCategory},
	}

	var quote *Quote
	err := s.store.with(ctx, func(db *gorm.DB) error {
		for _, c := range candidates {
			if !uuid.IsValid(c.id) {
				continue
			}
			var pc models.PriceCombination
			err := db.Where("scope_level = ? AND scope_id = ? AND injury_id = ?", c.level, c.id, injuryID).
				First(&pc).Error
			if err == nil {
				quote = &Quote{Price: pc.Price, Notes: pc.Notes, Level: c.out}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var injury models.InjuryType
		err := db.Where("id = ?", injuryID).First(&injury).Error
		switch {
		case err == nil:
			quote = &Quote{Price: defaultPrice(injury.DefaultPrice), Level: LevelDefault}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			quote = &Quote{Price: zeroPrice, Level: LevelNone}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.quoted(quote, sel), nil
}

func (s *priceService) quoted(q *Quote, sel Selection) *Quote {
	metrics.PriceResolutions.WithLabelValues(string(q.Level)).Inc()
	logger.Get().Debugw("price resolved",
		"level", q.Level,
		"injury_id", sel.InjuryID,
		"model_id", sel.ModelID,
		"series_id", sel.SeriesID,
		"category_id", sel.CategoryID,
	)
	return q
}

// ListPrices returns price combinations matching filter, oldest first.
func (s *priceService) ListPrices(ctx context.Context, filter PriceFilter) ([]models.PriceCombination, error) {
	prices := []models.PriceCombination{}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.PriceCombination{})
		if filter.InjuryID != "" {
			q = q.Where("injury_id = ?", canonicalID(filter.InjuryID))
		}
		if filter.ScopeLevel != "" {
			q = q.Where("scope_level = ?", filter.ScopeLevel)
		}
		if filter.ScopeID != "" {
			q = q.Where("scope_id = ?", canonicalID(filter.ScopeID))
		}
		return q.Order("id ASC").Find(&prices).Error
	})
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// GetPriceByID retrieves a price combination by ID
func (s *priceService) GetPriceByID(ctx context.Context, id string) (*models.PriceCombination, error) {
	var pc *models.PriceCombination
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		pc, err = first[models.PriceCombination](db, id, apperrors.ErrPriceNotFound)
		return err
	})
	return pc, err
}

// CreatePrice creates a price combination for exactly one device scope.
func (s *priceService) CreatePrice(ctx context.Context, in PriceInput) (*models.PriceCombination, error) {
	pc := &models.PriceCombination{
		CategoryID: normalizeScopeID(in.CategoryID),
		SeriesID:   normalizeScopeID(in.SeriesID),
		ModelID:    normalizeScopeID(in.ModelID),
		InjuryID:   canonicalID(in.InjuryID),
		Price:      models.Price(strings.TrimSpace(string(in.Price))),
		Notes:      strings.TrimSpace(in.Notes),
	}
	if err := validatePriceFields(pc); err != nil {
		return nil, err
	}

	err := s.store.with(ctx, func(db *gorm.DB) error {
		if err := checkPriceReferences(db, pc, ""); err != nil {
			return err
		}
		return duplicateAware(db.Create(pc).Error)
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// UpdatePrice applies patch to a price combination and re-validates it.
func (s *priceService) UpdatePrice(ctx context.Context, id string, patch PricePatch) (*models.PriceCombination, error) {
	var pc *models.PriceCombination
	err := s.store.with(ctx, func(db *gorm.DB) error {
		var err error
		if pc, err = first[models.PriceCombination](db, id, apperrors.ErrPriceNotFound); err != nil {
			return err
		}

		if patch.CategoryID != nil || patch.SeriesID != nil || patch.ModelID != nil {
			pc.CategoryID = normalizeScopeID(patch.CategoryID)
			pc.SeriesID = normalizeScopeID(patch.SeriesID)
			pc.ModelID = normalizeScopeID(patch.ModelID)
		}
		if patch.InjuryID != nil {
			pc.InjuryID = canonicalID(*patch.InjuryID)
		}
		if patch.Price != nil {
			pc.Price = models.Price(strings.TrimSpace(string(*patch.Price)))
		}
		if patch.Notes != nil {
			pc.Notes = strings.TrimSpace(*patch.Notes)
		}
		if err := validatePriceFields(pc); err != nil {
			return err
		}
		if err := checkPriceReferences(db, pc, pc.ID); err != nil {
			return err
		}
		return duplicateAware(db.Save(pc).Error)
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// DeletePrice deletes a price combination.
func (s *priceService) DeletePrice(ctx context.Context, id string) error {
	id = canonicalID(id)
	return s.store.with(ctx, func(db *gorm.DB) error {
		if _, err := first[models.PriceCombination](db, id, apperrors.ErrPriceNotFound); err != nil {
			return err
		}
		return db.Where("id = ?", id).Delete(&models.PriceCombination{}).Error
	})
}

// normalizeScopeID canonicalizes an optional scope id; blank means unset.
func normalizeScopeID(id *string) *string {
	if id == nil {
		return nil
	}
	canon := canonicalID(*id)
	if canon == "" {
		return nil
	}
	return &canon
}

// validatePriceFields checks the shape of a combination before any lookups.
func validatePriceFields(pc *models.PriceCombination) error {
	if pc.InjuryID == "" {
		return apperrors.WithReason(apperrors.ErrValidation, "missing_injury_id", "injuryId is required")
	}
	if pc.Price == "" {
		return apperrors.WithReason(apperrors.ErrValidation, "missing_price", "price is required")
	}
	if !pc.ApplyScope() {
		return apperrors.ErrPriceScopeRequired
	}
	return nil
}

// checkPriceReferences verifies the injury and scope entity exist and that
// no other combination already prices this scope and injury.
func checkPriceReferences(db *gorm.DB, pc *models.PriceCombination, selfID string) error {
	if _, err := first[models.InjuryType](db, pc.InjuryID, apperrors.ErrInjuryNotFound); err != nil {
		return err
	}

	var err error
	switch pc.ScopeLevel {
	case models.ScopeModel:
		_, err = first[models.DeviceModel](db, pc.ScopeID, apperrors.ErrModelNotFound)
	case models.ScopeSeries:
		_, err = first[models.Series](db, pc.ScopeID, apperrors.ErrSeriesNotFound)
	case models.ScopeCategory:
		_, err = first[models.Category](db, pc.ScopeID, apperrors.ErrCategoryNotFound)
	}
	if err != nil {
		return err
	}

	var count int64
	q := db.Model(&models.PriceCombination{}).
		Where("scope_level = ? AND scope_id = ? AND injury_id = ?", pc.ScopeLevel, pc.ScopeID, pc.InjuryID)
	if selfID != "" {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrDuplicatePrice
	}
	return nil
}

// duplicateAware maps a unique-index violation that slipped past the
// pre-check (concurrent writers) onto the duplicate error.
func duplicateAware(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicatePrice
	}
	return err
}
