package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/models"
	"repairdesk/internal/validator"
)

// shopService keeps one row per installed shop.
type shopService struct {
	store store
	now   func() time.Time
}

// NewShopService creates a new ShopServicer.
func NewShopService(db *gorm.DB, timeout time.Duration) ShopServicer {
	return &shopService{store: newStore(db, timeout), now: time.Now}
}

// Upsert records an install, replacing the token of a shop that reinstalls.
func (s *shopService) Upsert(ctx context.Context, domain, accessToken, scope string) (*models.Shop, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !validator.IsShopDomain(domain) {
		return nil, apperrors.ErrInvalidShop
	}
	if accessToken == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "access token is required")
	}

	shop := &models.Shop{
		Domain:      domain,
		AccessToken: accessToken,
		Scope:       scope,
		InstalledAt: s.now(),
	}
	err := s.store.with(ctx, func(db *gorm.DB) error {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "installed_at", "updated_at"}),
		}).Create(shop).Error; err != nil {
			return err
		}
		// On conflict the generated id was not inserted; read back the stored row.
		var stored models.Shop
		if err := db.Where("shop = ?", domain).First(&stored).Error; err != nil {
			return err
		}
		*shop = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shop, nil
}

// GetByDomain retrieves an installed shop.
func (s *shopService) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	var shop models.Shop
	err := s.store.with(ctx, func(db *gorm.DB) error {
		return notFound(db.Where("shop = ?", strings.ToLower(domain)).First(&shop).Error, apperrors.ErrShopNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Delete removes a shop's record. Deleting an unknown shop is a no-op so
// repeated uninstall webhooks succeed.
func (s *shopService) Delete(ctx context.Context, domain string) error {
	return s.store.with(ctx, func(db *gorm.DB) error {
		return db.Where("shop = ?", strings.ToLower(domain)).Delete(&models.Shop{}).Error
	})
}
