package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

type settingsStore interface {
	Get(ctx context.Context) (*models.PricingSettings, error)
	Update(ctx context.Context, s *models.PricingSettings) error
}

type settingsCache interface {
	Get(ctx context.Context) (*models.PricingSettings, error)
	Set(ctx context.Context, s *models.PricingSettings) error
	Invalidate(ctx context.Context) error
}

// SettingsService reads and writes the pricing settings singleton, with a
// short-TTL cache in front of the store. Cache failures degrade to store
// reads; they never fail a request.
type SettingsService struct {
	store settingsStore
	cache settingsCache
}

// NewSettingsService creates a new SettingsService. cache may be nil.
func NewSettingsService(store settingsStore, cache settingsCache) *SettingsService {
	return &SettingsService{store: store, cache: cache}
}

// Get returns the current pricing settings, cached when possible.
func (s *SettingsService) Get(ctx context.Context) (*models.PricingSettings, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("settings cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settings); err != nil {
			log.Warn().Err(err).Msg("settings cache write failed")
		}
	}
	return settings, nil
}

// Update validates and persists new settings, then drops the cached copy
// so the change takes effect immediately.
func (s *SettingsService) Update(ctx context.Context, settings *models.PricingSettings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.store.Update(ctx, settings); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("settings cache invalidation failed")
		}
	}

	log.Info().Str("updated_by", settings.UpdatedBy).Msg("pricing settings updated")
	return nil
}

func validateSettings(s *models.PricingSettings) error {
	for _, cfg := range []struct {
		name string
		c    models.DiscountConfig
	}{
		{"referral", s.Referral},
		{"regular", s.Regular},
	} {
		if cfg.c.DiscountPercentage.LessThan(decimal.Zero) || cfg.c.DiscountPercentage.GreaterThan(oneHundred) {
			return fmt.Errorf("%s discount percentage must be between 0 and 100", cfg.name)
		}
		if cfg.c.MinimumPrice.LessThan(decimal.Zero) {
			return fmt.Errorf("%s minimum price must not be negative", cfg.name)
		}
	}
	if s.TransactionCommissionPercentage.LessThan(decimal.Zero) || s.TransactionCommissionPercentage.GreaterThan(oneHundred) {
		return fmt.Errorf("commission percentage must be between 0 and 100")
	}
	if s.MinimumWithdrawal.LessThan(decimal.Zero) {
		return fmt.Errorf("minimum withdrawal must not be negative")
	}
	return nil
}
