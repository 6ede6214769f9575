package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

type catalogReadStore interface {
	ListVisibleCountries(ctx context.Context) ([]models.Country, error)
	ListPlansByCountry(ctx context.Context, countryCode string) ([]models.Plan, error)
	ListSyncLogs(ctx context.Context, limit int) ([]models.SyncLog, error)
}

// PricedPlan is a plan with the final price for one buyer class attached.
type PricedPlan struct {
	models.Plan
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// CatalogService serves the storefront's read side of the catalog.
type CatalogService struct {
	store    catalogReadStore
	settings *SettingsService
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store catalogReadStore, settings *SettingsService) *CatalogService {
	return &CatalogService{store: store, settings: settings}
}

// Countries lists visible destinations.
func (s *CatalogService) Countries(ctx context.Context) ([]models.Country, error) {
	return s.store.ListVisibleCountries(ctx)
}

// PlansForCountry lists sellable plans covering the country, each priced
// for the given buyer class.
func (s *CatalogService) PlansForCountry(ctx context.Context, countryCode string, class models.DiscountClass) ([]PricedPlan, error) {
	plans, err := s.store.ListPlansByCountry(ctx, countryCode)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg := settings.ConfigFor(class)

	priced := make([]PricedPlan, 0, len(plans))
	for _, p := range plans {
		priced = append(priced, PricedPlan{Plan: p, FinalPrice: Quote(p.Price, cfg)})
	}
	return priced, nil
}

// SyncLogs returns recent catalog sync runs for admin tooling.
func (s *CatalogService) SyncLogs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	return s.store.ListSyncLogs(ctx, limit)
}
