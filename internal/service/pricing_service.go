package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

var oneHundred = decimal.NewFromInt(100)

// Quote applies one discount configuration to a catalog price and returns
// the final customer price, rounded to cents.
//
// The minimum price is a hard floor, not a cap on the discount: a catalog
// price already below the floor comes back raised to it. Zero and negative
// prices pass through untouched so free promotional plans stay free.
func Quote(price decimal.Decimal, cfg models.DiscountConfig) decimal.Decimal {
	if price.LessThanOrEqual(decimal.Zero) {
		return price
	}

	discounted := price.Mul(oneHundred.Sub(cfg.DiscountPercentage)).Div(oneHundred)
	if discounted.LessThan(cfg.MinimumPrice) {
		discounted = cfg.MinimumPrice
	}
	return discounted.Round(2)
}

// PlanQuote is a priced view of a plan for one buyer class.
type PlanQuote struct {
	Slug               string          `json:"slug"`
	Name               string          `json:"name"`
	Class              string          `json:"class"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	FinalPrice         decimal.Decimal `json:"finalPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Currency           string          `json:"currency"`
}

type planSource interface {
	GetPlanBySlug(ctx context.Context, slug string) (*models.Plan, error)
}

// PricingService quotes storefront prices from the catalog and the current
// pricing settings.
type PricingService struct {
	plans    planSource
	settings *SettingsService
	currency string
}

// NewPricingService creates a new PricingService. baseCurrency is the
// currency every quote is denominated in.
func NewPricingService(plans planSource, settings *SettingsService, baseCurrency string) *PricingService {
	return &PricingService{plans: plans, settings: settings, currency: baseCurrency}
}

// QuotePlan prices one plan for the given buyer class.
func (s *PricingService) QuotePlan(ctx context.Context, slug string, class models.DiscountClass) (*PlanQuote, error) {
	plan, err := s.plans.GetPlanBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg := settings.ConfigFor(class)

	return &PlanQuote{
		Slug:               plan.Slug,
		Name:               plan.Name,
		Class:              string(class),
		OriginalPrice:      plan.Price,
		FinalPrice:         Quote(plan.Price, cfg),
		DiscountPercentage: cfg.DiscountPercentage,
		Currency:           s.currency,
	}, nil
}
