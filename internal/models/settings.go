package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountClass selects which discount configuration applies to a buyer.
type DiscountClass string

const (
	// ClassReferral applies to buyers whose account carries a referral
	// code attribution.
	ClassReferral DiscountClass = "referral"
	// ClassRegular applies to every other buyer.
	ClassRegular DiscountClass = "regular"
)

// DiscountConfig holds the percentage-off and the minimum sale price for
// one discount class. The floor is a hard minimum: it can raise a price
// that discounting (or the catalog) put below it.
type DiscountConfig struct {
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discountPercentage"`
	MinimumPrice       decimal.Decimal `db:"minimum_price" json:"minimumPrice"`
}

// PricingSettings is the singleton configuration row read by the pricing
// engine, the commission ledger and the withdrawal aggregator. It is
// mutated only through the admin settings endpoint.
type PricingSettings struct {
	Referral DiscountConfig `json:"referral"`
	Regular  DiscountConfig `json:"regular"`

	// TransactionCommissionPercentage is the referrer's cut of a referred
	// purchase amount.
	TransactionCommissionPercentage decimal.Decimal `db:"transaction_commission_percentage" json:"transactionCommissionPercentage"`
	// MinimumWithdrawal is the smallest commission total a user may
	// withdraw, in the base currency.
	MinimumWithdrawal decimal.Decimal `db:"minimum_withdrawal" json:"minimumWithdrawal"`
	// SyncEnabled gates the periodic catalog sync worker.
	SyncEnabled bool `db:"sync_enabled" json:"syncEnabled"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// ConfigFor returns the discount configuration for the given class.
func (s *PricingSettings) ConfigFor(class DiscountClass) DiscountConfig {
	if class == ClassReferral {
		return s.Referral
	}
	return s.Regular
}
