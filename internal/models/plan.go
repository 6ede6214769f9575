package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Plan is a prepaid data product from the catalog provider.
//
// Price is always stored in the base currency and is recomputed from
// OriginalPrice/OriginalCurrency on every sync; the provider's price is
// never trusted as already-normalized. The original pair is kept for audit.
type Plan struct {
	Slug             string          `db:"slug" json:"slug"`
	Name             string          `db:"name" json:"name"`
	Description      string          `db:"description" json:"description,omitempty"`
	Price            decimal.Decimal `db:"price" json:"price"`
	Currency         string          `db:"currency" json:"currency"`
	OriginalPrice    decimal.Decimal `db:"original_price" json:"originalPrice"`
	OriginalCurrency string          `db:"original_currency" json:"originalCurrency"`
	// CapacityGB is the data allowance in GB; Unlimited overrides it.
	CapacityGB  decimal.Decimal `db:"capacity_gb" json:"capacityGb"`
	Unlimited   bool            `db:"unlimited" json:"unlimited"`
	PeriodDays  int             `db:"period_days" json:"periodDays"`
	CountryCodes pq.StringArray `db:"country_codes" json:"countryCodes"`
	Region      string          `db:"region" json:"region,omitempty"`
	Operator    string          `db:"operator" json:"operator,omitempty"`
	Enabled     bool            `db:"enabled" json:"enabled"`
	Hidden      bool            `db:"hidden" json:"-"`
	SyncedAt    *time.Time      `db:"synced_at" json:"syncedAt,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"-"`
}
