package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

// settingsID is the primary key of the singleton configuration row.
const settingsID = "general"

// SettingsRepository handles data access for the pricing settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// settingsRow is the flat DB shape of models.PricingSettings.
type settingsRow struct {
	ReferralDiscountPercentage      decimal.Decimal `db:"referral_discount_percentage"`
	ReferralMinimumPrice            decimal.Decimal `db:"referral_minimum_price"`
	RegularDiscountPercentage       decimal.Decimal `db:"regular_discount_percentage"`
	RegularMinimumPrice             decimal.Decimal `db:"regular_minimum_price"`
	TransactionCommissionPercentage decimal.Decimal `db:"transaction_commission_percentage"`
	MinimumWithdrawal               decimal.Decimal `db:"minimum_withdrawal"`
	SyncEnabled                     bool            `db:"sync_enabled"`
	UpdatedAt                       time.Time       `db:"updated_at"`
	UpdatedBy                       string          `db:"updated_by"`
}

// Get returns the settings row. The migration seeds it, so it always exists.
func (r *SettingsRepository) Get(ctx context.Context) (*models.PricingSettings, error) {
	const q = `
        SELECT referral_discount_percentage, referral_minimum_price,
               regular_discount_percentage, regular_minimum_price,
               transaction_commission_percentage, minimum_withdrawal,
               sync_enabled, updated_at, updated_by
        FROM settings WHERE id = $1`
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, q, settingsID); err != nil {
		return nil, err
	}

	return &models.PricingSettings{
		Referral: models.DiscountConfig{
			DiscountPercentage: row.ReferralDiscountPercentage,
			MinimumPrice:       row.ReferralMinimumPrice,
		},
		Regular: models.DiscountConfig{
			DiscountPercentage: row.RegularDiscountPercentage,
			MinimumPrice:       row.RegularMinimumPrice,
		},
		TransactionCommissionPercentage: row.TransactionCommissionPercentage,
		MinimumWithdrawal:               row.MinimumWithdrawal,
		SyncEnabled:                     row.SyncEnabled,
		UpdatedAt:                       row.UpdatedAt,
		UpdatedBy:                       row.UpdatedBy,
	}, nil
}

// Update overwrites the settings row.
func (r *SettingsRepository) Update(ctx context.Context, s *models.PricingSettings) error {
	const q = `
        UPDATE settings SET
            referral_discount_percentage = $2,
            referral_minimum_price = $3,
            regular_discount_percentage = $4,
            regular_minimum_price = $5,
            transaction_commission_percentage = $6,
            minimum_withdrawal = $7,
            sync_enabled = $8,
            updated_at = NOW(),
            updated_by = $9
        WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, settingsID,
		s.Referral.DiscountPercentage, s.Referral.MinimumPrice,
		s.Regular.DiscountPercentage, s.Regular.MinimumPrice,
		s.TransactionCommissionPercentage, s.MinimumWithdrawal,
		s.SyncEnabled, s.UpdatedBy,
	)
	return err
}
