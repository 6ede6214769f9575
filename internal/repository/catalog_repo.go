package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

// CatalogRepository handles data access for countries, plans and sync logs.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// UpsertBatch writes one sync batch atomically: every country and plan in
// the batch persists, or none do. The merge only touches fields the sync
// owns — visibility and enable/hide toggles set by administrators survive.
func (r *CatalogRepository) UpsertBatch(ctx context.Context, countries []models.Country, plans []models.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sync batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const countryQ = `
        INSERT INTO countries (code, name, flag_url, synced_at, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW(), NOW())
        ON CONFLICT (code) DO UPDATE SET
            name = EXCLUDED.name,
            flag_url = COALESCE(EXCLUDED.flag_url, countries.flag_url),
            synced_at = NOW(),
            updated_at = NOW()`

	for i := range countries {
		c := &countries[i]
		if _, err := tx.ExecContext(ctx, countryQ, c.Code, c.Name, c.FlagURL); err != nil {
			return fmt.Errorf("upsert country %s: %w", c.Code, err)
		}
	}

	const planQ = `
        INSERT INTO plans (
            slug, name, description, price, currency, original_price, original_currency,
            capacity_gb, unlimited, period_days, country_codes, region, operator,
            synced_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12, $13,
            NOW(), NOW(), NOW()
        )
        ON CONFLICT (slug) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            price = EXCLUDED.price,
            currency = EXCLUDED.currency,
            original_price = EXCLUDED.original_price,
            original_currency = EXCLUDED.original_currency,
            capacity_gb = EXCLUDED.capacity_gb,
            unlimited = EXCLUDED.unlimited,
            period_days = EXCLUDED.period_days,
            country_codes = EXCLUDED.country_codes,
            region = EXCLUDED.region,
            operator = EXCLUDED.operator,
            synced_at = NOW(),
            updated_at = NOW()`

	for i := range plans {
		p := &plans[i]
		if _, err := tx.ExecContext(ctx, planQ,
			p.Slug, p.Name, p.Description, p.Price, p.Currency, p.OriginalPrice, p.OriginalCurrency,
			p.CapacityGB, p.Unlimited, p.PeriodDays, p.CountryCodes, p.Region, p.Operator,
		); err != nil {
			return fmt.Errorf("upsert plan %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

// ListVisibleCountries returns countries shown on the storefront.
func (r *CatalogRepository) ListVisibleCountries(ctx context.Context) ([]models.Country, error) {
	const q = `SELECT * FROM countries WHERE visible = TRUE ORDER BY name ASC`
	var list []models.Country
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPlansByCountry returns enabled, non-hidden plans covering the country.
func (r *CatalogRepository) ListPlansByCountry(ctx context.Context, countryCode string) ([]models.Plan, error) {
	const q = `
        SELECT * FROM plans
        WHERE enabled = TRUE AND hidden = FALSE AND $1 = ANY(country_codes)
        ORDER BY price ASC`
	var list []models.Plan
	if err := r.db.SelectContext(ctx, &list, q, countryCode); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPlanBySlug returns a plan by its catalog slug.
func (r *CatalogRepository) GetPlanBySlug(ctx context.Context, slug string) (*models.Plan, error) {
	const q = `SELECT * FROM plans WHERE slug = $1 LIMIT 1`
	var p models.Plan
	if err := r.db.GetContext(ctx, &p, q, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// CreateSyncLog records the outcome of one sync run.
func (r *CatalogRepository) CreateSyncLog(ctx context.Context, entry *models.SyncLog) error {
	const q = `
        INSERT INTO sync_logs (countries_written, plans_written, error_count, errors, status, source, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		entry.CountriesWritten, entry.PlansWritten, entry.ErrorCount, entry.Errors, entry.Status, entry.Source,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListSyncLogs returns the most recent sync runs, newest first.
func (r *CatalogRepository) ListSyncLogs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `SELECT * FROM sync_logs ORDER BY created_at DESC LIMIT $1`
	var list []models.SyncLog
	if err := r.db.SelectContext(ctx, &list, q, limit); err != nil {
		return nil, err
	}
	return list, nil
}
