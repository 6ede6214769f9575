package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// ReferralRepository handles data access for referral codes and their
// attribution to users.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository creates a new ReferralRepository.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create inserts a new referral code. It returns ErrCodeAlreadyExists when
// the owner already holds an active code, and ErrCodeCollision when the
// generated code string is taken (the caller regenerates and retries).
func (r *ReferralRepository) Create(ctx context.Context, code *models.ReferralCode) error {
	const q = `
        INSERT INTO referral_codes (code, owner_id, owner_email, usage_count, total_earnings, is_active, expires_at, created_at)
        VALUES ($1, $2, $3, 0, 0, TRUE, $4, NOW())
        RETURNING created_at`
	err := r.db.QueryRowxContext(ctx, q,
		code.Code, code.OwnerID, code.OwnerEmail, code.ExpiresAt,
	).Scan(&code.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "idx_referral_codes_owner_active" {
				return utils.ErrCodeAlreadyExists
			}
			return utils.ErrCodeCollision
		}
		return fmt.Errorf("insert referral code: %w", err)
	}
	code.IsActive = true
	return nil
}

// GetByCode returns a referral code by its identity.
func (r *ReferralRepository) GetByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	const q = `SELECT * FROM referral_codes WHERE code = $1 LIMIT 1`
	var rc models.ReferralCode
	if err := r.db.GetContext(ctx, &rc, q, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCodeNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// GetActiveByOwner returns the owner's active code, or ErrCodeNotFound.
func (r *ReferralRepository) GetActiveByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error) {
	const q = `SELECT * FROM referral_codes WHERE owner_id = $1 AND is_active LIMIT 1`
	var rc models.ReferralCode
	if err := r.db.GetContext(ctx, &rc, q, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCodeNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// Redeem attributes a code to a newly signed-up user. The validity checks,
// the usage-count increment and the user attribution all happen inside one
// database transaction: two concurrent redemptions of the same code both
// count, and a user can never end up attributed twice.
func (r *ReferralRepository) Redeem(ctx context.Context, code, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin redeem: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockUser(ctx, tx, userID); err != nil {
		return err
	}

	var used *string
	if err := tx.QueryRowxContext(ctx,
		`SELECT referral_code_used FROM users WHERE id = $1`, userID).Scan(&used); err != nil {
		return err
	}
	if used != nil && *used != "" {
		return utils.ErrCodeAlreadyUsed
	}

	var rc models.ReferralCode
	if err := tx.GetContext(ctx, &rc, `SELECT * FROM referral_codes WHERE code = $1`, code); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrCodeNotFound
		}
		return err
	}
	if !rc.IsActive {
		return utils.ErrCodeInactive
	}
	if rc.Expired(time.Now()) {
		return utils.ErrCodeExpired
	}
	if rc.OwnerID == userID {
		return utils.ErrSelfReferral
	}

	// Atomic increment, never a read-modify-write of a cached count.
	if _, err := tx.ExecContext(ctx, `
        UPDATE referral_codes
        SET usage_count = usage_count + 1, last_used_at = NOW()
        WHERE code = $1`, code); err != nil {
		return fmt.Errorf("increment usage for %s: %w", code, err)
	}

	if _, err := tx.ExecContext(ctx, `
        UPDATE users SET referral_code_used = $2, updated_at = NOW()
        WHERE id = $1`, userID, code); err != nil {
		return fmt.Errorf("attribute user %s: %w", userID, err)
	}

	return tx.Commit()
}

// AddEarnings bumps the denormalized earnings counter on the code. The
// ledger remains the source of truth; this only keeps dashboard reads cheap.
func (r *ReferralRepository) AddEarnings(ctx context.Context, code string, amount decimal.Decimal) error {
	const q = `
        UPDATE referral_codes
        SET total_earnings = total_earnings + $2
        WHERE code = $1`
	_, err := r.db.ExecContext(ctx, q, code, amount)
	return err
}

// SetEarnings overwrites the denormalized earnings counter with a total
// recomputed from the ledger. Used by the reconciliation path.
func (r *ReferralRepository) SetEarnings(ctx context.Context, code string, total decimal.Decimal) error {
	const q = `UPDATE referral_codes SET total_earnings = $2 WHERE code = $1`
	_, err := r.db.ExecContext(ctx, q, code, total)
	return err
}

// SetCodeOnUser records the owner's own shareable code on their user row.
func (r *ReferralRepository) SetCodeOnUser(ctx context.Context, userID, code, email string) error {
	const q = `
        INSERT INTO users (id, email, referral_code)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET referral_code = EXCLUDED.referral_code, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, userID, email, code)
	return err
}

// GetUser returns a user row, or utils.ErrNotFound.
func (r *ReferralRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
