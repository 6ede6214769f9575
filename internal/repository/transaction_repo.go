package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// TransactionRepository owns the per-user balance ledger. Every append goes
// through one database transaction that locks the user row first, so two
// concurrent appends can never read the same balance-before.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// AppendParams describes one ledger entry to record.
type AppendParams struct {
	UserID       string
	Type         models.TransactionType
	Amount       decimal.Decimal
	Status       models.TransactionStatus
	Method       string
	Reference    *string
	ReferralCode *string
	Description  *string
}

// Append records a ledger entry atomically and returns it. For commission
// entries carrying a reference, a replay of the same reference returns the
// previously recorded transaction instead of creating a second one; the
// second return value reports whether the entry already existed.
func (r *TransactionRepository) Append(ctx context.Context, p AppendParams) (*models.Transaction, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockUser(ctx, tx, p.UserID); err != nil {
		return nil, false, err
	}

	// Dedup inside the same transaction as the insert: a replayed purchase
	// event must not create a second commission.
	if p.Type == models.TrxTypeCommission && p.Reference != nil {
		existing, err := getCommissionByReference(ctx, tx, *p.Reference)
		if err != nil && err != sql.ErrNoRows {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, tx.Commit()
		}
	}

	trx, err := appendLocked(ctx, tx, p)
	if err != nil {
		return nil, false, err
	}

	return trx, false, tx.Commit()
}

// CurrentBalance returns the balance-after of the user's latest transaction,
// or zero if they have none. Latest means highest seq: the sequence is
// assigned while the user lock is held, so it follows lock order even when
// transaction timestamps do not.
func (r *TransactionRepository) CurrentBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	const q = `
        SELECT balance_after FROM transactions
        WHERE user_id = $1
        ORDER BY seq DESC
        LIMIT 1`
	var balance decimal.Decimal
	if err := r.db.GetContext(ctx, &balance, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return balance, nil
}

// SumCommissionEarnings recomputes a user's commission earnings from the
// ledger (completed and paid entries), ignoring any cached counter.
func (r *TransactionRepository) SumCommissionEarnings(ctx context.Context, userID string) (decimal.Decimal, error) {
	const q = `
        SELECT COALESCE(SUM(amount), 0) FROM transactions
        WHERE user_id = $1 AND type = 'commission' AND status IN ('completed', 'paid')`
	var sum decimal.Decimal
	if err := r.db.GetContext(ctx, &sum, q, userID); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// SumUnpaidCommissions returns the total of commissions not yet settled.
func (r *TransactionRepository) SumUnpaidCommissions(ctx context.Context, userID string) (decimal.Decimal, error) {
	const q = `
        SELECT COALESCE(SUM(amount), 0) FROM transactions
        WHERE user_id = $1 AND type = 'commission' AND status = 'completed'`
	var sum decimal.Decimal
	if err := r.db.GetContext(ctx, &sum, q, userID); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// ListRecentCommissions returns the user's newest commission entries.
func (r *TransactionRepository) ListRecentCommissions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const q = `
        SELECT * FROM transactions
        WHERE user_id = $1 AND type = 'commission'
        ORDER BY seq DESC
        LIMIT $2`
	var list []models.Transaction
	if err := r.db.SelectContext(ctx, &list, q, userID, limit); err != nil {
		return nil, err
	}
	return list, nil
}

// lockUser takes the per-user append lock, creating the user row on first
// contact so the lock target always exists.
func lockUser(ctx context.Context, tx *sqlx.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	var id string
	if err := tx.QueryRowxContext(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
		return fmt.Errorf("lock user %s: %w", userID, err)
	}
	return nil
}

// appendLocked inserts a ledger entry chained onto the user's latest
// balance. The caller must already hold the user row lock in tx. The chain
// is keyed on seq, never on created_at: NOW() is fixed at BEGIN, so a
// writer that waited on the lock would stamp a timestamp older than the
// row it chains onto.
func appendLocked(ctx context.Context, tx *sqlx.Tx, p AppendParams) (*models.Transaction, error) {
	var before decimal.Decimal
	err := tx.QueryRowxContext(ctx, `
        SELECT balance_after FROM transactions
        WHERE user_id = $1
        ORDER BY seq DESC
        LIMIT 1`, p.UserID).Scan(&before)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("read balance for %s: %w", p.UserID, err)
		}
		before = decimal.Zero
	}

	after := before.Add(p.Amount)

	if !after.Sub(before).Equal(p.Amount) {
		return nil, utils.ErrInvariantViolation
	}

	trx := &models.Transaction{
		ID:            uuid.New().String(),
		UserID:        p.UserID,
		Type:          p.Type,
		Amount:        p.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        p.Status,
		Method:        p.Method,
		Reference:     p.Reference,
		ReferralCode:  p.ReferralCode,
		Description:   p.Description,
	}

	const q = `
        INSERT INTO transactions (
            id, user_id, type, amount, balance_before, balance_after,
            status, method, reference, referral_code, description, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
        RETURNING seq, created_at`
	if err := tx.QueryRowxContext(ctx, q,
		trx.ID, trx.UserID, trx.Type, trx.Amount, trx.BalanceBefore, trx.BalanceAfter,
		trx.Status, trx.Method, trx.Reference, trx.ReferralCode, trx.Description,
	).Scan(&trx.Seq, &trx.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert transaction for %s: %w", p.UserID, err)
	}

	return trx, nil
}

func getCommissionByReference(ctx context.Context, tx *sqlx.Tx, reference string) (*models.Transaction, error) {
	const q = `SELECT * FROM transactions WHERE type = 'commission' AND reference = $1 LIMIT 1`
	var trx models.Transaction
	if err := tx.GetContext(ctx, &trx, q, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &trx, nil
}
