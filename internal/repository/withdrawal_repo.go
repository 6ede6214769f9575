package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// WithdrawalRepository settles commission batches into withdrawal requests.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Settle claims all of the user's unpaid commission transactions, marks
// them paid, appends the offsetting withdrawal ledger entry and writes the
// summarizing WithdrawalRequest — all in one database transaction, so a
// partial settlement cannot be observed or persisted.
//
// The commission rows are locked before inspection; a concurrent caller
// blocks on the user lock and then finds nothing left to claim.
func (r *WithdrawalRepository) Settle(ctx context.Context, userID string, minimum decimal.Decimal, paidBy string) (*models.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	const selectQ = `
        SELECT id, amount FROM transactions
        WHERE user_id = $1 AND type = 'commission' AND status = 'completed'
        ORDER BY seq ASC
        FOR UPDATE`
	rows, err := tx.QueryxContext(ctx, selectQ, userID)
	if err != nil {
		return nil, fmt.Errorf("select unpaid commissions: %w", err)
	}

	var (
		ids   []string
		total = decimal.Zero
	)
	for rows.Next() {
		var (
			id     string
			amount decimal.Decimal
		)
		if err := rows.Scan(&id, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return nil, utils.ErrNothingToWithdraw
	}
	if total.LessThan(minimum) {
		return nil, utils.NewBelowMinimumError(total, minimum)
	}

	const markQ = `
        UPDATE transactions
        SET status = 'paid', paid_at = NOW(), paid_by = $2
        WHERE id = ANY($1) AND status = 'completed'`
	res, err := tx.ExecContext(ctx, markQ, pq.Array(ids), paidBy)
	if err != nil {
		return nil, fmt.Errorf("mark commissions paid: %w", err)
	}
	marked, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	// Every selected row was locked by us; anything else means the
	// settlement raced something it must never race.
	if marked != int64(len(ids)) {
		return nil, utils.ErrInvariantViolation
	}

	req := &models.WithdrawalRequest{
		ID:               uuid.New().String(),
		UserID:           userID,
		Total:            total,
		TransactionCount: len(ids),
		Status:           models.WithdrawalCompleted,
	}

	desc := fmt.Sprintf("Withdrawal of %d commission payments", len(ids))
	if _, err := appendLocked(ctx, tx, AppendParams{
		UserID:      userID,
		Type:        models.TrxTypeWithdrawal,
		Amount:      total.Neg(),
		Status:      models.StatusCompleted,
		Method:      models.MethodWithdrawal,
		Reference:   &req.ID,
		Description: &desc,
	}); err != nil {
		return nil, err
	}

	const insertQ = `
        INSERT INTO withdrawal_requests (id, user_id, total, transaction_count, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, insertQ,
		req.ID, req.UserID, req.Total, req.TransactionCount, req.Status,
	).Scan(&req.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert withdrawal request: %w", err)
	}

	return req, tx.Commit()
}

// ListByUser returns the user's withdrawal requests, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	const q = `SELECT * FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC`
	var list []models.WithdrawalRequest
	if err := r.db.SelectContext(ctx, &list, q, userID); err != nil {
		return nil, err
	}
	return list, nil
}
