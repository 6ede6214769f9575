package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string
type TransactionStatus string

const (
	TrxTypeDeposit    TransactionType = "deposit"
	TrxTypePurchase   TransactionType = "purchase"
	TrxTypeCommission TransactionType = "commission"
	TrxTypeWithdrawal TransactionType = "withdrawal"
)

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPaid      TransactionStatus = "paid"
	StatusRejected  TransactionStatus = "rejected"
)

// Well-known transaction methods.
const (
	MethodReferralCommission   = "referral_commission"
	MethodWithdrawal           = "withdrawal"
	MethodAdminBalanceAddition = "admin_balance_addition"
)

// Transaction is one immutable entry in a user's balance ledger.
//
// BalanceAfter = BalanceBefore + Amount, and a user's current balance is
// the BalanceAfter of their most recent transaction. Both balances are
// stamped inside the same database transaction that inserts the row, so
// concurrent appends can never chain off the same predecessor.
type Transaction struct {
	ID string `db:"id" json:"id"`
	// Seq is the store-assigned monotonic ordering key of the user's
	// chain. Creation timestamps are display metadata only; two rows
	// written under lock contention can carry out-of-order timestamps.
	Seq           int64             `db:"seq" json:"-"`
	UserID        string            `db:"user_id" json:"-"`
	Type          TransactionType   `db:"type" json:"type"`
	Amount        decimal.Decimal   `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal   `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal   `db:"balance_after" json:"balanceAfter"`
	Status        TransactionStatus `db:"status" json:"status"`
	Method        string            `db:"method" json:"method"`
	// Reference points at the triggering event, e.g. the purchase id that
	// generated a commission. It doubles as the idempotency key for
	// commission credits.
	Reference    *string    `db:"reference" json:"reference,omitempty"`
	ReferralCode *string    `db:"referral_code" json:"referralCode,omitempty"`
	Description  *string    `db:"description" json:"description,omitempty"`
	PaidAt       *time.Time `db:"paid_at" json:"paidAt,omitempty"`
	PaidBy       *string    `db:"paid_by" json:"paidBy,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
