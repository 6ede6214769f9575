package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalRejected  WithdrawalStatus = "rejected"
)

// WithdrawalRequest summarizes one settlement batch: its Total equals the
// sum of the commission transactions it marked paid, and no transaction
// ever belongs to more than one request.
type WithdrawalRequest struct {
	ID               string           `db:"id" json:"id"`
	UserID           string           `db:"user_id" json:"userId"`
	Total            decimal.Decimal  `db:"total" json:"total"`
	TransactionCount int              `db:"transaction_count" json:"transactionCount"`
	Status           WithdrawalStatus `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
}
