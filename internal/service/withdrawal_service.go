package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
)

type withdrawalStore interface {
	Settle(ctx context.Context, userID string, minimum decimal.Decimal, paidBy string) (*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error)
}

// WithdrawalService turns a user's unpaid commissions into withdrawal
// requests, subject to the configured minimum.
type WithdrawalService struct {
	store    withdrawalStore
	settings *SettingsService
}

// NewWithdrawalService creates a new WithdrawalService.
func NewWithdrawalService(store withdrawalStore, settings *SettingsService) *WithdrawalService {
	return &WithdrawalService{store: store, settings: settings}
}

// Withdraw settles everything the user has earned and not yet been paid.
// The store rejects the settlement atomically when there is nothing to
// claim or the total is under the minimum.
func (s *WithdrawalService) Withdraw(ctx context.Context, userID string) (*models.WithdrawalRequest, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.store.Settle(ctx, userID, settings.MinimumWithdrawal, "user_request")
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID).
		Str("total", req.Total.StringFixed(2)).
		Int("transactions", req.TransactionCount).
		Msg("withdrawal settled")
	return req, nil
}

// History returns the user's withdrawal requests, newest first.
func (s *WithdrawalService) History(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	return s.store.ListByUser(ctx, userID)
}
