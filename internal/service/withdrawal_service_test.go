package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

type fakeWithdrawalStore struct {
	unpaid      decimal.Decimal
	unpaidCount int
	minimumSeen decimal.Decimal
	paidBySeen  string
	history     []models.WithdrawalRequest
}

func (f *fakeWithdrawalStore) Settle(ctx context.Context, userID string, minimum decimal.Decimal, paidBy string) (*models.WithdrawalRequest, error) {
	f.minimumSeen = minimum
	f.paidBySeen = paidBy
	if f.unpaidCount == 0 {
		return nil, utils.ErrNothingToWithdraw
	}
	if f.unpaid.LessThan(minimum) {
		return nil, utils.NewBelowMinimumError(f.unpaid, minimum)
	}
	req := models.WithdrawalRequest{
		ID: "req-1", UserID: userID, Total: f.unpaid,
		TransactionCount: f.unpaidCount, Status: models.WithdrawalCompleted,
	}
	f.unpaid = decimal.Zero
	f.unpaidCount = 0
	f.history = append(f.history, req)
	return &req, nil
}

func (f *fakeWithdrawalStore) ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	return f.history, nil
}

func TestWithdrawBelowMinimum(t *testing.T) {
	store := &fakeWithdrawalStore{unpaid: d("45.00"), unpaidCount: 3}
	svc := NewWithdrawalService(store, newTestSettingsService())

	_, err := svc.Withdraw(context.Background(), "alice")
	var belowMin *utils.BelowMinimumError
	if !errors.As(err, &belowMin) {
		t.Fatalf("err = %v, want BelowMinimumError", err)
	}
	if !belowMin.Shortfall.Equal(d("5.00")) {
		t.Errorf("shortfall = %s, want 5.00", belowMin.Shortfall)
	}
	if !store.minimumSeen.Equal(d("50")) {
		t.Errorf("minimum passed = %s, want configured 50", store.minimumSeen)
	}
}

func TestWithdrawSettlesEverything(t *testing.T) {
	store := &fakeWithdrawalStore{unpaid: d("55.00"), unpaidCount: 4}
	svc := NewWithdrawalService(store, newTestSettingsService())

	req, err := svc.Withdraw(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if !req.Total.Equal(d("55.00")) || req.TransactionCount != 4 {
		t.Errorf("request = %+v, want total 55.00 over 4 transactions", req)
	}
	if store.paidBySeen != "user_request" {
		t.Errorf("paidBy = %q, want user_request", store.paidBySeen)
	}

	// Nothing left: a second withdrawal has nothing to claim.
	if _, err := svc.Withdraw(context.Background(), "alice"); !errors.Is(err, utils.ErrNothingToWithdraw) {
		t.Errorf("second withdraw err = %v, want ErrNothingToWithdraw", err)
	}

	history, err := svc.History(context.Background(), "alice")
	if err != nil || len(history) != 1 {
		t.Errorf("history = %v (%v), want one request", history, err)
	}
}
