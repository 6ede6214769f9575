package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

func seedCommissions(t *testing.T, trxRepo *TransactionRepository, userID, refPrefix string, amounts ...string) {
	t.Helper()
	for i, amount := range amounts {
		ref := refPrefix + "-" + string(rune('a'+i))
		_, _, err := trxRepo.Append(context.Background(), AppendParams{
			UserID:    userID,
			Type:      models.TrxTypeCommission,
			Amount:    dec(amount),
			Status:    models.StatusCompleted,
			Method:    models.MethodReferralCommission,
			Reference: &ref,
		})
		if err != nil {
			t.Fatalf("seed commission %s: %v", amount, err)
		}
	}
}

func TestSettle(t *testing.T) {
	db := openTestDB(t)
	trxRepo := NewTransactionRepository(db)
	repo := NewWithdrawalRepository(db)
	ctx := context.Background()

	seedCommissions(t, trxRepo, "alice", "order1", "20.00", "15.00", "10.00")

	_, err := repo.Settle(ctx, "alice", dec("50"), "admin")
	var below *utils.BelowMinimumError
	if !errors.As(err, &below) {
		t.Fatalf("err = %v, want BelowMinimumError", err)
	}
	if !below.Shortfall.Equal(dec("5.00")) {
		t.Errorf("shortfall = %s, want 5.00", below.Shortfall)
	}

	seedCommissions(t, trxRepo, "alice", "order2", "10.00")

	req, err := repo.Settle(ctx, "alice", dec("50"), "admin")
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !req.Total.Equal(dec("55.00")) || req.TransactionCount != 4 {
		t.Errorf("request = %+v, want total 55.00 over 4 transactions", req)
	}

	var unpaid int
	if err := db.Get(&unpaid, `SELECT COUNT(*) FROM transactions WHERE user_id = 'alice' AND type = 'commission' AND status = 'completed'`); err != nil {
		t.Fatalf("count unpaid: %v", err)
	}
	if unpaid != 0 {
		t.Errorf("unpaid commissions left = %d, want 0", unpaid)
	}

	balance, err := trxRepo.CurrentBalance(ctx, "alice")
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if !balance.Equal(dec("0")) {
		t.Errorf("balance after settlement = %s, want 0 (offsetting withdrawal entry)", balance)
	}

	if _, err := repo.Settle(ctx, "alice", dec("50"), "admin"); err != utils.ErrNothingToWithdraw {
		t.Errorf("re-settle err = %v, want ErrNothingToWithdraw", err)
	}
}

func TestSettleConcurrentClaimsOnce(t *testing.T) {
	db := openTestDB(t)
	trxRepo := NewTransactionRepository(db)
	repo := NewWithdrawalRepository(db)
	ctx := context.Background()

	seedCommissions(t, trxRepo, "alice", "order1", "30.00", "30.00")

	// Two settlements race on the same user; the loser blocks on the user
	// lock and then finds every commission already claimed.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Settle(ctx, "alice", dec("50"), "admin")
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case err == utils.ErrNothingToWithdraw:
			lost++
		default:
			t.Errorf("unexpected settle error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Errorf("winners = %d, losers = %d, want exactly one of each", won, lost)
	}

	var requests int
	if err := db.Get(&requests, `SELECT COUNT(*) FROM withdrawal_requests WHERE user_id = 'alice'`); err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if requests != 1 {
		t.Errorf("withdrawal requests = %d, want 1", requests)
	}

	balance, err := trxRepo.CurrentBalance(ctx, "alice")
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if !balance.Equal(dec("0")) {
		t.Errorf("balance = %s, want 0 (commissions paid out exactly once)", balance)
	}
}
