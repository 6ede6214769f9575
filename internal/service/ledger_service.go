package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/repository"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

type ledgerStore interface {
	Append(ctx context.Context, p repository.AppendParams) (*models.Transaction, bool, error)
	CurrentBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}

// PurchaseEvent is the payload of a purchase-completed notification.
// PurchaseID is the upstream order id and doubles as the commission
// idempotency key. Amount is denominated in Currency (empty means the
// base currency). ReferralCode is an optional hint from the checkout
// flow; the buyer's stored attribution wins when both are present.
type PurchaseEvent struct {
	PurchaseID   string          `json:"purchaseId" binding:"required"`
	UserID       string          `json:"userId" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency,omitempty"`
	ReferralCode string          `json:"referralCode,omitempty"`
}

// LedgerService owns commission credits and balance reads on top of the
// transaction ledger. The ledger is denominated in the base currency, so
// purchase amounts go through the rate table before any percentage math.
type LedgerService struct {
	ledger    ledgerStore
	referrals referralStore
	settings  *SettingsService
	rates     priceNormalizer
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledger ledgerStore, referrals referralStore, settings *SettingsService, rates priceNormalizer) *LedgerService {
	return &LedgerService{ledger: ledger, referrals: referrals, settings: settings, rates: rates}
}

// CreditCommission pays the referrer's cut for one completed purchase.
// It returns (nil, nil) when the buyer has no referral attribution, and
// the existing entry when the purchase id was already credited — replays
// of the same event are harmless.
func (s *LedgerService) CreditCommission(ctx context.Context, event PurchaseEvent) (*models.Transaction, error) {
	attributed, err := s.resolveAttribution(ctx, event)
	if err != nil || attributed == "" {
		return nil, err
	}

	code, err := s.referrals.GetByCode(ctx, attributed)
	if err != nil {
		if err == utils.ErrCodeNotFound {
			log.Warn().
				Str("code", attributed).
				Str("user_id", event.UserID).
				Msg("buyer attributed to a referral code that no longer exists")
			return nil, nil
		}
		return nil, err
	}
	if code.OwnerID == event.UserID {
		return nil, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	amount := s.rates.Normalize(event.Amount, event.Currency)
	commission := amount.Mul(settings.TransactionCommissionPercentage).Div(oneHundred).Round(2)
	if commission.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	desc := fmt.Sprintf("Commission for purchase %s", event.PurchaseID)
	ref := event.PurchaseID
	trx, existed, err := s.ledger.Append(ctx, repository.AppendParams{
		UserID:       code.OwnerID,
		Type:         models.TrxTypeCommission,
		Amount:       commission,
		Status:       models.StatusCompleted,
		Method:       models.MethodReferralCommission,
		Reference:    &ref,
		ReferralCode: &code.Code,
		Description:  &desc,
	})
	if err != nil {
		return nil, err
	}
	if existed {
		log.Info().Str("purchase_id", event.PurchaseID).Msg("commission already credited, skipping replay")
		return trx, nil
	}

	// The counter is advisory; a failed bump is reconciled later, never
	// rolled back against the ledger.
	if err := s.referrals.AddEarnings(ctx, code.Code, commission); err != nil {
		log.Warn().Err(err).Str("code", code.Code).Msg("failed to bump earnings counter")
	}

	log.Info().
		Str("purchase_id", event.PurchaseID).
		Str("referrer_id", code.OwnerID).
		Str("amount", commission.StringFixed(2)).
		Msg("commission credited")
	return trx, nil
}

// resolveAttribution returns the referral code the purchase should be
// credited against, or "" when no commission is due. The stored attribution
// on the buyer's account takes precedence over the event's hint.
func (s *LedgerService) resolveAttribution(ctx context.Context, event PurchaseEvent) (string, error) {
	buyer, err := s.referrals.GetUser(ctx, event.UserID)
	if err != nil && err != utils.ErrNotFound {
		return "", err
	}
	if err == nil && buyer.ReferralCodeUsed != nil && *buyer.ReferralCodeUsed != "" {
		return *buyer.ReferralCodeUsed, nil
	}
	return event.ReferralCode, nil
}

// Balance returns the user's current ledger balance.
func (s *LedgerService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.ledger.CurrentBalance(ctx, userID)
}

// Credit appends an administrative balance addition for a user.
func (s *LedgerService) Credit(ctx context.Context, userID string, amount decimal.Decimal, description, addedBy string) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	desc := description
	trx, _, err := s.ledger.Append(ctx, repository.AppendParams{
		UserID:      userID,
		Type:        models.TrxTypeDeposit,
		Amount:      amount,
		Status:      models.StatusCompleted,
		Method:      models.MethodAdminBalanceAddition,
		Description: &desc,
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("user_id", userID).
		Str("amount", amount.StringFixed(2)).
		Str("added_by", addedBy).
		Msg("balance credited")
	return trx, nil
}
