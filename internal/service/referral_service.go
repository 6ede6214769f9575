package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/models"
	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// codeValidity is how long a fresh referral code stays redeemable.
const codeValidity = 2 * 30 * 24 * time.Hour

// maxCodeAttempts bounds the regeneration loop on code collisions. With an
// 8-character alphanumeric space a second collision is already vanishingly
// unlikely.
const maxCodeAttempts = 5

type referralStore interface {
	Create(ctx context.Context, code *models.ReferralCode) error
	GetByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	GetActiveByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error)
	Redeem(ctx context.Context, code, userID string) error
	AddEarnings(ctx context.Context, code string, amount decimal.Decimal) error
	SetEarnings(ctx context.Context, code string, total decimal.Decimal) error
	SetCodeOnUser(ctx context.Context, userID, code, email string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type earningsSource interface {
	SumCommissionEarnings(ctx context.Context, userID string) (decimal.Decimal, error)
	SumUnpaidCommissions(ctx context.Context, userID string) (decimal.Decimal, error)
	ListRecentCommissions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
}

// ReferralService manages referral codes: issuing, redemption at signup,
// and the owner-facing stats view.
type ReferralService struct {
	store    referralStore
	earnings earningsSource
}

// NewReferralService creates a new ReferralService.
func NewReferralService(store referralStore, earnings earningsSource) *ReferralService {
	return &ReferralService{store: store, earnings: earnings}
}

// CreateCode issues a referral code for the owner. An owner holds at most
// one active code: a second create fails with ErrCodeAlreadyExists, and a
// caller wanting get-or-create resolves with ActiveCode first.
func (s *ReferralService) CreateCode(ctx context.Context, ownerID, ownerEmail string) (*models.ReferralCode, error) {
	if _, err := s.store.GetActiveByOwner(ctx, ownerID); err == nil {
		return nil, utils.ErrCodeAlreadyExists
	} else if err != utils.ErrCodeNotFound {
		return nil, err
	}

	expires := time.Now().Add(codeValidity)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		generated, err := utils.GenerateReferralCode()
		if err != nil {
			return nil, err
		}
		code := &models.ReferralCode{
			Code:       generated,
			OwnerID:    ownerID,
			OwnerEmail: ownerEmail,
			ExpiresAt:  &expires,
		}
		err = s.store.Create(ctx, code)
		if err == utils.ErrCodeCollision {
			log.Warn().Str("code", code.Code).Msg("referral code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.store.SetCodeOnUser(ctx, ownerID, code.Code, ownerEmail); err != nil {
			return nil, err
		}
		log.Info().Str("code", code.Code).Str("owner_id", ownerID).Msg("referral code created")
		return code, nil
	}
	return nil, utils.ErrCodeCollision
}

// ActiveCode returns the owner's current active code, or ErrCodeNotFound.
func (s *ReferralService) ActiveCode(ctx context.Context, ownerID string) (*models.ReferralCode, error) {
	return s.store.GetActiveByOwner(ctx, ownerID)
}

// Validate checks that a code exists and is currently redeemable. Used by
// the storefront to vet a code before signup completes.
func (s *ReferralService) Validate(ctx context.Context, code string) (*models.ReferralCode, error) {
	rc, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !rc.IsActive {
		return nil, utils.ErrCodeInactive
	}
	if rc.Expired(time.Now()) {
		return nil, utils.ErrCodeExpired
	}
	return rc, nil
}

// Redeem attributes a code to a new user. The store enforces every rule
// transactionally: unknown, inactive and expired codes are rejected, as
// are self-referrals and second redemptions by the same user.
func (s *ReferralService) Redeem(ctx context.Context, code, userID string) error {
	if err := s.store.Redeem(ctx, code, userID); err != nil {
		return err
	}
	log.Info().Str("code", code).Str("user_id", userID).Msg("referral code redeemed")
	return nil
}

// Stats builds the owner's dashboard snapshot. Earnings totals come from
// the ledger, not the cached counter on the code row.
func (s *ReferralService) Stats(ctx context.Context, ownerID string) (*models.ReferralStats, error) {
	code, err := s.store.GetActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	total, err := s.earnings.SumCommissionEarnings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.earnings.SumUnpaidCommissions(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.earnings.ListRecentCommissions(ctx, ownerID, 10)
	if err != nil {
		return nil, err
	}

	return &models.ReferralStats{
		Code:              code.Code,
		UsageCount:        code.UsageCount,
		TotalEarnings:     total,
		UnpaidEarnings:    unpaid,
		RecentCommissions: recent,
		ExpiresAt:         code.ExpiresAt,
		IsActive:          code.IsActive,
	}, nil
}

// ReconcileEarnings recomputes the owner's earnings from the ledger and
// overwrites the cached counter with the result. Returns the true total.
func (s *ReferralService) ReconcileEarnings(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	code, err := s.store.GetActiveByOwner(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	total, err := s.earnings.SumCommissionEarnings(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Equal(code.TotalEarnings) {
		log.Warn().
			Str("code", code.Code).
			Str("cached", code.TotalEarnings.String()).
			Str("ledger", total.String()).
			Msg("earnings counter drifted, reconciling")
	}
	if err := s.store.SetEarnings(ctx, code.Code, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
