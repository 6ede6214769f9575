package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralCode is a shareable code owned by one user. UsageCount and
// TotalEarnings are denormalized read optimizations; the ledger is the
// source of truth and RecalculateEarnings reconciles against it.
type ReferralCode struct {
	Code          string          `db:"code" json:"code"`
	OwnerID       string          `db:"owner_id" json:"ownerId"`
	OwnerEmail    string          `db:"owner_email" json:"ownerEmail"`
	UsageCount    int             `db:"usage_count" json:"usageCount"`
	TotalEarnings decimal.Decimal `db:"total_earnings" json:"totalEarnings"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	ExpiresAt     *time.Time      `db:"expires_at" json:"expiresAt,omitempty"`
	LastUsedAt    *time.Time      `db:"last_used_at" json:"lastUsedAt,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

// Expired reports whether the code is past its expiry date.
func (r *ReferralCode) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// ReferralStats is the per-owner snapshot rendered by the affiliate
// dashboard. Earnings are recomputed from commission transactions, not
// read from the cached counter.
type ReferralStats struct {
	Code              string          `json:"code"`
	UsageCount        int             `json:"usageCount"`
	TotalEarnings     decimal.Decimal `json:"totalEarnings"`
	UnpaidEarnings    decimal.Decimal `json:"unpaidEarnings"`
	RecentCommissions []Transaction   `json:"recentCommissions"`
	ExpiresAt         *time.Time      `json:"expiresAt,omitempty"`
	IsActive          bool            `json:"isActive"`
}
