package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestUserDiscountClass(t *testing.T) {
	code := "ABC12345"
	empty := ""

	tests := []struct {
		name string
		user User
		want DiscountClass
	}{
		{"no attribution", User{}, ClassRegular},
		{"empty attribution", User{ReferralCodeUsed: &empty}, ClassRegular},
		{"attributed", User{ReferralCodeUsed: &code}, ClassReferral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DiscountClass(); got != tt.want {
				t.Errorf("DiscountClass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReferralCodeExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&ReferralCode{}).Expired(now) {
		t.Error("code without expiry must never expire")
	}
	if (&ReferralCode{ExpiresAt: &future}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
	if !(&ReferralCode{ExpiresAt: &past}).Expired(now) {
		t.Error("past expiry should be expired")
	}
}

func TestConfigFor(t *testing.T) {
	s := PricingSettings{
		Referral: DiscountConfig{DiscountPercentage: decimal.NewFromInt(17)},
		Regular:  DiscountConfig{DiscountPercentage: decimal.NewFromInt(10)},
	}
	if got := s.ConfigFor(ClassReferral); !got.DiscountPercentage.Equal(decimal.NewFromInt(17)) {
		t.Errorf("referral config = %v", got)
	}
	if got := s.ConfigFor(ClassRegular); !got.DiscountPercentage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("regular config = %v", got)
	}
	if got := s.ConfigFor("unknown"); !got.DiscountPercentage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unknown class should fall back to regular, got %v", got)
	}
}
