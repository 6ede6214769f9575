package currency

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/config"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(config.CurrencyConfig{
		Base: "usd",
		Rates: map[string]decimal.Decimal{
			"thb": decimal.RequireFromString("0.028"),
			"EUR": decimal.RequireFromString("1.08"),
		},
	})
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"base currency passes through", "9.99", "USD", "9.99"},
		{"base currency case-insensitive", "9.99", "usd", "9.99"},
		{"empty currency passes through", "5", "", "5"},
		{"known rate applied", "100", "THB", "2.8"},
		{"rate key case-insensitive", "10", "eur", "10.8"},
		{"unknown currency falls back to 1.0", "42.50", "XYZ", "42.5"},
		{"zero amount", "0", "THB", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(decimal.RequireFromString(tt.amount), tt.currency)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Normalize(%s, %s) = %s, want %s", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestBase(t *testing.T) {
	if got := newTestNormalizer().Base(); got != "USD" {
		t.Errorf("Base() = %q, want USD", got)
	}
}
