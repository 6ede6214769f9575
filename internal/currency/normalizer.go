// Package currency converts catalog prices into the base currency using a
// static, operator-maintained rate table.
package currency

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HOLYLABS972/esim-main-sub002/internal/config"
)

// Normalizer converts amounts into the base currency. It has no side
// effects and is safe for concurrent use.
type Normalizer struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewNormalizer builds a Normalizer from the configured rate table.
func NewNormalizer(cfg config.CurrencyConfig) *Normalizer {
	rates := make(map[string]decimal.Decimal, len(cfg.Rates))
	for code, rate := range cfg.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	return &Normalizer{base: strings.ToUpper(cfg.Base), rates: rates}
}

// Base returns the base currency code.
func (n *Normalizer) Base() string {
	return n.base
}

// Normalize converts amount from sourceCurrency into the base currency.
// The base currency passes through unchanged. An unknown code falls back
// to rate 1.0 rather than failing — a sync must not abort because the
// catalog started quoting a currency the table does not cover yet — and
// logs a warning so operators extend the table.
func (n *Normalizer) Normalize(amount decimal.Decimal, sourceCurrency string) decimal.Decimal {
	code := strings.ToUpper(strings.TrimSpace(sourceCurrency))
	if code == "" || code == n.base {
		return amount
	}

	rate, ok := n.rates[code]
	if !ok {
		log.Warn().
			Str("currency", code).
			Str("base", n.base).
			Msg("no exchange rate configured, assuming 1.0")
		return amount
	}
	return amount.Mul(rate)
}
