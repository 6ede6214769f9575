package dataplans

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Country is a canonical country record from the provider.
type Country struct {
	Code    string
	Name    string
	FlagURL string
}

// Plan is a canonical plan record from the provider. Price and currency
// are whatever the provider quotes; normalization into the base currency
// happens during sync.
type Plan struct {
	Slug         string
	Name         string
	Description  string
	Price        decimal.Decimal
	Currency     string
	CapacityGB   decimal.Decimal
	Unlimited    bool
	PeriodDays   int
	CountryCodes []string
	Region       string
	Operator     string
}

// Ordered alias lists per concept. The provider has renamed these fields
// across API vintages; first non-empty match wins.
var (
	priceAliases    = []string{"retailPrice", "price", "priceAmount", "cost", "amount", "price_amount", "price_value"}
	currencyAliases = []string{"priceCurrency", "currency", "price_currency", "priceCurrencyCode", "currencyCode"}
	countryAliases  = []string{"countries", "countryCodes", "country_codes"}
)

// UnmarshalJSON resolves field aliases into the canonical struct.
func (c *Country) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Code = firstString(raw, "countryCode", "code")
	c.Name = firstString(raw, "countryName", "name")
	c.FlagURL = firstString(raw, "flagUrl", "flag", "image")
	return nil
}

// UnmarshalJSON resolves price, currency and country-code aliases into the
// canonical struct. A capacity of -1 is the provider's unlimited sentinel.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Slug = firstString(raw, "slug")
	p.Name = firstString(raw, "name")
	p.Description = firstString(raw, "description")
	p.Region = firstString(raw, "region")
	p.Operator = firstString(raw, "operator")

	p.Price = firstDecimal(raw, priceAliases...)
	// Older vintages nest the price as {"price": {"amount": ..., "currency": ...}}.
	if p.Price.IsZero() {
		if nested, ok := rawObject(raw, "price"); ok {
			p.Price = firstDecimal(nested, "amount", "value")
			if cur := firstString(nested, "currency", "currencyCode"); cur != "" {
				p.Currency = cur
			}
		}
	}

	if p.Currency == "" {
		p.Currency = firstString(raw, currencyAliases...)
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}

	capacity := firstDecimal(raw, "capacity", "dataAmount", "data_amount")
	if capacity.Equal(decimal.NewFromInt(-1)) {
		p.Unlimited = true
		capacity = decimal.Zero
	}
	p.CapacityGB = capacity

	p.PeriodDays = int(firstDecimal(raw, "period", "validity", "validityDays").IntPart())
	p.CountryCodes = resolveCountryCodes(raw)
	return nil
}

// resolveCountryCodes accepts either a bare list of codes or a list of
// objects carrying a code field, under any of the known aliases.
func resolveCountryCodes(raw map[string]json.RawMessage) []string {
	for _, alias := range countryAliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}

		var codes []string
		if err := json.Unmarshal(v, &codes); err == nil {
			return codes
		}

		var objs []struct {
			Code        string `json:"code"`
			CountryCode string `json:"countryCode"`
		}
		if err := json.Unmarshal(v, &objs); err == nil {
			codes = make([]string, 0, len(objs))
			for _, o := range objs {
				if o.Code != "" {
					codes = append(codes, o.Code)
				} else if o.CountryCode != "" {
					codes = append(codes, o.CountryCode)
				}
			}
			return codes
		}
	}
	return nil
}

func rawObject(raw map[string]json.RawMessage, key string) (map[string]json.RawMessage, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(v, &nested); err != nil {
		return nil, false
	}
	return nested, true
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// firstDecimal returns the first alias that decodes to a number, accepting
// both JSON numbers and numeric strings (the provider has shipped both).
func firstDecimal(raw map[string]json.RawMessage, keys ...string) decimal.Decimal {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var d decimal.Decimal
		if err := json.Unmarshal(v, &d); err == nil && !d.IsZero() {
			return d
		}
	}
	return decimal.Zero
}
