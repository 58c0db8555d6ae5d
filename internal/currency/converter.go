// Package currency converts amounts between currency codes using a rate table
// of per-unit rates, and formats amounts per currency conventions.
package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

// DefaultRates is the USD-anchored table used until the user saves or fetches rates.
var DefaultRates = models.ExchangeRates{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.5,
	"INR": 83.1,
	"CAD": 1.36,
	"AUD": 1.52,
	"CHF": 0.88,
	"CNY": 7.24,
	"BRL": 4.97,
	"MXN": 17.1,
	"SGD": 1.34,
	"ZAR": 18.6,
	"SEK": 10.5,
	"NZD": 1.64,
}

type Converter struct {
	base  string
	rates models.ExchangeRates
}

// NewConverter returns a converter over rates. A nil or empty table falls back
// to DefaultRates.
func NewConverter(base string, rates models.ExchangeRates) *Converter {
	if len(rates) == 0 {
		rates = DefaultRates
	}
	return &Converter{base: Normalize(base, models.DefaultCurrency), rates: rates}
}

func (c *Converter) Base() string { return c.base }

// Normalize upper-cases code and maps blank codes to fallback.
func Normalize(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

// Rate returns the table rate of code. The table keeps its own anchor, which
// need not be the base. Unknown or unusable rates count as 1 so a stray code
// never blocks a report.
func (c *Converter) Rate(code string) decimal.Decimal {
	code = Normalize(code, c.base)
	r, ok := c.rates[code]
	if !ok || r <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(r)
}

// Convert returns amount / rate(from) * rate(to). Same-currency conversion
// returns amount untouched.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	from = Normalize(from, c.base)
	to = Normalize(to, c.base)
	if from == to {
		return amount
	}
	return amount.Div(c.Rate(from)).Mul(c.Rate(to))
}

// Codes lists the codes present in the rate table plus the base, sorted.
func (c *Converter) Codes() []string {
	seen := map[string]struct{}{c.base: {}}
	for code := range c.rates {
		seen[code] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
