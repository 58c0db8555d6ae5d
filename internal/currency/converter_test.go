package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

func TestConvertSameCurrencyIsIdentity(t *testing.T) {
	rates := models.ExchangeRates{"EUR": 0.3333333, "JPY": 151.77}
	c := NewConverter("USD", rates)
	amounts := []string{"0.1", "0.2", "1234.5678", "99999999.99", "0.0000001"}
	for _, code := range []string{"USD", "EUR", "JPY", "XYZ", ""} {
		for _, raw := range amounts {
			amt := decimal.RequireFromString(raw)
			got := c.Convert(amt, code, code)
			if !got.Equal(amt) || got.String() != amt.String() {
				t.Fatalf("Convert(%s, %q, %q) = %s", raw, code, code, got)
			}
		}
	}
}

func TestConvertAcrossCurrencies(t *testing.T) {
	c := NewConverter("USD", models.ExchangeRates{"EUR": 0.5, "GBP": 0.25})

	got := c.Convert(decimal.NewFromInt(10), "EUR", "USD")
	if !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("EUR->USD = %s, want 20", got)
	}
	got = c.Convert(decimal.NewFromInt(10), "EUR", "GBP")
	if !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("EUR->GBP = %s, want 5", got)
	}
}

func TestBaseDoesNotOverrideTableRate(t *testing.T) {
	c := NewConverter("EUR", nil)
	got := c.Convert(decimal.NewFromInt(100), "USD", "EUR")
	if !got.Equal(decimal.NewFromInt(92)) {
		t.Fatalf("USD->EUR with base EUR = %s, want 92", got)
	}
	got = c.Convert(decimal.NewFromInt(92), "", "USD")
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("blank(EUR)->USD = %s, want 100", got)
	}
	if !c.Rate("EUR").Equal(decimal.NewFromFloat(0.92)) {
		t.Fatalf("base rate should come from the table, got %s", c.Rate("EUR"))
	}
}

func TestUnknownCurrencyDefaultsToRateOne(t *testing.T) {
	c := NewConverter("USD", models.ExchangeRates{"EUR": 0.5})
	got := c.Convert(decimal.NewFromInt(7), "ABC", "USD")
	if !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("unknown code conversion = %s, want 7", got)
	}
	if !c.Rate("zzz").Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unknown rate should be 1")
	}
}

func TestBlankCodeIsBase(t *testing.T) {
	c := NewConverter("EUR", models.ExchangeRates{"EUR": 0.5, "USD": 1})
	got := c.Convert(decimal.NewFromInt(3), "", "eur")
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("blank->EUR = %s, want 3", got)
	}
}

func TestNilRatesUseDefaults(t *testing.T) {
	c := NewConverter("", nil)
	if c.Base() != "USD" {
		t.Fatalf("base = %q, want USD", c.Base())
	}
	if !c.Rate("EUR").Equal(decimal.NewFromFloat(DefaultRates["EUR"])) {
		t.Fatalf("expected default EUR rate")
	}
}

func TestFormat(t *testing.T) {
	out := Format(decimal.RequireFromString("12.5"), "usd")
	if !strings.Contains(out, "12.50") || !strings.Contains(out, "$") {
		t.Fatalf("Format USD = %q", out)
	}
	out = Format(decimal.RequireFromString("3.456"), "XYZ")
	if out != "XYZ 3.46" {
		t.Fatalf("Format XYZ = %q", out)
	}
	if Decimals("JPY") != 0 || Decimals("EUR") != 2 {
		t.Fatalf("unexpected decimals: JPY=%d EUR=%d", Decimals("JPY"), Decimals("EUR"))
	}
}

func TestKnown(t *testing.T) {
	if !Known("eur") || Known("XYZ") || Known("") {
		t.Fatalf("Known mismatch")
	}
}
