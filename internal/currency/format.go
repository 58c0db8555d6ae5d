package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders amount with the currency's symbol and standard rounding.
// Codes that are not ISO 4217 fall back to "<CODE> 0.00".
func Format(amount decimal.Decimal, code string) string {
	code = Normalize(code, "USD")
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}
	scale, _ := currency.Standard.Rounding(unit)
	f, _ := amount.Round(int32(scale)).Float64()
	return printer.Sprint(currency.Symbol(unit.Amount(f)))
}

// Decimals returns the number of minor-unit digits for code (2 when unknown).
func Decimals(code string) int {
	unit, err := currency.ParseISO(Normalize(code, "USD"))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Known reports whether code is an ISO 4217 currency.
func Known(code string) bool {
	_, err := currency.ParseISO(Normalize(code, ""))
	return err == nil
}
