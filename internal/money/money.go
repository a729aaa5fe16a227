package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RoundCents rounds v half away from zero to two decimals.
// Going through decimal avoids the binary drift of math.Round(v*100)/100
// on values like 1.005.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round rounds v half away from zero to the given number of places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Sum adds values in decimal space and returns the float result.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// ValidCurrency reports whether code is a recognised ISO 4217 currency.
func ValidCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with two decimals, thousands grouping and the
// ISO currency code, e.g. "USD 1,250.00".
func Format(code string, amount float64) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	text := printer.Sprintf("%.2f", RoundCents(amount))
	if code == "" {
		return text
	}
	return fmt.Sprintf("%s %s", code, text)
}
