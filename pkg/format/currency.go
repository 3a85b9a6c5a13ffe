// Package format renders amounts the way the site displays them.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/calk-kg/calk/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FractionDigits returns how many decimals are shown for a currency. Som amounts
// are shown whole, foreign currencies with two decimals.
func FractionDigits(currency string) int {
	if currency == "" || currency == constants.CurrencyKGS {
		return 0
	}
	return 2
}

// Number returns the amount with space-separated thousands and the given
// number of decimals (e.g., "-1 234 567.50").
func Number(amount float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	formatted := printer.Sprintf(fmt.Sprintf("%%.%df", digits), amount)
	formatted = strings.ReplaceAll(formatted, ",", " ")
	if formatted == "-0" || strings.HasPrefix(formatted, "-0.") && strings.Trim(formatted[1:], "0.") == "" {
		formatted = formatted[1:]
	}
	return formatted
}

// Amount returns a currency string with the currency code suffix (e.g., "1 200 000 KGS").
func Amount(amount float64, currency string) string {
	if currency == "" {
		currency = constants.CurrencyKGS
	}
	return Number(amount, FractionDigits(currency)) + " " + currency
}

// Percent returns a rate with up to two decimals and a percent sign (e.g., "17.5%").
func Percent(rate float64) string {
	formatted := fmt.Sprintf("%.2f", rate)
	formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	return formatted + "%"
}
