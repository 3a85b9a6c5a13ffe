// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/calk-kg/calk/pkg/constants"
)

// ValidateLanguage checks if the language is one the site is published in.
func ValidateLanguage(lang string) error {
	if lang != constants.LanguageRussian && lang != constants.LanguageKyrgyz {
		return fmt.Errorf("expected language of %s or %s, got %s",
			constants.LanguageRussian, constants.LanguageKyrgyz, lang)
	}
	return nil
}

// ValidateCurrency checks if the currency is one of the supported deposit currencies.
func ValidateCurrency(currency string) error {
	switch currency {
	case constants.CurrencyKGS, constants.CurrencyUSD, constants.CurrencyEUR, constants.CurrencyRUB:
		return nil
	}
	return fmt.Errorf("expected currency of %s, %s, %s or %s, got %s",
		constants.CurrencyKGS, constants.CurrencyUSD, constants.CurrencyEUR, constants.CurrencyRUB, currency)
}
