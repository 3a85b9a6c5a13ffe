// Package constants provides shared constants for the calk application.
package constants

// DateTimeLayout is the month format used for payment schedule dates.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MaxTermMonths is the longest credit or deposit term accepted, in months
	MaxTermMonths = 600

	// MaxTermYears is the longest mortgage term accepted, in years
	MaxTermYears = MaxTermMonths / MonthsPerYear

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 tyiyn)
	CurrencyTolerance = 0.01
)

// Tax constants
const (
	// ApartmentBenefitArea is the tax-free area for an apartment in square meters
	ApartmentBenefitArea = 80.0

	// HouseBenefitArea is the tax-free area for a house in square meters
	HouseBenefitArea = 150.0

	// SingleTaxTurnoverLimit is the annual turnover ceiling (KGS) for the single tax regime
	SingleTaxTurnoverLimit = 12000000.0
)

// Currency codes
const (
	CurrencyKGS = "KGS"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyRUB = "RUB"
)

// Languages
const (
	LanguageRussian = "ru"
	LanguageKyrgyz  = "ky"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "calk.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "CALK"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultBaseURL is the canonical public URL of the site
	DefaultBaseURL = "https://calk.kg"

	// DefaultSiteName is the public name of the site
	DefaultSiteName = "Calk.KG"

	// DefaultContactEmail is the public contact address
	DefaultContactEmail = "info@calk.kg"

	// DefaultRequestsPerSecond is the per-client sustained request rate
	DefaultRequestsPerSecond = 10.0

	// DefaultBurst is the per-client burst size
	DefaultBurst = 30

	// SoftwareVersion is the version advertised in structured data
	SoftwareVersion = "2026.1"
)
