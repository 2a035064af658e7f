package types

import (
	"strings"

	"github.com/samber/lo"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"hkd": "HK$",
	"sgd": "S$",
	"jpy": "¥",
	"cny": "¥",
	"inr": "₹",
	"brl": "R$",
	"rub": "₽",
	"mxn": "MX$",
	"krw": "₩",
	"try": "₺",
	"zar": "R",
	"myr": "RM",
	"ugx": "USh",
	"vnd": "₫",
	"clp": "CLP$",
	"aed": "AED",
}

// zeroDecimalCurrencies have no minor unit for display purposes and are
// rounded to whole units.
var zeroDecimalCurrencies = []string{
	"bif", "clp", "djf", "gnf", "jpy", "kmf", "krw", "mga",
	"pyg", "rwf", "ugx", "vnd", "vuv", "xaf", "xof", "xpf",
}

const (
	// CurrencyUSD is the pivot currency all conversions are routed through
	CurrencyUSD = "USD"

	// CurrencyUGX gets hundred-unit rounding above 100 in round mode
	CurrencyUGX = "UGX"

	DefaultCurrencyPrecision     = 2
	ZeroDecimalCurrencyPrecision = 0
)

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return code
}

// NormalizeCurrency upper-cases and trims an ISO code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsZeroDecimalCurrency reports whether the currency is displayed without a fractional part
func IsZeroDecimalCurrency(code string) bool {
	return lo.Contains(zeroDecimalCurrencies, strings.ToLower(strings.TrimSpace(code)))
}

// GetCurrencyPrecision returns the number of decimal places used for display
func GetCurrencyPrecision(code string) int32 {
	if IsZeroDecimalCurrency(code) {
		return ZeroDecimalCurrencyPrecision
	}
	return DefaultCurrencyPrecision
}

// ValidateCurrencyCode checks that the code looks like an ISO 4217 alpha code.
// Whether a rate exists for it is decided by the exchange rate gateway.
func ValidateCurrencyCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) != 3 {
		return ierr.NewError("invalid currency code").
			WithHintf("Currency code %q must have exactly 3 letters", code).
			WithReportableDetails(map[string]any{"currency": code}).
			Mark(ierr.ErrValidation)
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return ierr.NewError("invalid currency code").
				WithHintf("Currency code %q must contain only letters", code).
				WithReportableDetails(map[string]any{"currency": code}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
