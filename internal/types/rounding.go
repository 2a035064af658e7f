package types

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// RoundingMode controls how converted amounts are rounded
type RoundingMode string

const (
	// RoundingModeFixed rounds to 2 decimal places
	RoundingModeFixed RoundingMode = "fixed"
	// RoundingModeRound rounds to whole units (hundreds above 100 for UGX)
	RoundingModeRound RoundingMode = "round"
	// RoundingModeNone keeps full precision for intermediate values
	RoundingModeNone RoundingMode = "none"
)

var ugxHundredThreshold = decimal.NewFromInt(100)

func (m RoundingMode) String() string {
	return string(m)
}

func (m RoundingMode) Validate() error {
	allowed := []RoundingMode{
		RoundingModeFixed,
		RoundingModeRound,
		RoundingModeNone,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid rounding mode").
			WithHint("Rounding mode must be one of fixed, round or none").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"mode":    m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RoundingModeForCurrency picks the normalizer mode matching a currency's precision class
func RoundingModeForCurrency(currency string) RoundingMode {
	if IsZeroDecimalCurrency(currency) {
		return RoundingModeRound
	}
	return RoundingModeFixed
}

// RoundWithMode applies a normalizer rounding mode to a single amount
func RoundWithMode(amount decimal.Decimal, currency string, mode RoundingMode) decimal.Decimal {
	switch mode {
	case RoundingModeFixed:
		return amount.Round(DefaultCurrencyPrecision)
	case RoundingModeRound:
		if NormalizeCurrency(currency) == CurrencyUGX && amount.GreaterThan(ugxHundredThreshold) {
			return amount.Round(-2)
		}
		return amount.Round(0)
	default:
		return amount
	}
}

// RoundAmount rounds an amount to the display precision of the currency:
// whole units for zero-decimal currencies, 2 decimals for everything else.
func RoundAmount(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(GetCurrencyPrecision(currency))
}
