package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// RateTable holds every published rate for one base currency on one day.
// Rates are keyed by lower-cased currency code: one unit of Base buys Rates[code] units.
type RateTable struct {
	Base      string                     `json:"base"`
	Date      string                     `json:"date"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Rate returns the rate from the table's base to target
func (t *RateTable) Rate(target string) (decimal.Decimal, error) {
	code := strings.ToLower(strings.TrimSpace(target))
	if code == strings.ToLower(t.Base) {
		return decimal.NewFromInt(1), nil
	}

	rate, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, ierr.NewError("unsupported currency").
			WithHintf("Currency %s is not supported", strings.ToUpper(code)).
			WithReportableDetails(map[string]any{
				"currency": strings.ToUpper(code),
				"base":     strings.ToUpper(t.Base),
			}).
			Mark(ierr.ErrValidation)
	}
	if !rate.IsPositive() {
		return decimal.Zero, ierr.NewError("non-positive exchange rate").
			WithHintf("Exchange rate for %s is unavailable", strings.ToUpper(code)).
			Mark(ierr.ErrUpstreamUnavailable)
	}
	return rate, nil
}

// Snapshot records the rate used for one conversion. It is kept at full precision.
type Snapshot struct {
	Rate           decimal.Decimal `json:"rate"`
	BaseCurrency   string          `json:"base_currency"`
	TargetCurrency string          `json:"target_currency"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Converter converts amounts between currencies
type Converter interface {
	// ConversionRate returns the multiplier taking an amount in from to an amount in to
	ConversionRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	// Convert returns amount expressed in to
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}
