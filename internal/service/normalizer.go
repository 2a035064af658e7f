package service

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/types"
)

// CurrencyNormalizer converts the listed numeric fields of a payload from the
// host currency to the guest currency with a single pivot rate
type CurrencyNormalizer interface {
	// Normalize returns a converted copy of payload and the rate it used.
	// Fields named in keys are multiplied by the rate at any depth; every other
	// field passes through unchanged. payload itself is never modified.
	Normalize(ctx context.Context, payload map[string]any, keys []string, hostCurrency, guestCurrency string, mode types.RoundingMode) (map[string]any, decimal.Decimal, error)
	// NormalizeWithRate is Normalize with a rate the caller already resolved
	NormalizeWithRate(payload map[string]any, keys []string, rate decimal.Decimal, guestCurrency string, mode types.RoundingMode) (map[string]any, error)
}

type currencyNormalizer struct {
	rates ExchangeRateService
}

func NewCurrencyNormalizer(rates ExchangeRateService) CurrencyNormalizer {
	return &currencyNormalizer{rates: rates}
}

func (n *currencyNormalizer) Normalize(
	ctx context.Context,
	payload map[string]any,
	keys []string,
	hostCurrency, guestCurrency string,
	mode types.RoundingMode,
) (map[string]any, decimal.Decimal, error) {
	if err := mode.Validate(); err != nil {
		return nil, decimal.Zero, err
	}

	rate, err := n.rates.ConversionRate(ctx, hostCurrency, guestCurrency)
	if err != nil {
		return nil, decimal.Zero, err
	}

	out, err := n.NormalizeWithRate(payload, keys, rate, guestCurrency, mode)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return out, rate, nil
}

func (n *currencyNormalizer) NormalizeWithRate(
	payload map[string]any,
	keys []string,
	rate decimal.Decimal,
	guestCurrency string,
	mode types.RoundingMode,
) (map[string]any, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	w := &payloadWalker{
		keys:     lo.SliceToMap(keys, func(k string) (string, struct{}) { return k, struct{}{} }),
		rate:     rate,
		currency: guestCurrency,
		mode:     mode,
	}
	return w.walkMap(payload), nil
}

type payloadWalker struct {
	keys     map[string]struct{}
	rate     decimal.Decimal
	currency string
	mode     types.RoundingMode
}

func (w *payloadWalker) walkMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		_, listed := w.keys[k]
		out[k] = w.walk(v, listed)
	}
	return out
}

func (w *payloadWalker) walk(v any, convert bool) any {
	switch val := v.(type) {
	case map[string]any:
		return w.walkMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = w.walk(item, convert)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = w.walkMap(item)
		}
		return out
	}

	if !convert {
		return v
	}
	amount, ok := toDecimal(v)
	if !ok {
		return v
	}
	return types.RoundWithMode(amount.Mul(w.rate), w.currency, w.mode)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int32:
		return decimal.NewFromInt32(val), true
	case int64:
		return decimal.NewFromInt(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
