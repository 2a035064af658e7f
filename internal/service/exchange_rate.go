package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
	"golang.org/x/sync/singleflight"
)

// ExchangeRateService fetches and caches daily rate tables. Every conversion is
// routed through the pivot currency, so only the pivot's table is ever fetched.
type ExchangeRateService interface {
	exchange.Converter

	// GetRates returns the full table for baseCurrency, from cache when fresh
	GetRates(ctx context.Context, baseCurrency string) (*exchange.RateTable, error)
	// GetCurrencyWiseRate returns the rate from base to target
	GetCurrencyWiseRate(ctx context.Context, target, base string) (decimal.Decimal, error)
	// Snapshot returns the pivot conversion rate from one currency to another
	// together with the time its table was fetched
	Snapshot(ctx context.Context, from, to string) (exchange.Snapshot, error)
}

type exchangeRateService struct {
	ServiceParams
	rates *cache.ExpirableLRU[*exchange.RateTable]
	group singleflight.Group
	pivot string
}

// NewExchangeRateService creates the rate gateway on top of an injected table cache
func NewExchangeRateService(params ServiceParams, rates *cache.ExpirableLRU[*exchange.RateTable]) ExchangeRateService {
	pivot := types.CurrencyUSD
	if params.Config != nil && params.Config.ExchangeRate.PivotCurrency != "" {
		pivot = types.NormalizeCurrency(params.Config.ExchangeRate.PivotCurrency)
	}
	return &exchangeRateService{
		ServiceParams: params,
		rates:         rates,
		pivot:         pivot,
	}
}

// NewRateTableCache builds the bounded rate table cache from configuration
func NewRateTableCache(params ServiceParams) *cache.ExpirableLRU[*exchange.RateTable] {
	ec := params.Config.ExchangeRate
	return cache.NewExpirableLRU[*exchange.RateTable](ec.CacheCapacity, ec.CacheTTL, params.Clock)
}

func (s *exchangeRateService) GetRates(ctx context.Context, baseCurrency string) (*exchange.RateTable, error) {
	if err := types.ValidateCurrencyCode(baseCurrency); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(baseCurrency))

	if table, ok := s.rates.Get(key); ok {
		return table, nil
	}

	// concurrent misses for the same base share one fetch. The fetch outlives
	// any single caller; each caller only waits as long as its own context.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		if table, ok := s.rates.Get(key); ok {
			return table, nil
		}

		table, err := s.RateSource.Fetch(fetchCtx, key, s.Clock.Now())
		if err != nil {
			return nil, err
		}

		s.rates.Set(key, table)
		s.Logger.Debugw("cached exchange rate table",
			"base", key,
			"date", table.Date,
			"currencies", len(table.Rates),
		)
		return table, nil
	})

	select {
	case <-ctx.Done():
		return nil, ierr.WithError(ctx.Err()).
			WithHint("Exchange rate lookup was cancelled").
			Mark(ierr.ErrUpstreamUnavailable)
	case res := <-ch:
		if res.Err != nil {
			s.Logger.Warnw("exchange rate lookup failed", "base", key, "shared", res.Shared, "error", res.Err)
			return nil, res.Err
		}
		return res.Val.(*exchange.RateTable), nil
	}
}

func (s *exchangeRateService) GetCurrencyWiseRate(ctx context.Context, target, base string) (decimal.Decimal, error) {
	table, err := s.GetRates(ctx, base)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Rate(target)
}

func (s *exchangeRateService) ConversionRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	snapshot, err := s.Snapshot(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.Rate, nil
}

func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := s.ConversionRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

func (s *exchangeRateService) Snapshot(ctx context.Context, from, to string) (exchange.Snapshot, error) {
	from = types.NormalizeCurrency(from)
	to = types.NormalizeCurrency(to)
	if err := types.ValidateCurrencyCode(from); err != nil {
		return exchange.Snapshot{}, err
	}
	if err := types.ValidateCurrencyCode(to); err != nil {
		return exchange.Snapshot{}, err
	}

	if from == to {
		return exchange.Snapshot{
			Rate:           decimal.NewFromInt(1),
			BaseCurrency:   from,
			TargetCurrency: to,
			Timestamp:      s.Clock.Now(),
		}, nil
	}

	table, err := s.GetRates(ctx, s.pivot)
	if err != nil {
		return exchange.Snapshot{}, err
	}

	toRate, err := table.Rate(to)
	if err != nil {
		return exchange.Snapshot{}, err
	}
	fromRate, err := table.Rate(from)
	if err != nil {
		return exchange.Snapshot{}, err
	}

	return exchange.Snapshot{
		Rate:           toRate.Div(fromRate),
		BaseCurrency:   from,
		TargetCurrency: to,
		Timestamp:      table.FetchedAt,
	}, nil
}
