package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/testutil"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceSuite struct {
	testutil.BaseServiceTestSuite
	engine *testEngine
}

func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceSuite))
}

func (s *ExchangeRateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.engine = newTestEngine(&s.BaseServiceTestSuite)
}

func (s *ExchangeRateServiceSuite) usdCalls() int {
	return s.GetHTTPClient().CallCount(testutil.RatesPath(types.CurrencyUSD))
}

func (s *ExchangeRateServiceSuite) TestGetRatesCachesTable() {
	table, err := s.engine.rates.GetRates(s.GetContext(), "usd")
	s.NoError(err)
	s.Equal("usd", table.Base)
	s.Equal(types.FormatDate(s.GetNow()), table.Date)
	s.True(table.Rates["eur"].Equal(dec("0.9")))
	s.Equal(s.GetNow(), table.FetchedAt)

	again, err := s.engine.rates.GetRates(s.GetContext(), "USD")
	s.NoError(err)
	s.Same(table, again)
	s.Equal(1, s.usdCalls())
}

func (s *ExchangeRateServiceSuite) TestGetRatesRefetchesAfterTTL() {
	_, err := s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
	s.NoError(err)

	s.GetClock().Advance(s.GetConfig().ExchangeRate.CacheTTL - time.Minute)
	_, err = s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
	s.NoError(err)
	s.Equal(1, s.usdCalls())

	s.GetClock().Advance(2 * time.Minute)
	table, err := s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
	s.NoError(err)
	s.Equal(2, s.usdCalls())
	s.Equal(s.GetClock().Now(), table.FetchedAt)
}

func (s *ExchangeRateServiceSuite) TestGetRatesEvictsLeastRecentlyUsed() {
	date := types.FormatDate(s.GetNow())
	s.GetHTTPClient().RegisterRates("eur", date, map[string]float64{"usd": 1.11})
	s.GetHTTPClient().RegisterRates("gbp", date, map[string]float64{"usd": 1.25})

	rates := cache.NewExpirableLRU[*exchange.RateTable](2, time.Hour, s.GetClock())
	svc := NewExchangeRateService(s.engine.params, rates)

	for _, base := range []string{"usd", "eur", "gbp"} {
		_, err := svc.GetRates(s.GetContext(), base)
		s.NoError(err)
	}
	s.Equal(2, rates.Len())

	// usd was the oldest entry and is fetched again
	_, err := svc.GetRates(s.GetContext(), "usd")
	s.NoError(err)
	s.Equal(2, s.usdCalls())
	s.Equal(1, s.GetHTTPClient().CallCount(testutil.RatesPath("gbp")))
}

func (s *ExchangeRateServiceSuite) TestGetRatesSharesConcurrentFetch() {
	body := `{"date":"2024-03-04","usd":{"eur":0.9,"jpy":150}}`
	s.GetHTTPClient().RegisterResponse(testutil.RatesPath(types.CurrencyUSD), testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Delay:      100 * time.Millisecond,
	})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	s.Equal(1, s.usdCalls())
}

func (s *ExchangeRateServiceSuite) TestGetRatesCancelledCallerDoesNotFailOthers() {
	body := `{"date":"2024-03-04","usd":{"eur":0.9,"jpy":150}}`
	s.GetHTTPClient().RegisterResponse(testutil.RatesPath(types.CurrencyUSD), testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Delay:      200 * time.Millisecond,
	})

	firstCtx, cancel := context.WithCancel(s.GetContext())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.engine.rates.GetRates(firstCtx, types.CurrencyUSD)
		firstErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	secondErr := make(chan error, 1)
	go func() {
		_, err := s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
		secondErr <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-firstErr
	s.Error(err)
	s.True(ierr.IsUpstreamUnavailable(err))

	s.NoError(<-secondErr)
	s.Equal(1, s.usdCalls())

	// the completed fetch still lands in the cache
	table, err := s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
	s.NoError(err)
	s.Equal("usd", table.Base)
	s.Equal(1, s.usdCalls())
}

func (s *ExchangeRateServiceSuite) TestConversionRateThroughPivot() {
	rate, err := s.engine.rates.ConversionRate(s.GetContext(), "EUR", "GBP")
	s.NoError(err)
	s.True(rate.Equal(dec("0.8").Div(dec("0.9"))), "got %s", rate)

	rate, err = s.engine.rates.ConversionRate(s.GetContext(), "usd", "jpy")
	s.NoError(err)
	s.True(rate.Equal(decimal.NewFromInt(150)))

	// only the pivot table is ever fetched
	s.Equal(1, s.GetHTTPClient().TotalCalls())
}

func (s *ExchangeRateServiceSuite) TestConversionRateSameCurrency() {
	snapshot, err := s.engine.rates.Snapshot(s.GetContext(), "kes", "KES")
	s.NoError(err)
	s.True(snapshot.Rate.Equal(decimal.NewFromInt(1)))
	s.Equal("KES", snapshot.BaseCurrency)
	s.Equal("KES", snapshot.TargetCurrency)
	s.Equal(s.GetNow(), snapshot.Timestamp)
	s.Equal(0, s.GetHTTPClient().TotalCalls())
}

func (s *ExchangeRateServiceSuite) TestSnapshotCarriesTableTimestamp() {
	_, err := s.engine.rates.GetRates(s.GetContext(), types.CurrencyUSD)
	s.NoError(err)
	fetchedAt := s.GetClock().Now()

	s.GetClock().Advance(10 * time.Minute)
	snapshot, err := s.engine.rates.Snapshot(s.GetContext(), "USD", "EUR")
	s.NoError(err)
	s.Equal(fetchedAt, snapshot.Timestamp)
	s.Equal("USD", snapshot.BaseCurrency)
	s.Equal("EUR", snapshot.TargetCurrency)
}

func (s *ExchangeRateServiceSuite) TestConvert() {
	amount, err := s.engine.rates.Convert(s.GetContext(), dec("100"), "USD", "JPY")
	s.NoError(err)
	s.True(amount.Equal(dec("15000")))

	amount, err = s.engine.rates.Convert(s.GetContext(), dec("90"), "EUR", "USD")
	s.NoError(err)
	s.True(amount.Round(8).Equal(dec("100")), "got %s", amount)
}

func (s *ExchangeRateServiceSuite) TestGetCurrencyWiseRate() {
	rate, err := s.engine.rates.GetCurrencyWiseRate(s.GetContext(), "ugx", "usd")
	s.NoError(err)
	s.True(rate.Equal(dec("3700")))
}

func (s *ExchangeRateServiceSuite) TestUnsupportedCurrency() {
	_, err := s.engine.rates.ConversionRate(s.GetContext(), "USD", "XYZ")
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.engine.rates.ConversionRate(s.GetContext(), "USD", "EURO")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ExchangeRateServiceSuite) TestUpstreamFailureIsNotCached() {
	s.GetHTTPClient().RegisterResponse(testutil.RatesPath(types.CurrencyUSD), testutil.MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte("unavailable"),
	})

	_, err := s.engine.rates.ConversionRate(s.GetContext(), "USD", "EUR")
	s.Error(err)
	s.True(ierr.IsUpstreamUnavailable(err))
	s.True(ierr.IsRetryable(err))

	s.GetHTTPClient().RegisterRates(types.CurrencyUSD, types.FormatDate(s.GetNow()), testutil.DefaultRates)
	rate, err := s.engine.rates.ConversionRate(s.GetContext(), "USD", "EUR")
	s.NoError(err)
	s.True(rate.Equal(dec("0.9")))
	s.Equal(2, s.usdCalls())
}
