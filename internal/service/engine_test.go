package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/integration/ratesource"
	"github.com/stayquote/stayquote/internal/testutil"
	"github.com/stayquote/stayquote/internal/types"
)

// testEngine is the fully wired pricing engine on top of the suite's fakes
type testEngine struct {
	params        ServiceParams
	rates         ExchangeRateService
	normalizer    CurrencyNormalizer
	nightly       NightlyPriceCalculator
	fees          FeeCalculator
	discounts     DiscountCalculator
	quotes        QuoteService
	promos        PromoService
	pricingConfig PricingConfigService
}

func newTestEngine(s *testutil.BaseServiceTestSuite) *testEngine {
	stores := s.GetStores()
	source := ratesource.NewClient(s.GetConfig(), s.GetHTTPClient(), s.GetClock(), s.GetLogger())
	params := NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		s.GetClock(),
		stores.PricingConfigRepo,
		stores.PromoCodeRepo,
		stores.PromoUsageRepo,
		source,
	)

	e := &testEngine{params: params}
	e.rates = NewExchangeRateService(params, NewRateTableCache(params))
	e.normalizer = NewCurrencyNormalizer(e.rates)
	e.nightly = NewNightlyPriceCalculator()
	e.fees = NewFeeCalculator()
	e.discounts = NewDiscountCalculator(params, e.rates)
	e.quotes = NewQuoteService(params, e.rates, e.normalizer, e.nightly, e.fees, e.discounts)
	e.promos = NewPromoService(params, e.discounts)
	e.pricingConfig = NewPricingConfigService(params)
	return e
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// usdConfig is a plain 100 USD/night listing with nothing else configured
func usdConfig(listingID string) *pricing.Config {
	return &pricing.Config{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING_CONFIG),
		ListingID: listingID,
		BasePrice: dec("100"),
		Currency:  types.CurrencyUSD,
	}
}

// activePromo is valid for the whole of 2024 with plenty of redemptions
func activePromo(code string, discountType types.PromoDiscountType, value string) *promo.PromoCode {
	return &promo.PromoCode{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:           promo.NormalizeCode(code),
		DiscountType:   discountType,
		DiscountValue:  dec(value),
		Currency:       types.CurrencyUSD,
		ValidFrom:      day(2024, time.January, 1),
		ValidUntil:     day(2024, time.December, 31),
		MaxRedemptions: 100,
		MaxPerUser:     1,
		Status:         types.StatusActive,
	}
}
