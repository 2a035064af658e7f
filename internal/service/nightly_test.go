package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stretchr/testify/suite"
)

type NightlyPriceCalculatorSuite struct {
	suite.Suite
	calc NightlyPriceCalculator
	one  decimal.Decimal
}

func TestNightlyPriceCalculator(t *testing.T) {
	suite.Run(t, new(NightlyPriceCalculatorSuite))
}

func (s *NightlyPriceCalculatorSuite) SetupTest() {
	s.calc = NewNightlyPriceCalculator()
	s.one = decimal.NewFromInt(1)
}

func (s *NightlyPriceCalculatorSuite) TestPlainNights() {
	cfg := usdConfig("listing_plain")
	// Mon 11 to Thu 14 March 2024
	total := s.calc.CalculateBasePrice(cfg, day(2024, time.March, 11), day(2024, time.March, 14), cfg.BasePrice, s.one)
	s.True(total.Equal(dec("300")), "got %s", total)
}

func (s *NightlyPriceCalculatorSuite) TestOverrideWithWeekendNight() {
	cfg := usdConfig("listing_override")
	cfg.WeekendMultiplier = dec("2")
	cfg.Overrides = []pricing.RateOverride{
		{Start: day(2024, time.March, 7), End: day(2024, time.March, 10), Price: dec("50")},
	}

	// Thu, Fri and Sat nights
	rates := s.calc.NightlyRates(cfg, day(2024, time.March, 7), day(2024, time.March, 10), cfg.BasePrice, s.one)
	s.Len(rates, 3)
	s.True(rates[0].Price.Equal(dec("50")))
	s.True(rates[1].Price.Equal(dec("50")))
	s.True(rates[2].Price.Equal(dec("100")))
	s.True(rates[2].Weekend)
	s.False(rates[0].Weekend)
	for _, r := range rates {
		s.True(r.Overridden)
	}

	total := s.calc.CalculateBasePrice(cfg, day(2024, time.March, 7), day(2024, time.March, 10), cfg.BasePrice, s.one)
	s.True(total.Equal(dec("200")), "got %s", total)
}

func (s *NightlyPriceCalculatorSuite) TestOverrideRangeIsHalfOpen() {
	cfg := usdConfig("listing_half_open")
	cfg.Overrides = []pricing.RateOverride{
		{Start: day(2024, time.March, 12), End: day(2024, time.March, 13), Price: dec("70")},
	}

	rates := s.calc.NightlyRates(cfg, day(2024, time.March, 11), day(2024, time.March, 14), cfg.BasePrice, s.one)
	s.Len(rates, 3)
	s.True(rates[0].Price.Equal(dec("100")))
	s.True(rates[1].Price.Equal(dec("70")))
	s.True(rates[2].Price.Equal(dec("100")))
	s.True(rates[1].Overridden)
	s.False(rates[2].Overridden)
}

func (s *NightlyPriceCalculatorSuite) TestMultipliersCompound() {
	cfg := usdConfig("listing_multipliers")
	cfg.WeekendMultiplier = dec("1.2")
	cfg.SeasonalRates = []pricing.SeasonalRate{
		{Start: day(2024, time.March, 8), End: day(2024, time.March, 20), Multiplier: dec("1.5")},
	}
	cfg.SpecialDates = []pricing.SpecialDate{
		{Date: day(2024, time.March, 8), Multiplier: dec("2")},
	}
	cfg.Overrides = []pricing.RateOverride{
		{Start: day(2024, time.March, 7), End: day(2024, time.March, 8), Price: dec("80")},
	}

	rates := s.calc.NightlyRates(cfg, day(2024, time.March, 7), day(2024, time.March, 10), cfg.BasePrice, s.one)
	s.Len(rates, 3)
	// Thu override, Fri season and special date, Sat weekend and season
	s.True(rates[0].Price.Equal(dec("80")), "got %s", rates[0].Price)
	s.True(rates[1].Price.Equal(dec("300")), "got %s", rates[1].Price)
	s.True(rates[2].Price.Equal(dec("180")), "got %s", rates[2].Price)
}

func (s *NightlyPriceCalculatorSuite) TestOverrideConvertedWithRate() {
	cfg := usdConfig("listing_converted")
	cfg.Overrides = []pricing.RateOverride{
		{Start: day(2024, time.March, 11), End: day(2024, time.March, 12), Price: dec("80")},
	}

	rate := dec("0.9")
	base := cfg.BasePrice.Mul(rate)
	rates := s.calc.NightlyRates(cfg, day(2024, time.March, 11), day(2024, time.March, 13), base, rate)
	s.True(rates[0].Price.Equal(dec("72")))
	s.True(rates[1].Price.Equal(dec("90")))
}

func (s *NightlyPriceCalculatorSuite) TestTotalNeverDecreasesWithLongerStays() {
	cfg := usdConfig("listing_monotonic")
	cfg.WeekendMultiplier = dec("1.3")
	cfg.SeasonalRates = []pricing.SeasonalRate{
		{Start: day(2024, time.March, 15), End: day(2024, time.April, 1), Multiplier: dec("1.25")},
	}
	cfg.SpecialDates = []pricing.SpecialDate{
		{Date: day(2024, time.March, 20), Multiplier: dec("3")},
	}
	cfg.Overrides = []pricing.RateOverride{
		{Start: day(2024, time.March, 22), End: day(2024, time.March, 25), Price: dec("60")},
	}

	checkIn := day(2024, time.March, 11)
	previous := decimal.Zero
	for nights := 1; nights <= 30; nights++ {
		total := s.calc.CalculateBasePrice(cfg, checkIn, checkIn.AddDate(0, 0, nights), cfg.BasePrice, s.one)
		s.True(total.GreaterThanOrEqual(previous), "nights %d: %s < %s", nights, total, previous)
		previous = total
	}
}

func (s *NightlyPriceCalculatorSuite) TestEmptyStay() {
	cfg := usdConfig("listing_empty")
	total := s.calc.CalculateBasePrice(cfg, day(2024, time.March, 11), day(2024, time.March, 11), cfg.BasePrice, s.one)
	s.True(total.IsZero())
	s.Empty(s.calc.NightlyRates(cfg, day(2024, time.March, 11), day(2024, time.March, 10), cfg.BasePrice, s.one))
}
