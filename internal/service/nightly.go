package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/quote"
	"github.com/stayquote/stayquote/internal/types"
)

// NightlyPriceCalculator resolves the price of every night of a stay
type NightlyPriceCalculator interface {
	// CalculateBasePrice sums the nightly prices of [checkIn, checkOut).
	// baseNightlyPrice is already in the guest currency, overrides are converted with conversionRate.
	CalculateBasePrice(cfg *pricing.Config, checkIn, checkOut time.Time, baseNightlyPrice, conversionRate decimal.Decimal) decimal.Decimal
	// NightlyRates returns the resolved price of every night of the stay
	NightlyRates(cfg *pricing.Config, checkIn, checkOut time.Time, baseNightlyPrice, conversionRate decimal.Decimal) []quote.NightlyRate
}

type nightlyPriceCalculator struct{}

func NewNightlyPriceCalculator() NightlyPriceCalculator {
	return &nightlyPriceCalculator{}
}

func (c *nightlyPriceCalculator) CalculateBasePrice(
	cfg *pricing.Config,
	checkIn, checkOut time.Time,
	baseNightlyPrice, conversionRate decimal.Decimal,
) decimal.Decimal {
	total := decimal.Zero
	for _, night := range c.NightlyRates(cfg, checkIn, checkOut, baseNightlyPrice, conversionRate) {
		total = total.Add(night.Price)
	}
	return total
}

func (c *nightlyPriceCalculator) NightlyRates(
	cfg *pricing.Config,
	checkIn, checkOut time.Time,
	baseNightlyPrice, conversionRate decimal.Decimal,
) []quote.NightlyRate {
	nights := types.NightsBetween(checkIn, checkOut)
	if nights <= 0 {
		return nil
	}

	weekendMultiplier := cfg.EffectiveWeekendMultiplier()
	rates := make([]quote.NightlyRate, 0, nights)

	night := types.StartOfDay(checkIn)
	for i := 0; i < nights; i++ {
		rate := quote.NightlyRate{
			Date:  night,
			Price: baseNightlyPrice,
		}

		// an override substitutes the base, multipliers still apply on top
		if override, ok := cfg.OverrideFor(night); ok {
			rate.Price = override.Price.Mul(conversionRate)
			rate.Overridden = true
		}

		if types.IsWeekend(night) {
			rate.Price = rate.Price.Mul(weekendMultiplier)
			rate.Weekend = true
		}

		for _, season := range cfg.SeasonalRates {
			if season.Contains(night) {
				rate.Price = rate.Price.Mul(season.Multiplier)
			}
		}

		for _, special := range cfg.SpecialDates {
			if types.SameDay(special.Date, night) {
				rate.Price = rate.Price.Mul(special.Multiplier)
			}
		}

		rates = append(rates, rate)
		night = night.AddDate(0, 0, 1)
	}

	return rates
}
