package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBookingRequest_Nights(t *testing.T) {
	r := &BookingRequest{
		CheckIn:  time.Date(2024, time.March, 30, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, r.Nights())
}

func TestBookingRequest_ValidateDefaultsMaxNights(t *testing.T) {
	r := &BookingRequest{
		CheckIn:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Adults:   1,
		Currency: "USD",
	}

	r.CheckOut = r.CheckIn.AddDate(0, 0, DefaultMaxStayNights)
	assert.NoError(t, r.Validate(0))

	r.CheckOut = r.CheckOut.AddDate(0, 0, 1)
	assert.Error(t, r.Validate(0))
	assert.NoError(t, r.Validate(400))
}

func TestPriceBreakdown_Round(t *testing.T) {
	rate := decimal.RequireFromString("0.912345678")
	b := &PriceBreakdown{
		AveragePerNight: decimal.RequireFromString("91.234567"),
		TotalBasePrice:  decimal.RequireFromString("273.703703"),
		Subtotal:        decimal.RequireFromString("300.005"),
		Total:           decimal.RequireFromString("396.0066"),
		Currency:        "EUR",
		ExchangeRate:    exchange.Snapshot{Rate: rate},
		PromoApplied: &PromoApplied{
			DiscountType:  types.PromoDiscountTypePercentage,
			DiscountValue: decimal.RequireFromString("12.5"),
			Amount:        decimal.RequireFromString("4.444"),
		},
		NightlyRates: []NightlyRate{{Price: decimal.RequireFromString("91.239")}},
	}

	b.Round()
	assert.Equal(t, "91.23", b.AveragePerNight.String())
	assert.Equal(t, "273.7", b.TotalBasePrice.String())
	assert.Equal(t, "300.01", b.Subtotal.String())
	assert.Equal(t, "396.01", b.Total.String())
	assert.Equal(t, "4.44", b.PromoApplied.Amount.String())
	assert.Equal(t, "91.24", b.NightlyRates[0].Price.String())
	// rates and promo terms keep full precision
	assert.True(t, b.ExchangeRate.Rate.Equal(rate))
	assert.Equal(t, "12.5", b.PromoApplied.DiscountValue.String())
}

func TestPriceBreakdown_RoundZeroDecimal(t *testing.T) {
	b := &PriceBreakdown{
		TotalBasePrice: decimal.RequireFromString("44999.5"),
		Total:          decimal.RequireFromString("59399.49"),
		Currency:       "JPY",
	}
	b.Round()
	assert.Equal(t, "45000", b.TotalBasePrice.String())
	assert.Equal(t, "59399", b.Total.String())
}
