package quote

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

// DefaultMaxStayNights is the longest stay a booking request may ask for
const DefaultMaxStayNights = 365

// BookingRequest is a guest's request to price a stay. CheckOut is exclusive.
type BookingRequest struct {
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Adults    int       `json:"adults"`
	Children  int       `json:"children"`
	PromoCode string    `json:"promo_code,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Currency  string    `json:"currency"`

	IncludeNightlyRates bool `json:"include_nightly_rates,omitempty"`
}

// Nights returns the number of nights in the stay
func (r *BookingRequest) Nights() int {
	return types.NightsBetween(r.CheckIn, r.CheckOut)
}

// Validate checks the request is well formed. maxNights <= 0 falls back to DefaultMaxStayNights.
func (r *BookingRequest) Validate(maxNights int) error {
	if maxNights <= 0 {
		maxNights = DefaultMaxStayNights
	}

	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ierr.NewError("check-in and check-out are required").
			WithHint("Please provide both check-in and check-out dates").
			Mark(ierr.ErrValidation)
	}

	nights := r.Nights()
	if nights <= 0 {
		return ierr.NewError("check-out must be after check-in").
			WithHint("Check-out date must be after check-in date").
			WithReportableDetails(map[string]any{
				"check_in":  types.FormatDate(r.CheckIn),
				"check_out": types.FormatDate(r.CheckOut),
			}).
			Mark(ierr.ErrValidation)
	}
	if nights > maxNights {
		return ierr.NewError("stay too long").
			WithHintf("Stays are limited to %d nights", maxNights).
			WithReportableDetails(map[string]any{
				"nights":     nights,
				"max_nights": maxNights,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.Adults < 1 {
		return ierr.NewError("at least one adult is required").
			WithHint("Adult count must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if r.Children < 0 {
		return ierr.NewError("children must not be negative").
			WithHint("Child count cannot be negative").
			Mark(ierr.ErrValidation)
	}

	return types.ValidateCurrencyCode(r.Currency)
}

// PriceBreakdown is the priced stay in the guest's currency
type PriceBreakdown struct {
	Nights          int               `json:"nights"`
	AveragePerNight decimal.Decimal   `json:"average_per_night"`
	TotalBasePrice  decimal.Decimal   `json:"total_base_price"`
	Discount        DiscountBreakdown `json:"discount"`
	PromoApplied    *PromoApplied     `json:"promo_applied"`
	PromoReason     string            `json:"promo_reason,omitempty"`
	Fees            FeeBreakdown      `json:"fees"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Total           decimal.Decimal   `json:"total"`
	Currency        string            `json:"currency"`
	ExchangeRate    exchange.Snapshot `json:"exchange_rate"`
	NightlyRates    []NightlyRate     `json:"nightly_rates,omitempty"`
}

// DiscountBreakdown splits the total discount by source
type DiscountBreakdown struct {
	Total                    decimal.Decimal `json:"total"`
	LengthDiscount           decimal.Decimal `json:"length_discount"`
	PromoDiscount            decimal.Decimal `json:"promo_discount"`
	LengthDiscountPercentage decimal.Decimal `json:"length_discount_percentage"`
}

// FeeBreakdown holds every surcharge of the stay
type FeeBreakdown struct {
	Cleaning decimal.Decimal `json:"cleaning"`
	Service  decimal.Decimal `json:"service"`
	Tax      decimal.Decimal `json:"tax"`
	Platform decimal.Decimal `json:"platform"`
}

// PromoApplied describes the promo code that discounted the stay
type PromoApplied struct {
	Code          string                  `json:"code"`
	DiscountType  types.PromoDiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal         `json:"discount_value"`
	Currency      string                  `json:"currency"`
	Amount        decimal.Decimal         `json:"amount"`
	ExchangeRate  exchange.Snapshot       `json:"exchange_rate"`
}

// NightlyRate is the resolved price of one night
type NightlyRate struct {
	Date       time.Time       `json:"date"`
	Price      decimal.Decimal `json:"price"`
	Overridden bool            `json:"overridden"`
	Weekend    bool            `json:"weekend"`
}

// Round rounds every numeric field to the precision of the breakdown currency.
// Only the exchange rate blocks keep full precision.
func (b *PriceBreakdown) Round() {
	r := func(d decimal.Decimal) decimal.Decimal {
		return types.RoundAmount(d, b.Currency)
	}

	b.AveragePerNight = r(b.AveragePerNight)
	b.TotalBasePrice = r(b.TotalBasePrice)
	b.Discount.Total = r(b.Discount.Total)
	b.Discount.LengthDiscount = r(b.Discount.LengthDiscount)
	b.Discount.PromoDiscount = r(b.Discount.PromoDiscount)
	b.Discount.LengthDiscountPercentage = r(b.Discount.LengthDiscountPercentage)
	b.Fees.Cleaning = r(b.Fees.Cleaning)
	b.Fees.Service = r(b.Fees.Service)
	b.Fees.Tax = r(b.Fees.Tax)
	b.Fees.Platform = r(b.Fees.Platform)
	b.Subtotal = r(b.Subtotal)
	b.Total = r(b.Total)

	if b.PromoApplied != nil {
		b.PromoApplied.Amount = r(b.PromoApplied.Amount)
		b.PromoApplied.DiscountValue = r(b.PromoApplied.DiscountValue)
	}
	for i := range b.NightlyRates {
		b.NightlyRates[i].Price = r(b.NightlyRates[i].Price)
	}
}
