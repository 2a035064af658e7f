package dto

import (
	"time"

	"github.com/stayquote/stayquote/internal/domain/quote"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stayquote/stayquote/internal/validator"
)

// StayRequest describes the stay being priced. Dates use the YYYY-MM-DD format
// and check-out is exclusive.
type StayRequest struct {
	CheckIn             string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut            string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults              int    `json:"adults" validate:"required,min=1"`
	Children            int    `json:"children" validate:"min=0"`
	PromoCode           string `json:"promo_code,omitempty" validate:"omitempty,max=64"`
	UserID              string `json:"user_id,omitempty"`
	IncludeNightlyRates bool   `json:"include_nightly_rates,omitempty"`
}

// QuoteRequest prices a stay in one display currency
type QuoteRequest struct {
	StayRequest
	Currency string `json:"currency" validate:"required,currency"`
}

// ComputeQuoteRequest prices a stay against an inline pricing configuration
type ComputeQuoteRequest struct {
	Pricing PricingConfigRequest `json:"pricing"`
	Booking QuoteRequest         `json:"booking"`
}

// MultiCurrencyQuoteRequest prices the same stay in several display currencies
type MultiCurrencyQuoteRequest struct {
	StayRequest
	Currencies []string `json:"currencies" validate:"required,min=1,max=10,dive,currency"`
}

func (r *QuoteRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *ComputeQuoteRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *MultiCurrencyQuoteRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToBookingRequest converts the stay into a booking request in currency.
// userID fills in the request's user when the body left it empty.
func (r *StayRequest) ToBookingRequest(currency, userID string) (*quote.BookingRequest, error) {
	checkIn, checkOut, err := parseRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}

	user := r.UserID
	if user == "" {
		user = userID
	}

	return &quote.BookingRequest{
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		Adults:              r.Adults,
		Children:            r.Children,
		PromoCode:           r.PromoCode,
		UserID:              user,
		Currency:            types.NormalizeCurrency(currency),
		IncludeNightlyRates: r.IncludeNightlyRates,
	}, nil
}

func (r *QuoteRequest) ToBookingRequest(userID string) (*quote.BookingRequest, error) {
	return r.StayRequest.ToBookingRequest(r.Currency, userID)
}

// QuoteResponse is a priced stay
type QuoteResponse struct {
	*quote.PriceBreakdown
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id,omitempty"`
	QuotedAt  time.Time `json:"quoted_at"`
}

func NewQuoteResponse(listingID string, b *quote.PriceBreakdown, quotedAt time.Time) *QuoteResponse {
	return &QuoteResponse{
		PriceBreakdown: b,
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUOTE),
		ListingID:      listingID,
		QuotedAt:       quotedAt,
	}
}

// MultiCurrencyQuoteResponse holds one quote per requested currency, in request order
type MultiCurrencyQuoteResponse struct {
	ListingID string           `json:"listing_id"`
	Quotes    []*QuoteResponse `json:"quotes"`
}
