package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stayquote/stayquote/internal/validator"
)

// PricingConfigRequest is a listing's pricing configuration as sent by hosts and
// inline quote requests. Dates use the YYYY-MM-DD format.
type PricingConfigRequest struct {
	BasePrice         decimal.Decimal              `json:"base_price"`
	Currency          string                       `json:"currency" validate:"required,currency"`
	WeekendMultiplier decimal.Decimal              `json:"weekend_multiplier"`
	SeasonalRates     []SeasonalRateRequest        `json:"seasonal_rates,omitempty" validate:"dive"`
	SpecialDates      []SpecialDateRequest         `json:"special_dates,omitempty" validate:"dive"`
	Overrides         []RateOverrideRequest        `json:"overrides,omitempty" validate:"dive"`
	LengthDiscounts   []pricing.LengthDiscountTier `json:"length_discounts,omitempty"`
	GuestFees         pricing.GuestFeeRules        `json:"guest_fees"`
	AdditionalFees    pricing.AdditionalFees       `json:"additional_fees"`
}

type SeasonalRateRequest struct {
	Start      string          `json:"start" validate:"required,datetime=2006-01-02"`
	End        string          `json:"end" validate:"required,datetime=2006-01-02"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type SpecialDateRequest struct {
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type RateOverrideRequest struct {
	Start string          `json:"start" validate:"required,datetime=2006-01-02"`
	End   string          `json:"end" validate:"required,datetime=2006-01-02"`
	Price decimal.Decimal `json:"price"`
}

func (r *PricingConfigRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPricingConfig converts the request into a pricing.Config for listingID
func (r *PricingConfigRequest) ToPricingConfig(listingID string) (*pricing.Config, error) {
	cfg := &pricing.Config{
		ListingID:         listingID,
		BasePrice:         r.BasePrice,
		Currency:          types.NormalizeCurrency(r.Currency),
		WeekendMultiplier: r.WeekendMultiplier,
		LengthDiscounts:   r.LengthDiscounts,
		GuestFees:         r.GuestFees,
		AdditionalFees:    r.AdditionalFees,
	}

	for _, s := range r.SeasonalRates {
		start, end, err := parseRange(s.Start, s.End)
		if err != nil {
			return nil, err
		}
		cfg.SeasonalRates = append(cfg.SeasonalRates, pricing.SeasonalRate{Start: start, End: end, Multiplier: s.Multiplier})
	}

	for _, d := range r.SpecialDates {
		date, err := types.ParseDate(d.Date)
		if err != nil {
			return nil, err
		}
		cfg.SpecialDates = append(cfg.SpecialDates, pricing.SpecialDate{Date: date, Multiplier: d.Multiplier})
	}

	for _, o := range r.Overrides {
		start, end, err := parseRange(o.Start, o.End)
		if err != nil {
			return nil, err
		}
		cfg.Overrides = append(cfg.Overrides, pricing.RateOverride{Start: start, End: end, Price: o.Price})
	}

	return cfg, nil
}

// PricingConfigResponse renders a stored configuration with calendar dates
type PricingConfigResponse struct {
	ID                string                       `json:"id"`
	ListingID         string                       `json:"listing_id"`
	BasePrice         decimal.Decimal              `json:"base_price"`
	Currency          string                       `json:"currency"`
	WeekendMultiplier decimal.Decimal              `json:"weekend_multiplier"`
	SeasonalRates     []SeasonalRateRequest        `json:"seasonal_rates"`
	SpecialDates      []SpecialDateRequest         `json:"special_dates"`
	Overrides         []RateOverrideRequest        `json:"overrides"`
	LengthDiscounts   []pricing.LengthDiscountTier `json:"length_discounts"`
	GuestFees         pricing.GuestFeeRules        `json:"guest_fees"`
	AdditionalFees    pricing.AdditionalFees       `json:"additional_fees"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

func NewPricingConfigResponse(cfg *pricing.Config) *PricingConfigResponse {
	return &PricingConfigResponse{
		ID:                cfg.ID,
		ListingID:         cfg.ListingID,
		BasePrice:         cfg.BasePrice,
		Currency:          cfg.Currency,
		WeekendMultiplier: cfg.WeekendMultiplier,
		SeasonalRates: lo.Map(cfg.SeasonalRates, func(s pricing.SeasonalRate, _ int) SeasonalRateRequest {
			return SeasonalRateRequest{Start: types.FormatDate(s.Start), End: types.FormatDate(s.End), Multiplier: s.Multiplier}
		}),
		SpecialDates: lo.Map(cfg.SpecialDates, func(d pricing.SpecialDate, _ int) SpecialDateRequest {
			return SpecialDateRequest{Date: types.FormatDate(d.Date), Multiplier: d.Multiplier}
		}),
		Overrides: lo.Map(cfg.Overrides, func(o pricing.RateOverride, _ int) RateOverrideRequest {
			return RateOverrideRequest{Start: types.FormatDate(o.Start), End: types.FormatDate(o.End), Price: o.Price}
		}),
		LengthDiscounts: cfg.LengthDiscounts,
		GuestFees:       cfg.GuestFees,
		AdditionalFees:  cfg.AdditionalFees,
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}
}
