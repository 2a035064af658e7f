package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/quote"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

const (
	fieldBasePrice   = "base_price"
	fieldCleaningFee = "cleaning_fee"
	fieldServiceFee  = "service_fee"
)

// QuoteService prices stays in the guest's currency
type QuoteService interface {
	// ComputePrice prices req against an explicit pricing configuration
	ComputePrice(ctx context.Context, cfg *pricing.Config, req *quote.BookingRequest) (*quote.PriceBreakdown, error)
	// QuoteListing loads the listing's configuration and prices req against it
	QuoteListing(ctx context.Context, listingID string, req *quote.BookingRequest) (*quote.PriceBreakdown, error)
	// QuoteCurrencies prices the same stay in every currency, in the order given
	QuoteCurrencies(ctx context.Context, listingID string, req *quote.BookingRequest, currencies []string) ([]*quote.PriceBreakdown, error)
}

type quoteService struct {
	ServiceParams
	rates      ExchangeRateService
	normalizer CurrencyNormalizer
	nightly    NightlyPriceCalculator
	fees       FeeCalculator
	discounts  DiscountCalculator
}

func NewQuoteService(
	params ServiceParams,
	rates ExchangeRateService,
	normalizer CurrencyNormalizer,
	nightly NightlyPriceCalculator,
	fees FeeCalculator,
	discounts DiscountCalculator,
) QuoteService {
	return &quoteService{
		ServiceParams: params,
		rates:         rates,
		normalizer:    normalizer,
		nightly:       nightly,
		fees:          fees,
		discounts:     discounts,
	}
}

func (s *quoteService) ComputePrice(ctx context.Context, cfg *pricing.Config, req *quote.BookingRequest) (*quote.PriceBreakdown, error) {
	if cfg == nil {
		return nil, ierr.NewError("pricing configuration is required").
			WithHint("Please provide the listing's pricing configuration").
			Mark(ierr.ErrValidation)
	}
	if req == nil {
		return nil, ierr.NewError("booking request is required").
			WithHint("Please provide the stay to price").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(s.Config.Pricing.MaxStayNights); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		s.Logger.Errorw("refusing to price malformed pricing configuration",
			"listing_id", cfg.ListingID,
			"error", err,
		)
		return nil, err
	}

	hostCurrency := types.NormalizeCurrency(cfg.Currency)
	guestCurrency := types.NormalizeCurrency(req.Currency)

	snapshot, err := s.rates.Snapshot(ctx, hostCurrency, guestCurrency)
	if err != nil {
		return nil, err
	}

	// converted once, rounded only at the end
	converted, err := s.normalizer.NormalizeWithRate(map[string]any{
		fieldBasePrice:   cfg.BasePrice,
		fieldCleaningFee: cfg.AdditionalFees.CleaningFee,
		fieldServiceFee:  cfg.AdditionalFees.ServiceFee,
	}, []string{fieldBasePrice, fieldCleaningFee, fieldServiceFee}, snapshot.Rate, guestCurrency, types.RoundingModeNone)
	if err != nil {
		return nil, err
	}
	basePrice := converted[fieldBasePrice].(decimal.Decimal)
	cleaningFee := converted[fieldCleaningFee].(decimal.Decimal)
	baseServiceFee := converted[fieldServiceFee].(decimal.Decimal)

	nights := req.Nights()
	nightlyRates := s.nightly.NightlyRates(cfg, req.CheckIn, req.CheckOut, basePrice, snapshot.Rate)
	totalBase := decimal.Zero
	for _, night := range nightlyRates {
		totalBase = totalBase.Add(night.Price)
	}
	average := totalBase.Div(decimal.NewFromInt(int64(nights)))

	length := s.discounts.LengthDiscount(cfg.LengthDiscounts, nights, totalBase)
	remainingBase := totalBase.Sub(length.Amount)

	promoResult, err := s.discounts.PromoDiscount(ctx, PromoDiscountInput{
		Code:          req.PromoCode,
		UserID:        req.UserID,
		RemainingBase: remainingBase,
		Currency:      guestCurrency,
		AsOf:          s.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	guestFees := convertGuestFees(cfg.GuestFees, snapshot.Rate)
	serviceFee := s.fees.CalculateServiceFees(guestFees, req.Children, req.Adults, baseServiceFee)

	subtotal := remainingBase.Add(cleaningFee).Add(serviceFee)
	platformFee := subtotal.Mul(s.Config.Pricing.PlatformFee())
	tax := subtotal.Mul(s.Config.Pricing.Tax())
	total := subtotal.Add(tax).Add(platformFee).Sub(promoResult.Amount)

	breakdown := &quote.PriceBreakdown{
		Nights:          nights,
		AveragePerNight: average,
		TotalBasePrice:  totalBase,
		Discount: quote.DiscountBreakdown{
			Total:                    length.Amount.Add(promoResult.Amount),
			LengthDiscount:           length.Amount,
			PromoDiscount:            promoResult.Amount,
			LengthDiscountPercentage: length.Percentage,
		},
		PromoApplied: promoResult.Applied,
		PromoReason:  promoResult.Message,
		Fees: quote.FeeBreakdown{
			Cleaning: cleaningFee,
			Service:  serviceFee,
			Tax:      tax,
			Platform: platformFee,
		},
		Subtotal:     subtotal,
		Total:        total,
		Currency:     guestCurrency,
		ExchangeRate: snapshot,
	}
	if req.IncludeNightlyRates {
		breakdown.NightlyRates = nightlyRates
	}
	breakdown.Round()

	s.Logger.Debugw("computed stay price",
		"listing_id", cfg.ListingID,
		"currency", guestCurrency,
		"nights", nights,
		"rate", snapshot.Rate.String(),
		"promo_code", lo.Ternary(promoResult.Applied != nil, req.PromoCode, ""),
		"total", breakdown.Total.String(),
	)

	return breakdown, nil
}

// convertGuestFees expresses absolute fee rule values in the guest currency.
// Percentage rules are relative and stay as they are.
func convertGuestFees(rules pricing.GuestFeeRules, rate decimal.Decimal) pricing.GuestFeeRules {
	convert := func(rule pricing.FeeRule) pricing.FeeRule {
		if rule.Type == types.FeeRuleTypeFixed || rule.Type == types.FeeRuleTypePerPerson {
			rule.Value = rule.Value.Mul(rate)
		}
		return rule
	}
	return pricing.GuestFeeRules{
		Adult: convert(rules.Adult),
		Child: convert(rules.Child),
	}
}

func (s *quoteService) QuoteListing(ctx context.Context, listingID string, req *quote.BookingRequest) (*quote.PriceBreakdown, error) {
	cfg, err := s.loadPricingConfig(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.ComputePrice(ctx, cfg, req)
}

func (s *quoteService) QuoteCurrencies(
	ctx context.Context,
	listingID string,
	req *quote.BookingRequest,
	currencies []string,
) ([]*quote.PriceBreakdown, error) {
	if req == nil {
		return nil, ierr.NewError("booking request is required").
			WithHint("Please provide the stay to price").
			Mark(ierr.ErrValidation)
	}

	currencies = lo.Uniq(lo.Map(currencies, func(c string, _ int) string {
		return types.NormalizeCurrency(c)
	}))
	if len(currencies) == 0 {
		return nil, ierr.NewError("at least one currency is required").
			WithHint("Please provide at least one display currency").
			Mark(ierr.ErrValidation)
	}

	cfg, err := s.loadPricingConfig(ctx, listingID)
	if err != nil {
		return nil, err
	}

	// warm the pivot table once so the fan-out below hits the cache
	if _, err := s.rates.GetRates(ctx, s.Config.ExchangeRate.PivotCurrency); err != nil {
		return nil, err
	}

	results := make([]*quote.PriceBreakdown, len(currencies))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, currency := range currencies {
		i, currency := i, currency
		p.Go(func(ctx context.Context) error {
			r := *req
			r.Currency = currency
			breakdown, err := s.ComputePrice(ctx, cfg, &r)
			if err != nil {
				return err
			}
			results[i] = breakdown
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *quoteService) loadPricingConfig(ctx context.Context, listingID string) (*pricing.Config, error) {
	if listingID == "" {
		return nil, ierr.NewError("listing id is required").
			WithHint("Please provide a listing id").
			Mark(ierr.ErrValidation)
	}

	key := cache.PricingConfigKey(listingID)
	if cfg, ok := cache.GetAs[*pricing.Config](ctx, s.Cache, key); ok {
		return cfg, nil
	}

	cfg, err := s.PricingConfigRepo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, cfg, s.Config.Pricing.ConfigCacheTTL)
	}
	return cfg, nil
}
