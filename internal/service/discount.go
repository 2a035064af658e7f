package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/domain/quote"
	"github.com/stayquote/stayquote/internal/types"
)

// DiscountCalculator computes the length-of-stay and promo code discounts of a stay
type DiscountCalculator interface {
	// LengthDiscount picks the eligible tier with the highest percentage
	LengthDiscount(tiers []pricing.LengthDiscountTier, nights int, totalBase decimal.Decimal) LengthDiscountResult
	// PromoDiscount applies a promo code against the length-discounted base.
	// Codes that do not apply yield an empty result with a Reason, never an error.
	PromoDiscount(ctx context.Context, input PromoDiscountInput) (PromoDiscountResult, error)
}

// LengthDiscountResult is the outcome of the length-of-stay tier lookup
type LengthDiscountResult struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	MinNights  int
}

// PromoDiscountInput carries everything the promo step needs
type PromoDiscountInput struct {
	Code          string
	UserID        string
	RemainingBase decimal.Decimal
	Currency      string
	AsOf          time.Time
}

// PromoDiscountResult is the promo discount in the guest currency. Applied is nil when
// the code did not apply, in which case Reason says why. A code that applies to an
// empty base keeps Applied with a zero Amount and carries a Reason as well.
type PromoDiscountResult struct {
	Amount     decimal.Decimal
	Applied    *quote.PromoApplied
	Reason     types.PromoRejectionReason
	Message    string
	PromoCode  *promo.PromoCode
	UsageCount int
}

type discountCalculator struct {
	ServiceParams
	rates ExchangeRateService
}

func NewDiscountCalculator(params ServiceParams, rates ExchangeRateService) DiscountCalculator {
	return &discountCalculator{
		ServiceParams: params,
		rates:         rates,
	}
}

func (c *discountCalculator) LengthDiscount(
	tiers []pricing.LengthDiscountTier,
	nights int,
	totalBase decimal.Decimal,
) LengthDiscountResult {
	eligible := lo.Filter(tiers, func(t pricing.LengthDiscountTier, _ int) bool {
		return nights >= t.MinNights
	})
	if len(eligible) == 0 {
		return LengthDiscountResult{Amount: decimal.Zero, Percentage: decimal.Zero}
	}

	// ties keep the earlier tier
	best := lo.MaxBy(eligible, func(a, b pricing.LengthDiscountTier) bool {
		return a.Percentage.GreaterThan(b.Percentage)
	})

	amount := totalBase.Mul(best.Percentage).Div(hundred)
	if !amount.IsPositive() {
		return LengthDiscountResult{Amount: decimal.Zero, Percentage: decimal.Zero}
	}

	return LengthDiscountResult{
		Amount:     amount,
		Percentage: best.Percentage,
		MinNights:  best.MinNights,
	}
}

func (c *discountCalculator) PromoDiscount(ctx context.Context, input PromoDiscountInput) (PromoDiscountResult, error) {
	none := PromoDiscountResult{Amount: decimal.Zero}

	code := promo.NormalizeCode(input.Code)
	if code == "" {
		return none, nil
	}
	if input.UserID == "" {
		none.Reason = types.PromoRejectionMissingUser
		none.Message = "Sign in to apply a promo code"
		return none, nil
	}

	promoCode, err := c.PromoCodeRepo.FindActiveByCode(ctx, code, input.AsOf)
	if err != nil {
		return none, err
	}
	if promoCode == nil {
		c.Logger.Debugw("promo code not applicable", "promo_code", code)
		none.Reason = types.PromoRejectionNotFound
		none.Message = "Promo code is invalid or has expired"
		return none, nil
	}
	none.PromoCode = promoCode

	validation, err := promoCode.Validate(ctx, input.RemainingBase, input.Currency, c.rates)
	if err != nil {
		return none, err
	}
	if !validation.Valid {
		none.Reason = types.PromoRejectionMinimumSpend
		none.Message = validation.Message
		return none, nil
	}

	used, err := c.PromoUsageRepo.CountUsage(ctx, input.UserID, promoCode.ID)
	if err != nil {
		return none, err
	}
	none.UsageCount = used
	if used >= promoCode.MaxPerUser {
		c.Logger.Debugw("promo code per-user limit reached",
			"promo_code", code,
			"user_id", input.UserID,
			"used", used,
		)
		none.Reason = types.PromoRejectionPerUserLimit
		none.Message = "You have already used this promo code the maximum number of times"
		return none, nil
	}

	snapshot, err := c.rates.Snapshot(ctx, promoCode.Currency, input.Currency)
	if err != nil {
		return none, err
	}

	var amount decimal.Decimal
	switch promoCode.DiscountType {
	case types.PromoDiscountTypePercentage:
		amount = input.RemainingBase.Mul(promoCode.DiscountValue).Div(hundred)
		if promoCode.MaximumDiscount.Valid {
			maxDiscount := promoCode.MaximumDiscount.Decimal.Mul(snapshot.Rate)
			amount = decimal.Min(amount, maxDiscount)
		}
	case types.PromoDiscountTypeFlat:
		amount = decimal.Min(promoCode.DiscountValue.Mul(snapshot.Rate), input.RemainingBase)
	default:
		return none, promoCode.DiscountType.Validate()
	}

	result := PromoDiscountResult{
		Amount: amount,
		Applied: &quote.PromoApplied{
			Code:          promoCode.Code,
			DiscountType:  promoCode.DiscountType,
			DiscountValue: promoCode.DiscountValue,
			Currency:      promoCode.Currency,
			Amount:        amount,
			ExchangeRate:  snapshot,
		},
		PromoCode:  promoCode,
		UsageCount: used,
	}
	// the code applies but there is no base left for it to reduce
	if !amount.IsPositive() {
		result.Reason = types.PromoRejectionNothingToDiscount
		result.Message = "There is nothing left to discount"
	}
	return result, nil
}
