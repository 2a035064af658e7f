package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

// PromoCode is a user redeemable discount. Expiry and exhaustion are derived
// from ValidUntil and UsedCount, only Status is stored.
type PromoCode struct {
	ID              string                  `json:"id" db:"id"`
	Code            string                  `json:"code" db:"code"`
	DiscountType    types.PromoDiscountType `json:"discount_type" db:"discount_type"`
	DiscountValue   decimal.Decimal         `json:"discount_value" db:"discount_value"`
	Currency        string                  `json:"currency" db:"currency"`
	MinimumSpend    decimal.Decimal         `json:"minimum_spend" db:"minimum_spend"`
	MaximumDiscount decimal.NullDecimal     `json:"maximum_discount" db:"maximum_discount"`
	ValidFrom       time.Time               `json:"valid_from" db:"valid_from"`
	ValidUntil      time.Time               `json:"valid_until" db:"valid_until"`
	MaxRedemptions  int                     `json:"max_redemptions" db:"max_redemptions"`
	MaxPerUser      int                     `json:"max_per_user" db:"max_per_user"`
	UsedCount       int                     `json:"used_count" db:"used_count"`
	Status          types.Status            `json:"status" db:"status"`
	CreatedAt       time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at" db:"updated_at"`
}

// Usage records one redemption of a promo code by a user for a reservation
type Usage struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	PromoCodeID   string    `json:"promo_code_id" db:"promo_code_id"`
	ReservationID string    `json:"reservation_id" db:"reservation_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ValidationResult is the outcome of checking a promo code against a spend
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// NormalizeCode upper-cases and trims a promo code for lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether asOf falls outside the validity window
func (p *PromoCode) IsExpired(asOf time.Time) bool {
	day := types.StartOfDay(asOf)
	return day.Before(types.StartOfDay(p.ValidFrom)) || day.After(types.StartOfDay(p.ValidUntil))
}

// IsExhausted reports whether every redemption has been used
func (p *PromoCode) IsExhausted() bool {
	return p.UsedCount >= p.MaxRedemptions
}

// IsRedeemable reports whether the code is active, in its window and not exhausted
func (p *PromoCode) IsRedeemable(asOf time.Time) bool {
	return p.Status == types.StatusActive && !p.IsExpired(asOf) && !p.IsExhausted()
}

// Validate checks candidateSpend, expressed in currency, against the minimum spend.
// Dates and exhaustion are left to the repository lookup.
func (p *PromoCode) Validate(ctx context.Context, candidateSpend decimal.Decimal, currency string, converter exchange.Converter) (ValidationResult, error) {
	if !p.MinimumSpend.IsPositive() {
		return ValidationResult{Valid: true}, nil
	}

	minimum, err := converter.Convert(ctx, p.MinimumSpend, p.Currency, currency)
	if err != nil {
		return ValidationResult{}, err
	}

	if candidateSpend.LessThan(minimum) {
		return ValidationResult{
			Valid: false,
			Message: fmt.Sprintf("A minimum spend of %s %s is required to use promo code %s",
				types.RoundAmount(minimum, currency).String(), types.NormalizeCurrency(currency), p.Code),
		}, nil
	}

	return ValidationResult{Valid: true}, nil
}

// ValidateForCreate checks a new promo code before it is stored
func (p *PromoCode) ValidateForCreate() error {
	if NormalizeCode(p.Code) == "" {
		return ierr.NewError("promo code is required").
			WithHint("Please provide a promo code").
			Mark(ierr.ErrValidation)
	}
	if err := p.DiscountType.Validate(); err != nil {
		return err
	}
	if err := types.ValidateCurrencyCode(p.Currency); err != nil {
		return err
	}
	if !p.DiscountValue.IsPositive() {
		return ierr.NewError("discount value must be positive").
			WithHint("Discount value must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if p.DiscountType == types.PromoDiscountTypePercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percentage discount above 100").
			WithHint("Percentage discount cannot exceed 100").
			Mark(ierr.ErrValidation)
	}
	if p.MinimumSpend.IsNegative() {
		return ierr.NewError("minimum spend must not be negative").
			WithHint("Minimum spend cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if p.MaximumDiscount.Valid && !p.MaximumDiscount.Decimal.IsPositive() {
		return ierr.NewError("maximum discount must be positive").
			WithHint("Maximum discount must be greater than zero when set").
			Mark(ierr.ErrValidation)
	}
	if p.MaximumDiscount.Valid && p.DiscountType != types.PromoDiscountTypePercentage {
		return ierr.NewError("maximum discount set on a non-percentage code").
			WithHint("Maximum discount only applies to percentage promo codes").
			WithReportableDetails(map[string]any{"discount_type": p.DiscountType}).
			Mark(ierr.ErrValidation)
	}
	if !p.ValidFrom.Before(p.ValidUntil) {
		return ierr.NewError("promo code validity window is empty or inverted").
			WithHint("Valid until must be after valid from").
			Mark(ierr.ErrValidation)
	}
	if p.MaxRedemptions < 1 || p.MaxPerUser < 1 {
		return ierr.NewError("redemption limits must be positive").
			WithHint("Max redemptions and max per user must be at least 1").
			Mark(ierr.ErrValidation)
	}
	return nil
}
