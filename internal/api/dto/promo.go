package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/domain/quote"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stayquote/stayquote/internal/validator"
)

// CreatePromoCodeRequest represents the request to create a new promo code
type CreatePromoCodeRequest struct {
	Code            string                  `json:"code" validate:"required,max=64"`
	DiscountType    types.PromoDiscountType `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue   decimal.Decimal         `json:"discount_value"`
	Currency        string                  `json:"currency" validate:"required,currency"`
	MinimumSpend    decimal.Decimal         `json:"minimum_spend"`
	MaximumDiscount *decimal.Decimal        `json:"maximum_discount,omitempty"`
	ValidFrom       string                  `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidUntil      string                  `json:"valid_until" validate:"required,datetime=2006-01-02"`
	MaxRedemptions  int                     `json:"max_redemptions" validate:"required,min=1"`
	MaxPerUser      int                     `json:"max_per_user" validate:"required,min=1"`
}

func (r *CreatePromoCodeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPromoCode converts the request into an active promo code
func (r *CreatePromoCodeRequest) ToPromoCode(now time.Time) (*promo.PromoCode, error) {
	from, until, err := parseRange(r.ValidFrom, r.ValidUntil)
	if err != nil {
		return nil, err
	}

	p := &promo.PromoCode{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:           promo.NormalizeCode(r.Code),
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		Currency:       types.NormalizeCurrency(r.Currency),
		MinimumSpend:   r.MinimumSpend,
		ValidFrom:      from,
		ValidUntil:     until,
		MaxRedemptions: r.MaxRedemptions,
		MaxPerUser:     r.MaxPerUser,
		Status:         types.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.MaximumDiscount != nil {
		p.MaximumDiscount = decimal.NewNullDecimal(*r.MaximumDiscount)
	}

	if err := p.ValidateForCreate(); err != nil {
		return nil, err
	}
	return p, nil
}

// PromoCodeResponse represents a promo code and its derived state
type PromoCodeResponse struct {
	*promo.PromoCode
	Expired   bool `json:"expired"`
	Exhausted bool `json:"exhausted"`
}

func NewPromoCodeResponse(p *promo.PromoCode, asOf time.Time) *PromoCodeResponse {
	return &PromoCodeResponse{
		PromoCode: p,
		Expired:   p.IsExpired(asOf),
		Exhausted: p.IsExhausted(),
	}
}

// PreviewPromoRequest evaluates a promo code against an amount without redeeming it
type PreviewPromoRequest struct {
	Code     string          `json:"code" validate:"required,max=64"`
	UserID   string          `json:"user_id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,currency"`
}

func (r *PreviewPromoRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Amount cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PreviewPromoResponse is the discount a promo code would give
type PreviewPromoResponse struct {
	Code           string              `json:"code"`
	Valid          bool                `json:"valid"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	Currency       string              `json:"currency"`
	Reason         string              `json:"reason,omitempty"`
	PromoApplied   *quote.PromoApplied `json:"promo_applied,omitempty"`
}

// RedeemPromoRequest consumes one redemption of a promo code for a reservation
type RedeemPromoRequest struct {
	Code          string `json:"code" validate:"required,max=64"`
	UserID        string `json:"user_id" validate:"required"`
	ReservationID string `json:"reservation_id" validate:"required"`
}

func (r *RedeemPromoRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PromoUsageResponse represents a recorded redemption
type PromoUsageResponse struct {
	*promo.Usage
	Code string `json:"code"`
}
