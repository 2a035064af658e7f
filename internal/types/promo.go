package types

import (
	"github.com/samber/lo"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// PromoDiscountType represents the type of promo code discount (flat or percentage)
type PromoDiscountType string

const (
	// PromoDiscountTypePercentage is relative to the remaining base price
	PromoDiscountTypePercentage PromoDiscountType = "percentage"
	// PromoDiscountTypeFlat is an absolute amount in the promo's own currency
	PromoDiscountTypeFlat PromoDiscountType = "flat"
)

func (t PromoDiscountType) String() string {
	return string(t)
}

func (t PromoDiscountType) Validate() error {
	allowed := []PromoDiscountType{
		PromoDiscountTypePercentage,
		PromoDiscountTypeFlat,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid promo discount type").
			WithHint("Discount type must be either percentage or flat").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PromoRejectionReason is a machine readable reason a promo code was not applied
type PromoRejectionReason string

const (
	PromoRejectionNotFound          PromoRejectionReason = "PROMO_NOT_FOUND"
	PromoRejectionMinimumSpend      PromoRejectionReason = "MINIMUM_SPEND_NOT_MET"
	PromoRejectionPerUserLimit      PromoRejectionReason = "PER_USER_LIMIT_REACHED"
	PromoRejectionRedemptionLimit   PromoRejectionReason = "REDEMPTION_LIMIT_REACHED"
	PromoRejectionMissingUser       PromoRejectionReason = "USER_REQUIRED"
	PromoRejectionNothingToDiscount PromoRejectionReason = "NOTHING_TO_DISCOUNT"
)

func (r PromoRejectionReason) String() string {
	return string(r)
}
