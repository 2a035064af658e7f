package service

import (
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/types"
)

var hundred = decimal.NewFromInt(100)

// FeeCalculator applies the tiered extra-guest rules to the base service fee
type FeeCalculator interface {
	// CalculateServiceFees returns baseServiceFee plus the adult and child surcharges
	CalculateServiceFees(rules pricing.GuestFeeRules, children, adults int, baseServiceFee decimal.Decimal) decimal.Decimal
}

type feeCalculator struct{}

func NewFeeCalculator() FeeCalculator {
	return &feeCalculator{}
}

func (c *feeCalculator) CalculateServiceFees(
	rules pricing.GuestFeeRules,
	children, adults int,
	baseServiceFee decimal.Decimal,
) decimal.Decimal {
	adultFee := guestFee(rules.Rule(types.GuestTypeAdult), adults, baseServiceFee)
	childFee := guestFee(rules.Rule(types.GuestTypeChild), children, baseServiceFee)
	return baseServiceFee.Add(adultFee).Add(childFee)
}

func guestFee(rule pricing.FeeRule, headcount int, baseServiceFee decimal.Decimal) decimal.Decimal {
	if rule.IsZero() || headcount <= rule.Limit {
		return decimal.Zero
	}

	extra := decimal.NewFromInt(int64(headcount - rule.Limit))
	switch rule.Type {
	case types.FeeRuleTypeFixed:
		return rule.Value
	case types.FeeRuleTypePercentage:
		return baseServiceFee.Mul(rule.Value).Div(hundred)
	case types.FeeRuleTypePerPerson:
		return extra.Mul(rule.Value)
	default:
		return decimal.Zero
	}
}
