package types

import (
	"github.com/samber/lo"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// FeeRuleType is how an extra-guest fee is computed above the free headcount
type FeeRuleType string

const (
	// FeeRuleTypeFixed adds the rule value once
	FeeRuleTypeFixed FeeRuleType = "fixed"
	// FeeRuleTypePercentage adds a percentage of the base service fee
	FeeRuleTypePercentage FeeRuleType = "percentage"
	// FeeRuleTypePerPerson adds the rule value for every guest above the limit
	FeeRuleTypePerPerson FeeRuleType = "per_person"
)

func (t FeeRuleType) String() string {
	return string(t)
}

func (t FeeRuleType) Validate() error {
	allowed := []FeeRuleType{
		FeeRuleTypeFixed,
		FeeRuleTypePercentage,
		FeeRuleTypePerPerson,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid fee rule type").
			WithHint("Fee rule type must be one of fixed, percentage or per_person").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrDataIntegrity)
	}
	return nil
}

// GuestType identifies the headcount a fee rule applies to
type GuestType string

const (
	GuestTypeAdult GuestType = "adult"
	GuestTypeChild GuestType = "child"
)
