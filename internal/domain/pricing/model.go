package pricing

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

// MaxOverrides is how many date-range overrides a listing keeps
const MaxOverrides = 365

// Config is the pricing configuration of one listing. Every amount is in Currency,
// the host's listing currency.
type Config struct {
	ID                string               `json:"id" db:"id"`
	ListingID         string               `json:"listing_id" db:"listing_id"`
	BasePrice         decimal.Decimal      `json:"base_price" db:"base_price"`
	Currency          string               `json:"currency" db:"currency"`
	WeekendMultiplier decimal.Decimal      `json:"weekend_multiplier" db:"weekend_multiplier"`
	SeasonalRates     []SeasonalRate       `json:"seasonal_rates"`
	SpecialDates      []SpecialDate        `json:"special_dates"`
	Overrides         []RateOverride       `json:"overrides"`
	LengthDiscounts   []LengthDiscountTier `json:"length_discounts"`
	GuestFees         GuestFeeRules        `json:"guest_fees"`
	AdditionalFees    AdditionalFees       `json:"additional_fees"`
	CreatedAt         time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" db:"updated_at"`
}

// SeasonalRate multiplies every night in [Start, End)
type SeasonalRate struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Contains reports whether night falls in the season
func (s SeasonalRate) Contains(night time.Time) bool {
	return containsNight(s.Start, s.End, night)
}

// SpecialDate multiplies the single night on Date
type SpecialDate struct {
	Date       time.Time       `json:"date"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// RateOverride replaces the base nightly price for every night in [Start, End)
type RateOverride struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Price decimal.Decimal `json:"price"`
}

// Contains reports whether night falls in the override range
func (o RateOverride) Contains(night time.Time) bool {
	return containsNight(o.Start, o.End, night)
}

func (o RateOverride) overlaps(other RateOverride) bool {
	return types.StartOfDay(o.Start).Before(types.StartOfDay(other.End)) &&
		types.StartOfDay(other.Start).Before(types.StartOfDay(o.End))
}

// LengthDiscountTier unlocks Percentage off once the stay reaches MinNights
type LengthDiscountTier struct {
	MinNights  int             `json:"min_nights"`
	Percentage decimal.Decimal `json:"percentage"`
}

// GuestFeeRules holds the extra-guest fee rule per guest type
type GuestFeeRules struct {
	Adult FeeRule `json:"adult"`
	Child FeeRule `json:"child"`
}

// Rule returns the fee rule for a guest type
func (g GuestFeeRules) Rule(guest types.GuestType) FeeRule {
	if guest == types.GuestTypeChild {
		return g.Child
	}
	return g.Adult
}

// FeeRule charges Value once the headcount of its guest type exceeds Limit
type FeeRule struct {
	Type  types.FeeRuleType `json:"type"`
	Value decimal.Decimal   `json:"value"`
	Limit int               `json:"limit"`
}

// IsZero reports whether the rule was left unset
func (r FeeRule) IsZero() bool {
	return r.Type == "" && r.Value.IsZero() && r.Limit == 0
}

// AdditionalFees are charged once per stay, in host currency
type AdditionalFees struct {
	CleaningFee decimal.Decimal `json:"cleaning_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
}

func containsNight(start, end, night time.Time) bool {
	n := types.StartOfDay(night)
	return !n.Before(types.StartOfDay(start)) && n.Before(types.StartOfDay(end))
}

// spansNight reports whether [start, end) covers at least one calendar night
func spansNight(start, end time.Time) bool {
	return types.StartOfDay(start).Before(types.StartOfDay(end))
}

// EffectiveWeekendMultiplier returns the weekend multiplier, 1 when unset
func (c *Config) EffectiveWeekendMultiplier() decimal.Decimal {
	if c.WeekendMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return c.WeekendMultiplier
}

// OverrideFor returns the override covering night, if any
func (c *Config) OverrideFor(night time.Time) (RateOverride, bool) {
	return lo.Find(c.Overrides, func(o RateOverride) bool {
		return o.Contains(night)
	})
}

// NormalizeOverrides sorts overrides by start date and keeps the most recent MaxOverrides
func (c *Config) NormalizeOverrides() {
	sort.SliceStable(c.Overrides, func(i, j int) bool {
		return c.Overrides[i].Start.Before(c.Overrides[j].Start)
	})
	if len(c.Overrides) > MaxOverrides {
		c.Overrides = c.Overrides[len(c.Overrides)-MaxOverrides:]
	}
}

// Validate checks the configuration is internally consistent. Overlapping overrides
// and other malformed data fail with a data integrity error.
func (c *Config) Validate() error {
	if types.ValidateCurrencyCode(c.Currency) != nil {
		return integrityError("currency must be a 3 letter ISO code", map[string]any{
			"currency": c.Currency,
		})
	}

	if c.BasePrice.IsNegative() {
		return integrityError("base price must not be negative", map[string]any{
			"base_price": c.BasePrice.String(),
		})
	}

	if c.WeekendMultiplier.IsNegative() {
		return integrityError("weekend multiplier must not be negative", map[string]any{
			"weekend_multiplier": c.WeekendMultiplier.String(),
		})
	}

	for i, s := range c.SeasonalRates {
		if !spansNight(s.Start, s.End) {
			return integrityError("seasonal rate must end after it starts", map[string]any{"index": i})
		}
		if s.Multiplier.IsNegative() {
			return integrityError("seasonal multiplier must not be negative", map[string]any{"index": i})
		}
	}

	for i, d := range c.SpecialDates {
		if d.Multiplier.IsNegative() {
			return integrityError("special date multiplier must not be negative", map[string]any{"index": i})
		}
	}

	for i, o := range c.Overrides {
		if !spansNight(o.Start, o.End) {
			return integrityError("override must end after it starts", map[string]any{"index": i})
		}
		if o.Price.IsNegative() {
			return integrityError("override price must not be negative", map[string]any{"index": i})
		}
		for j := i + 1; j < len(c.Overrides); j++ {
			if o.overlaps(c.Overrides[j]) {
				return integrityError("override ranges overlap", map[string]any{
					"first":  types.FormatDate(o.Start) + "/" + types.FormatDate(o.End),
					"second": types.FormatDate(c.Overrides[j].Start) + "/" + types.FormatDate(c.Overrides[j].End),
				})
			}
		}
	}

	for i, t := range c.LengthDiscounts {
		if t.MinNights < 1 {
			return integrityError("length discount tier needs at least one night", map[string]any{"index": i})
		}
		if t.Percentage.IsNegative() || t.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return integrityError("length discount percentage must be between 0 and 100", map[string]any{"index": i})
		}
	}

	for _, guest := range []types.GuestType{types.GuestTypeAdult, types.GuestTypeChild} {
		rule := c.GuestFees.Rule(guest)
		if rule.IsZero() {
			continue
		}
		if err := rule.Type.Validate(); err != nil {
			return err
		}
		if rule.Value.IsNegative() || rule.Limit < 0 {
			return integrityError("fee rule value and limit must not be negative", map[string]any{
				"guest_type": guest,
			})
		}
	}

	if c.AdditionalFees.CleaningFee.IsNegative() || c.AdditionalFees.ServiceFee.IsNegative() {
		return integrityError("additional fees must not be negative", nil)
	}

	return nil
}

func integrityError(msg string, details map[string]any) error {
	b := ierr.NewError(msg).
		WithHint("The listing's pricing configuration is invalid: " + msg)
	if details != nil {
		b = b.WithReportableDetails(details)
	}
	return b.Mark(ierr.ErrDataIntegrity)
}
