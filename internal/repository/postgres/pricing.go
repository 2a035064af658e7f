package postgres

import (
	"context"
	"database/sql"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type pricingConfigRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPricingConfigRepository(db *postgres.DB, logger *logger.Logger) pricing.Repository {
	return &pricingConfigRepository{db: db, logger: logger}
}

// pricingConfigRow is the stored shape of a pricing.Config, the rule lists
// live in a single jsonb document
type pricingConfigRow struct {
	ID                string          `db:"id"`
	ListingID         string          `db:"listing_id"`
	BasePrice         decimal.Decimal `db:"base_price"`
	Currency          string          `db:"currency"`
	WeekendMultiplier decimal.Decimal `db:"weekend_multiplier"`
	Rules             []byte          `db:"rules"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

type pricingRules struct {
	SeasonalRates   []pricing.SeasonalRate       `json:"seasonal_rates"`
	SpecialDates    []pricing.SpecialDate        `json:"special_dates"`
	Overrides       []pricing.RateOverride       `json:"overrides"`
	LengthDiscounts []pricing.LengthDiscountTier `json:"length_discounts"`
	GuestFees       pricing.GuestFeeRules        `json:"guest_fees"`
	AdditionalFees  pricing.AdditionalFees       `json:"additional_fees"`
}

func (row *pricingConfigRow) toDomain() (*pricing.Config, error) {
	var rules pricingRules
	if len(row.Rules) > 0 {
		if err := json.Unmarshal(row.Rules, &rules); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Stored pricing configuration is malformed").
				WithReportableDetails(map[string]any{"listing_id": row.ListingID}).
				Mark(ierr.ErrDataIntegrity)
		}
	}

	return &pricing.Config{
		ID:                row.ID,
		ListingID:         row.ListingID,
		BasePrice:         row.BasePrice,
		Currency:          row.Currency,
		WeekendMultiplier: row.WeekendMultiplier,
		SeasonalRates:     rules.SeasonalRates,
		SpecialDates:      rules.SpecialDates,
		Overrides:         rules.Overrides,
		LengthDiscounts:   rules.LengthDiscounts,
		GuestFees:         rules.GuestFees,
		AdditionalFees:    rules.AdditionalFees,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func (r *pricingConfigRepository) Get(ctx context.Context, listingID string) (*pricing.Config, error) {
	query := `
		SELECT id, listing_id, base_price, currency, weekend_multiplier, rules, created_at, updated_at
		FROM pricing_configs
		WHERE listing_id = $1`

	var row pricingConfigRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, listingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHintf("Pricing configuration for listing %s was not found", listingID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load pricing configuration").
			Mark(ierr.ErrDatabase)
	}

	return row.toDomain()
}

func (r *pricingConfigRepository) Upsert(ctx context.Context, cfg *pricing.Config) error {
	rules, err := json.Marshal(pricingRules{
		SeasonalRates:   cfg.SeasonalRates,
		SpecialDates:    cfg.SpecialDates,
		Overrides:       cfg.Overrides,
		LengthDiscounts: cfg.LengthDiscounts,
		GuestFees:       cfg.GuestFees,
		AdditionalFees:  cfg.AdditionalFees,
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Pricing configuration could not be encoded").
			Mark(ierr.ErrSystem)
	}

	if cfg.ID == "" {
		cfg.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING_CONFIG)
	}

	query := `
		INSERT INTO pricing_configs (
			id, listing_id, base_price, currency, weekend_multiplier, rules, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (listing_id) DO UPDATE SET
			base_price = EXCLUDED.base_price,
			currency = EXCLUDED.currency,
			weekend_multiplier = EXCLUDED.weekend_multiplier,
			rules = EXCLUDED.rules,
			updated_at = EXCLUDED.updated_at`

	r.logger.Debugw("upserting pricing configuration", "listing_id", cfg.ListingID)

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query,
		cfg.ID,
		cfg.ListingID,
		cfg.BasePrice,
		cfg.Currency,
		cfg.WeekendMultiplier,
		rules,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save pricing configuration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *pricingConfigRepository) Delete(ctx context.Context, listingID string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `DELETE FROM pricing_configs WHERE listing_id = $1`, listingID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete pricing configuration").
			Mark(ierr.ErrDatabase)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("pricing configuration not found").
			WithHintf("Pricing configuration for listing %s was not found", listingID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
