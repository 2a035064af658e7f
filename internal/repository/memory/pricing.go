package memory

import (
	"context"
	"slices"

	"github.com/stayquote/stayquote/internal/domain/pricing"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// PricingConfigStore implements pricing.Repository
type PricingConfigStore struct {
	*Store[*pricing.Config]
}

// NewPricingConfigStore creates a new in-memory pricing configuration store
func NewPricingConfigStore() *PricingConfigStore {
	return &PricingConfigStore{
		Store: NewStore[*pricing.Config](),
	}
}

func copyConfig(c *pricing.Config) *pricing.Config {
	if c == nil {
		return nil
	}
	copied := *c
	copied.SeasonalRates = slices.Clone(c.SeasonalRates)
	copied.SpecialDates = slices.Clone(c.SpecialDates)
	copied.Overrides = slices.Clone(c.Overrides)
	copied.LengthDiscounts = slices.Clone(c.LengthDiscounts)
	return &copied
}

func (s *PricingConfigStore) Get(ctx context.Context, listingID string) (*pricing.Config, error) {
	c, err := s.Store.Get(ctx, listingID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Pricing configuration for listing %s was not found", listingID).
			Mark(ierr.ErrNotFound)
	}
	return copyConfig(c), nil
}

func (s *PricingConfigStore) Upsert(ctx context.Context, cfg *pricing.Config) error {
	if cfg == nil {
		return ierr.NewError("pricing configuration cannot be nil").
			WithHint("Pricing configuration cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.Store.Put(ctx, cfg.ListingID, copyConfig(cfg))
	return nil
}

func (s *PricingConfigStore) Delete(ctx context.Context, listingID string) error {
	if err := s.Store.Delete(ctx, listingID); err != nil {
		return ierr.WithError(err).
			WithHintf("Pricing configuration for listing %s was not found", listingID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
