package service

import (
	"context"

	"github.com/stayquote/stayquote/internal/api/dto"
	"github.com/stayquote/stayquote/internal/cache"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

// PricingConfigService manages the pricing configuration of listings
type PricingConfigService interface {
	GetPricingConfig(ctx context.Context, listingID string) (*dto.PricingConfigResponse, error)
	UpsertPricingConfig(ctx context.Context, listingID string, req dto.PricingConfigRequest) (*dto.PricingConfigResponse, error)
	DeletePricingConfig(ctx context.Context, listingID string) error
}

type pricingConfigService struct {
	ServiceParams
}

func NewPricingConfigService(params ServiceParams) PricingConfigService {
	return &pricingConfigService{
		ServiceParams: params,
	}
}

func (s *pricingConfigService) GetPricingConfig(ctx context.Context, listingID string) (*dto.PricingConfigResponse, error) {
	if listingID == "" {
		return nil, ierr.NewError("listing_id is required").
			WithHint("Listing ID is required").
			Mark(ierr.ErrValidation)
	}

	cfg, err := s.PricingConfigRepo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return dto.NewPricingConfigResponse(cfg), nil
}

func (s *pricingConfigService) UpsertPricingConfig(
	ctx context.Context,
	listingID string,
	req dto.PricingConfigRequest,
) (*dto.PricingConfigResponse, error) {
	if listingID == "" {
		return nil, ierr.NewError("listing_id is required").
			WithHint("Listing ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := req.ToPricingConfig(listingID)
	if err != nil {
		return nil, err
	}
	cfg.NormalizeOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	cfg.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRICING_CONFIG)
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	existing, err := s.PricingConfigRepo.Get(ctx, listingID)
	switch {
	case err == nil:
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	case !ierr.IsNotFound(err):
		return nil, err
	}

	if err := s.PricingConfigRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	s.invalidate(ctx, listingID)

	s.Logger.Infow("pricing configuration saved",
		"listing_id", listingID,
		"currency", cfg.Currency,
		"overrides", len(cfg.Overrides),
	)

	return dto.NewPricingConfigResponse(cfg), nil
}

func (s *pricingConfigService) DeletePricingConfig(ctx context.Context, listingID string) error {
	if listingID == "" {
		return ierr.NewError("listing_id is required").
			WithHint("Listing ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := s.PricingConfigRepo.Delete(ctx, listingID); err != nil {
		return err
	}
	s.invalidate(ctx, listingID)

	s.Logger.Infow("pricing configuration deleted", "listing_id", listingID)
	return nil
}

func (s *pricingConfigService) invalidate(ctx context.Context, listingID string) {
	if s.Cache == nil {
		return
	}
	s.Cache.Delete(ctx, cache.PricingConfigKey(listingID))
}
