package service

import (
	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/clock"
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/integration/ratesource"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
)

type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache
	Clock  clock.Clock

	// Repositories
	PricingConfigRepo pricing.Repository
	PromoCodeRepo     promo.Repository
	PromoUsageRepo    promo.UsageRepository

	// Integrations
	RateSource ratesource.Client
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	clk clock.Clock,
	pricingConfigRepo pricing.Repository,
	promoCodeRepo promo.Repository,
	promoUsageRepo promo.UsageRepository,
	rateSource ratesource.Client,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Cache:             cache,
		Clock:             clk,
		PricingConfigRepo: pricingConfigRepo,
		PromoCodeRepo:     promoCodeRepo,
		PromoUsageRepo:    promoUsageRepo,
		RateSource:        rateSource,
	}
}
