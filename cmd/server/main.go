package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/stayquote/stayquote/internal/api"
	v1 "github.com/stayquote/stayquote/internal/api/v1"
	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/clock"
	"github.com/stayquote/stayquote/internal/config"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/httpclient"
	"github.com/stayquote/stayquote/internal/integration/ratesource"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/repository"
	"github.com/stayquote/stayquote/internal/service"
	"github.com/stayquote/stayquote/internal/types"
	"go.uber.org/fx"
)

const (
	warmUpAttempts  = 5
	shutdownTimeout = 10 * time.Second
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			clock.NewRealClock,

			// Cache
			provideCache,

			// Postgres
			provideDB,
			repository.NewTransactionClient,

			// HTTP Client
			provideHTTPClient,

			// Integrations
			ratesource.NewClient,

			// Repositories
			repository.NewPricingConfigRepository,
			repository.NewPromoCodeRepository,
			repository.NewPromoUsageRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			// Exchange rates
			service.NewRateTableCache,
			service.NewExchangeRateService,
			service.NewCurrencyNormalizer,

			// Pricing engine
			service.NewNightlyPriceCalculator,
			service.NewFeeCalculator,
			service.NewDiscountCalculator,
			service.NewQuoteService,

			// Management services
			service.NewPricingConfigService,
			service.NewPromoService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			warmUpRates,
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg)
}

// provideDB connects to postgres only when the postgres driver is selected
func provideDB(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*postgres.DB, error) {
	if cfg.Repository.Driver != types.RepositoryDriverPostgres {
		log.Infow("using in-memory repositories", "driver", cfg.Repository.Driver)
		return nil, nil
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
	return db, nil
}

func provideHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:  cfg.ExchangeRate.FetchTimeout,
		RetryMax: cfg.ExchangeRate.RetryMax,
	})
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	clk clock.Clock,
	quoteService service.QuoteService,
	pricingConfigService service.PricingConfigService,
	promoService service.PromoService,
	exchangeRateService service.ExchangeRateService,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(cfg, logger),
		Quote:         v1.NewQuoteHandler(quoteService, clk, logger),
		PricingConfig: v1.NewPricingConfigHandler(pricingConfigService, logger),
		Promo:         v1.NewPromoHandler(promoService, logger),
		ExchangeRate:  v1.NewExchangeRateHandler(exchangeRateService, logger),
	}
}

// warmUpRates loads the pivot rate table in the background so the first quotes
// hit a warm cache. Failures only delay the first fetch to request time.
func warmUpRates(lc fx.Lifecycle, cfg *config.Configuration, rates service.ExchangeRateService, log *logger.Logger) {
	if !cfg.ExchangeRate.WarmUp {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				operation := func() error {
					_, err := rates.GetRates(ctx, cfg.ExchangeRate.PivotCurrency)
					if err != nil && !ierr.IsRetryable(err) {
						return backoff.Permanent(err)
					}
					return err
				}

				policy := backoff.WithContext(
					backoff.WithMaxRetries(backoff.NewExponentialBackOff(), warmUpAttempts),
					ctx,
				)
				notify := func(err error, wait time.Duration) {
					log.Warnw("exchange rate warm-up failed, retrying",
						"base", cfg.ExchangeRate.PivotCurrency,
						"wait", wait,
						"error", err,
					)
				}

				if err := backoff.RetryNotify(operation, policy, notify); err != nil {
					log.Errorw("exchange rate warm-up gave up", "error", err)
					return
				}
				log.Infow("exchange rate cache warmed", "base", cfg.ExchangeRate.PivotCurrency)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
