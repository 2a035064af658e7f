package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/stayquote/stayquote/internal/api/v1"
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/rest/middleware"
	"github.com/stayquote/stayquote/internal/types"
)

type Handlers struct {
	Health        *v1.HealthHandler
	Quote         *v1.QuoteHandler
	PricingConfig *v1.PricingConfigHandler
	Promo         *v1.PromoHandler
	ExchangeRate  *v1.ExchangeRateHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.UserIDMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Quote routes
	router.POST("/quotes", handlers.Quote.ComputeQuote)

	// Listing routes
	listings := router.Group("/listings/:id")
	{
		listings.POST("/quotes", handlers.Quote.QuoteListing)
		listings.POST("/quotes/currencies", handlers.Quote.QuoteListingCurrencies)
		listings.PUT("/pricing", handlers.PricingConfig.UpsertPricingConfig)
		listings.GET("/pricing", handlers.PricingConfig.GetPricingConfig)
		listings.DELETE("/pricing", handlers.PricingConfig.DeletePricingConfig)
	}

	// Exchange rate routes
	router.GET("/exchange-rates/:base", handlers.ExchangeRate.GetExchangeRates)

	// Promo routes
	promos := router.Group("/promos")
	{
		promos.POST("", handlers.Promo.CreatePromoCode)
		promos.POST("/preview", handlers.Promo.PreviewPromoCode)
		promos.POST("/redeem", handlers.Promo.RedeemPromoCode)
		promos.GET("/:code", handlers.Promo.GetPromoCode)
	}
}
