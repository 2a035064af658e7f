package testutil

import (
	"context"
	"time"

	"github.com/stayquote/stayquote/internal/cache"
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/repository/memory"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PricingConfigRepo pricing.Repository
	PromoCodeRepo     promo.Repository
	PromoUsageRepo    promo.UsageRepository
}

// DefaultRates is the USD table registered before every test
var DefaultRates = map[string]float64{
	"eur": 0.9,
	"gbp": 0.8,
	"jpy": 150,
	"ugx": 3700,
	"kes": 129.5,
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	stores     Stores
	db         postgres.IClient
	logger     *logger.Logger
	config     *config.Configuration
	cache      *cache.InMemoryCache
	clock      *MockClock
	httpClient *MockHTTPClient
	now        time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	// tests never wait on the token bucket
	s.config.ExchangeRate.RequestsPerSecond = 1000
	s.config.ExchangeRate.Burst = 1000
	s.config.ExchangeRate.RetryMax = 0

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.now = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	s.clock = NewMockClock(s.now)
	s.db = postgres.NewLocalClient()
	s.cache = cache.NewInMemoryCache(s.config)
	s.httpClient = NewMockHTTPClient()
	s.httpClient.RegisterRates(types.CurrencyUSD, types.FormatDate(s.now), DefaultRates)
	s.setupStores()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
	s.httpClient.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PricingConfigRepo: memory.NewPricingConfigStore(),
		PromoCodeRepo:     memory.NewPromoCodeStore(),
		PromoUsageRepo:    memory.NewPromoUsageStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	if store, ok := s.stores.PricingConfigRepo.(*memory.PricingConfigStore); ok {
		store.Clear()
	}
	if store, ok := s.stores.PromoCodeRepo.(*memory.PromoCodeStore); ok {
		store.Clear()
	}
	if store, ok := s.stores.PromoUsageRepo.(*memory.PromoUsageStore); ok {
		store.Clear()
	}
}

// ClearStores clears all stores
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetClock() *MockClock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetHTTPClient() *MockHTTPClient {
	return s.httpClient
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
