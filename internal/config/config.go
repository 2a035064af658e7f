package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stayquote/stayquote/internal/types"
)

type Configuration struct {
	Deployment   DeploymentConfig   `validate:"required"`
	Server       ServerConfig       `validate:"required"`
	Logging      LoggingConfig      `validate:"required"`
	Postgres     PostgresConfig     `validate:"required"`
	Cache        CacheConfig        `validate:"required"`
	ExchangeRate ExchangeRateConfig `mapstructure:"exchange_rate" validate:"required"`
	Pricing      PricingConfig      `validate:"required"`
	Repository   RepositoryConfig   `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type CacheConfig struct {
	Disabled          bool
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// ExchangeRateConfig configures the daily rate source and the rate table cache
type ExchangeRateConfig struct {
	URLTemplate       string        `mapstructure:"url_template" validate:"required"`
	PivotCurrency     string        `mapstructure:"pivot_currency" validate:"required,len=3"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"required"`
	CacheCapacity     int           `mapstructure:"cache_capacity" validate:"required,min=1"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout" validate:"required"`
	RetryMax          int           `mapstructure:"retry_max" validate:"min=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" validate:"min=1"`
	WarmUp            bool          `mapstructure:"warm_up"`
}

// PricingConfig holds the surcharge rates applied to every quote.
// Rates are fractions, 0.14 means 14%.
type PricingConfig struct {
	PlatformFeeRate float64       `mapstructure:"platform_fee_rate" validate:"min=0,max=1"`
	TaxRate         float64       `mapstructure:"tax_rate" validate:"min=0,max=1"`
	MaxStayNights   int           `mapstructure:"max_stay_nights" validate:"required,min=1"`
	ConfigCacheTTL  time.Duration `mapstructure:"config_cache_ttl"`
}

type RepositoryConfig struct {
	Driver types.RepositoryDriver `validate:"required,oneof=memory postgres"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the file only exists on developer machines
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stayquote")

	v.SetEnvPrefix("STAYQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("cache.default_expiration", d.Cache.DefaultExpiration)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)
	v.SetDefault("exchange_rate.url_template", d.ExchangeRate.URLTemplate)
	v.SetDefault("exchange_rate.pivot_currency", d.ExchangeRate.PivotCurrency)
	v.SetDefault("exchange_rate.cache_ttl", d.ExchangeRate.CacheTTL)
	v.SetDefault("exchange_rate.cache_capacity", d.ExchangeRate.CacheCapacity)
	v.SetDefault("exchange_rate.fetch_timeout", d.ExchangeRate.FetchTimeout)
	v.SetDefault("exchange_rate.retry_max", d.ExchangeRate.RetryMax)
	v.SetDefault("exchange_rate.requests_per_second", d.ExchangeRate.RequestsPerSecond)
	v.SetDefault("exchange_rate.burst", d.ExchangeRate.Burst)
	v.SetDefault("pricing.platform_fee_rate", d.Pricing.PlatformFeeRate)
	v.SetDefault("pricing.tax_rate", d.Pricing.TaxRate)
	v.SetDefault("pricing.max_stay_nights", d.Pricing.MaxStayNights)
	v.SetDefault("pricing.config_cache_ttl", d.Pricing.ConfigCacheTTL)
	v.SetDefault("repository.driver", d.Repository.Driver)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres:   PostgresConfig{Port: 5432, SSLMode: "disable"},
		Cache: CacheConfig{
			DefaultExpiration: 30 * time.Minute,
			CleanupInterval:   time.Hour,
		},
		ExchangeRate: ExchangeRateConfig{
			URLTemplate:       "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@{date}/v1/currencies/{base}.json",
			PivotCurrency:     types.CurrencyUSD,
			CacheTTL:          time.Hour,
			CacheCapacity:     10,
			FetchTimeout:      10 * time.Second,
			RetryMax:          2,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Pricing: PricingConfig{
			PlatformFeeRate: 0.14,
			TaxRate:         0.18,
			MaxStayNights:   365,
			ConfigCacheTTL:  5 * time.Minute,
		},
		Repository: RepositoryConfig{Driver: types.RepositoryDriverMemory},
	}
}

func (c PricingConfig) PlatformFee() decimal.Decimal {
	return decimal.NewFromFloat(c.PlatformFeeRate)
}

func (c PricingConfig) Tax() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxRate)
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
