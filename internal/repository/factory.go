package repository

import (
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/promo"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/repository/memory"
	postgresRepo "github.com/stayquote/stayquote/internal/repository/postgres"
	"github.com/stayquote/stayquote/internal/types"
)

func usePostgres(cfg *config.Configuration, db *postgres.DB) bool {
	return cfg.Repository.Driver == types.RepositoryDriverPostgres && db != nil
}

func NewPricingConfigRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) pricing.Repository {
	if usePostgres(cfg, db) {
		return postgresRepo.NewPricingConfigRepository(db, logger)
	}
	return memory.NewPricingConfigStore()
}

func NewPromoCodeRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) promo.Repository {
	if usePostgres(cfg, db) {
		return postgresRepo.NewPromoCodeRepository(db, logger)
	}
	return memory.NewPromoCodeStore()
}

func NewPromoUsageRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) promo.UsageRepository {
	if usePostgres(cfg, db) {
		return postgresRepo.NewPromoUsageRepository(db, logger)
	}
	return memory.NewPromoUsageStore()
}

// NewTransactionClient returns the unit of work runner matching the repositories in use
func NewTransactionClient(cfg *config.Configuration, db *postgres.DB) postgres.IClient {
	if usePostgres(cfg, db) {
		return db
	}
	return postgres.NewLocalClient()
}
