package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/suite"
)

var pricingConfigColumns = []string{
	"id", "listing_id", "base_price", "currency", "weekend_multiplier", "rules", "created_at", "updated_at",
}

// repositorySuite opens a sqlmock backed postgres.DB for every test
type repositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *postgres.DB
	mock sqlmock.Sqlmock
	now  time.Time
}

func (s *repositorySuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.db = postgres.NewFromSqlx(sqlx.NewDb(mockDB, "postgres"), logger.NewNopLogger())
	s.mock = mock
	s.now = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
}

func (s *repositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

type PricingConfigRepositorySuite struct {
	repositorySuite
	repo pricing.Repository
}

func TestPricingConfigRepository(t *testing.T) {
	suite.Run(t, new(PricingConfigRepositorySuite))
}

func (s *PricingConfigRepositorySuite) SetupTest() {
	s.repositorySuite.SetupTest()
	s.repo = NewPricingConfigRepository(s.db, logger.NewNopLogger())
}

func (s *PricingConfigRepositorySuite) TestGet() {
	rules := `{
		"overrides": [{"start": "2024-03-07T00:00:00Z", "end": "2024-03-10T00:00:00Z", "price": "50"}],
		"length_discounts": [{"min_nights": 7, "percentage": "10"}],
		"guest_fees": {"adult": {"type": "per_person", "value": "10", "limit": 2}},
		"additional_fees": {"cleaning_fee": "50", "service_fee": "20"}
	}`
	s.mock.ExpectQuery(`SELECT (.+) FROM pricing_configs WHERE listing_id = \$1`).
		WithArgs("listing_1").
		WillReturnRows(sqlmock.NewRows(pricingConfigColumns).
			AddRow("pcfg_1", "listing_1", "100", "USD", "1.2", []byte(rules), s.now, s.now))

	cfg, err := s.repo.Get(s.ctx, "listing_1")
	s.Require().NoError(err)
	s.Equal("pcfg_1", cfg.ID)
	s.True(cfg.BasePrice.Equal(decimal.NewFromInt(100)))
	s.True(cfg.WeekendMultiplier.Equal(decimal.RequireFromString("1.2")))
	s.Require().Len(cfg.Overrides, 1)
	s.True(cfg.Overrides[0].Price.Equal(decimal.NewFromInt(50)))
	s.Equal(7, cfg.LengthDiscounts[0].MinNights)
	s.Equal(types.FeeRuleTypePerPerson, cfg.GuestFees.Adult.Type)
	s.True(cfg.AdditionalFees.ServiceFee.Equal(decimal.NewFromInt(20)))
}

func (s *PricingConfigRepositorySuite) TestGetNotFound() {
	s.mock.ExpectQuery(`SELECT (.+) FROM pricing_configs`).
		WithArgs("listing_missing").
		WillReturnRows(sqlmock.NewRows(pricingConfigColumns))

	_, err := s.repo.Get(s.ctx, "listing_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *PricingConfigRepositorySuite) TestGetMalformedRules() {
	s.mock.ExpectQuery(`SELECT (.+) FROM pricing_configs`).
		WithArgs("listing_1").
		WillReturnRows(sqlmock.NewRows(pricingConfigColumns).
			AddRow("pcfg_1", "listing_1", "100", "USD", "1", []byte(`{"overrides": "soon"}`), s.now, s.now))

	_, err := s.repo.Get(s.ctx, "listing_1")
	s.True(ierr.IsDataIntegrity(err))
}

func (s *PricingConfigRepositorySuite) TestGetDatabaseError() {
	s.mock.ExpectQuery(`SELECT (.+) FROM pricing_configs`).
		WithArgs("listing_1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.repo.Get(s.ctx, "listing_1")
	s.True(ierr.IsDatabase(err))
}

func (s *PricingConfigRepositorySuite) TestUpsert() {
	cfg := &pricing.Config{
		ListingID: "listing_1",
		BasePrice: decimal.NewFromInt(100),
		Currency:  "USD",
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}

	s.mock.ExpectExec(`INSERT INTO pricing_configs (.+) ON CONFLICT \(listing_id\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "listing_1", sqlmock.AnyArg(), "USD", sqlmock.AnyArg(), sqlmock.AnyArg(), s.now, s.now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Upsert(s.ctx, cfg))
	s.NotEmpty(cfg.ID)
}

func (s *PricingConfigRepositorySuite) TestDelete() {
	s.mock.ExpectExec(`DELETE FROM pricing_configs WHERE listing_id = \$1`).
		WithArgs("listing_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`DELETE FROM pricing_configs`).
		WithArgs("listing_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s.NoError(s.repo.Delete(s.ctx, "listing_1"))
	s.True(ierr.IsNotFound(s.repo.Delete(s.ctx, "listing_missing")))
}

func (s *PricingConfigRepositorySuite) TestUpsertInTransaction() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO pricing_configs`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectRollback()

	failure := ierr.NewError("later step failed").Mark(ierr.ErrInvalidOperation)
	err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
		if err := s.repo.Upsert(ctx, &pricing.Config{ListingID: "listing_1", Currency: "USD"}); err != nil {
			return err
		}
		return failure
	})
	s.True(ierr.IsInvalidOperation(err))
}

