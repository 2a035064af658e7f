package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stayquote/stayquote/internal/api/dto"
	"github.com/stayquote/stayquote/internal/domain/pricing"
	"github.com/stayquote/stayquote/internal/domain/quote"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/testutil"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/suite"
)

type PricingConfigServiceSuite struct {
	testutil.BaseServiceTestSuite
	engine *testEngine
}

func TestPricingConfigService(t *testing.T) {
	suite.Run(t, new(PricingConfigServiceSuite))
}

func (s *PricingConfigServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.engine = newTestEngine(&s.BaseServiceTestSuite)
}

func (s *PricingConfigServiceSuite) request(basePrice string) dto.PricingConfigRequest {
	return dto.PricingConfigRequest{
		BasePrice:         dec(basePrice),
		Currency:          "usd",
		WeekendMultiplier: dec("1.2"),
		SeasonalRates: []dto.SeasonalRateRequest{
			{Start: "2024-07-01", End: "2024-09-01", Multiplier: dec("1.5")},
		},
		SpecialDates: []dto.SpecialDateRequest{
			{Date: "2024-12-31", Multiplier: dec("2")},
		},
		Overrides: []dto.RateOverrideRequest{
			{Start: "2024-05-10", End: "2024-05-12", Price: dec("80")},
			{Start: "2024-04-01", End: "2024-04-03", Price: dec("90")},
		},
		LengthDiscounts: []pricing.LengthDiscountTier{{MinNights: 7, Percentage: dec("10")}},
		AdditionalFees:  pricing.AdditionalFees{CleaningFee: dec("50"), ServiceFee: dec("20")},
	}
}

func (s *PricingConfigServiceSuite) TestUpsertAndGet() {
	created, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", s.request("100"))
	s.NoError(err)
	s.NotEmpty(created.ID)
	s.Equal("listing_1", created.ListingID)
	s.Equal("USD", created.Currency)
	s.Equal(s.GetNow(), created.CreatedAt)

	// overrides come back sorted by start date
	s.Len(created.Overrides, 2)
	s.Equal("2024-04-01", created.Overrides[0].Start)
	s.Equal("2024-05-10", created.Overrides[1].Start)

	got, err := s.engine.pricingConfig.GetPricingConfig(s.GetContext(), "listing_1")
	s.NoError(err)
	s.Equal(created.ID, got.ID)
	s.True(got.BasePrice.Equal(dec("100")))
	s.Equal("2024-12-31", got.SpecialDates[0].Date)
}

func (s *PricingConfigServiceSuite) TestUpsertKeepsIdentity() {
	created, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", s.request("100"))
	s.NoError(err)

	s.GetClock().Advance(time.Hour)
	updated, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", s.request("120"))
	s.NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.Equal(s.GetClock().Now(), updated.UpdatedAt)
	s.True(updated.BasePrice.Equal(dec("120")))
}

func (s *PricingConfigServiceSuite) TestUpsertInvalidatesQuoteCache() {
	stay := &quote.BookingRequest{
		CheckIn:  day(2024, time.March, 11),
		CheckOut: day(2024, time.March, 12),
		Adults:   1,
		Currency: "USD",
	}

	_, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", s.request("100"))
	s.NoError(err)
	b, err := s.engine.quotes.QuoteListing(s.GetContext(), "listing_1", stay)
	s.NoError(err)
	s.True(b.TotalBasePrice.Equal(dec("100")))

	_, err = s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", s.request("150"))
	s.NoError(err)
	b, err = s.engine.quotes.QuoteListing(s.GetContext(), "listing_1", stay)
	s.NoError(err)
	s.True(b.TotalBasePrice.Equal(dec("150")))

	s.NoError(s.engine.pricingConfig.DeletePricingConfig(s.GetContext(), "listing_1"))
	_, err = s.engine.quotes.QuoteListing(s.GetContext(), "listing_1", stay)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingConfigServiceSuite) TestUpsertRejectsOverlappingOverrides() {
	req := s.request("100")
	req.Overrides = append(req.Overrides, dto.RateOverrideRequest{Start: "2024-05-11", End: "2024-05-15", Price: dec("70")})

	_, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", req)
	s.Error(err)
	s.True(ierr.IsDataIntegrity(err))

	_, err = s.engine.pricingConfig.GetPricingConfig(s.GetContext(), "listing_1")
	s.True(ierr.IsNotFound(err))
}

func (s *PricingConfigServiceSuite) TestUpsertKeepsLatestOverrides() {
	req := s.request("100")
	req.Overrides = nil
	start := day(2024, time.January, 1)
	for i := 0; i < pricing.MaxOverrides+5; i++ {
		night := start.AddDate(0, 0, i)
		req.Overrides = append(req.Overrides, dto.RateOverrideRequest{
			Start: types.FormatDate(night),
			End:   types.FormatDate(night.AddDate(0, 0, 1)),
			Price: dec(fmt.Sprintf("%d", 50+i)),
		})
	}

	got, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", req)
	s.NoError(err)
	s.Len(got.Overrides, pricing.MaxOverrides)
	s.Equal(types.FormatDate(start.AddDate(0, 0, 5)), got.Overrides[0].Start)
}

func (s *PricingConfigServiceSuite) TestUpsertValidation() {
	tests := []struct {
		name   string
		mutate func(r *dto.PricingConfigRequest)
	}{
		{name: "missing currency", mutate: func(r *dto.PricingConfigRequest) { r.Currency = "" }},
		{name: "bad date", mutate: func(r *dto.PricingConfigRequest) { r.SpecialDates[0].Date = "31/12/2024" }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.request("100")
			tt.mutate(&req)
			_, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", req)
			s.Error(err)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}

	_, err := s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "", s.request("100"))
	s.True(ierr.IsValidation(err))

	req := s.request("-1")
	_, err = s.engine.pricingConfig.UpsertPricingConfig(s.GetContext(), "listing_1", req)
	s.True(ierr.IsDataIntegrity(err))
}

func (s *PricingConfigServiceSuite) TestDeleteMissing() {
	err := s.engine.pricingConfig.DeletePricingConfig(s.GetContext(), "listing_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
