package service

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/testutil"
	"github.com/stayquote/stayquote/internal/types"
	"github.com/stretchr/testify/suite"
)

type CurrencyNormalizerSuite struct {
	testutil.BaseServiceTestSuite
	engine *testEngine
}

func TestCurrencyNormalizer(t *testing.T) {
	suite.Run(t, new(CurrencyNormalizerSuite))
}

func (s *CurrencyNormalizerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.engine = newTestEngine(&s.BaseServiceTestSuite)
}

func (s *CurrencyNormalizerSuite) payload() map[string]any {
	return map[string]any{
		"base_price": 100,
		"title":      "Lake house",
		"guests":     4,
		"fees": map[string]any{
			"cleaning_fee": 25.5,
			"note":         "paid once",
		},
		"extras": []any{
			map[string]any{"base_price": json.Number("10"), "name": "kayak"},
			map[string]any{"base_price": decimal.NewFromInt(2), "name": "towels"},
		},
		"rooms": []map[string]any{
			{"base_price": int64(40)},
		},
	}
}

func (s *CurrencyNormalizerSuite) TestNormalizeConvertsListedKeysAtAnyDepth() {
	in := s.payload()
	out, rate, err := s.engine.normalizer.Normalize(s.GetContext(), in,
		[]string{"base_price", "cleaning_fee"}, "USD", "EUR", types.RoundingModeFixed)
	s.NoError(err)
	s.True(rate.Equal(dec("0.9")))

	s.True(out["base_price"].(decimal.Decimal).Equal(dec("90")))
	s.True(out["fees"].(map[string]any)["cleaning_fee"].(decimal.Decimal).Equal(dec("22.95")))
	s.True(out["extras"].([]any)[0].(map[string]any)["base_price"].(decimal.Decimal).Equal(dec("9")))
	s.True(out["extras"].([]any)[1].(map[string]any)["base_price"].(decimal.Decimal).Equal(dec("1.8")))
	s.True(out["rooms"].([]map[string]any)[0]["base_price"].(decimal.Decimal).Equal(dec("36")))

	// unlisted fields pass through untouched
	s.Equal(4, out["guests"])
	s.Equal("Lake house", out["title"])
	s.Equal("paid once", out["fees"].(map[string]any)["note"])
	s.Equal("kayak", out["extras"].([]any)[0].(map[string]any)["name"])
}

func (s *CurrencyNormalizerSuite) TestNormalizeDoesNotMutateInput() {
	in := s.payload()
	_, _, err := s.engine.normalizer.Normalize(s.GetContext(), in,
		[]string{"base_price", "cleaning_fee"}, "USD", "JPY", types.RoundingModeRound)
	s.NoError(err)

	s.Equal(100, in["base_price"])
	s.Equal(25.5, in["fees"].(map[string]any)["cleaning_fee"])
	s.Equal(json.Number("10"), in["extras"].([]any)[0].(map[string]any)["base_price"])
	s.Equal(int64(40), in["rooms"].([]map[string]any)[0]["base_price"])
}

func (s *CurrencyNormalizerSuite) TestRoundingModes() {
	payload := map[string]any{"amount": dec("10.123")}
	keys := []string{"amount"}

	tests := []struct {
		name     string
		rate     decimal.Decimal
		currency string
		mode     types.RoundingMode
		want     string
	}{
		{name: "none keeps precision", rate: dec("1.5"), currency: "EUR", mode: types.RoundingModeNone, want: "15.1845"},
		{name: "fixed rounds to cents", rate: dec("1.5"), currency: "EUR", mode: types.RoundingModeFixed, want: "15.18"},
		{name: "round gives whole units", rate: dec("1.5"), currency: "JPY", mode: types.RoundingModeRound, want: "15"},
		{name: "round ugx to hundreds", rate: dec("3700"), currency: "UGX", mode: types.RoundingModeRound, want: "37500"},
		{name: "round small ugx to units", rate: dec("9.5"), currency: "UGX", mode: types.RoundingModeRound, want: "96"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			out, err := s.engine.normalizer.NormalizeWithRate(payload, keys, tt.rate, tt.currency, tt.mode)
			s.NoError(err)
			got := out["amount"].(decimal.Decimal)
			s.True(got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func (s *CurrencyNormalizerSuite) TestListedSliceValues() {
	out, err := s.engine.normalizer.NormalizeWithRate(map[string]any{
		"prices": []any{10, 20.5, "n/a"},
	}, []string{"prices"}, dec("2"), "USD", types.RoundingModeFixed)
	s.NoError(err)

	prices := out["prices"].([]any)
	s.True(prices[0].(decimal.Decimal).Equal(dec("20")))
	s.True(prices[1].(decimal.Decimal).Equal(dec("41")))
	s.Equal("n/a", prices[2])
}

func (s *CurrencyNormalizerSuite) TestInvalidMode() {
	_, err := s.engine.normalizer.NormalizeWithRate(map[string]any{}, nil, dec("1"), "USD", types.RoundingMode("ceil"))
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, _, err = s.engine.normalizer.Normalize(s.GetContext(), map[string]any{}, nil, "USD", "EUR", "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.GetHTTPClient().TotalCalls())
}

func (s *CurrencyNormalizerSuite) TestUpstreamFailure() {
	s.GetHTTPClient().Clear()

	_, _, err := s.engine.normalizer.Normalize(s.GetContext(), s.payload(),
		[]string{"base_price"}, "USD", "EUR", types.RoundingModeFixed)
	s.Error(err)
	s.True(ierr.IsUpstreamUnavailable(err))
}

func (s *CurrencyNormalizerSuite) TestNilPayload() {
	out, err := s.engine.normalizer.NormalizeWithRate(nil, []string{"base_price"}, dec("2"), "USD", types.RoundingModeFixed)
	s.NoError(err)
	s.Nil(out)
}
