package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/domain/exchange"
)

// ExchangeRatesResponse lists every rate published for a base currency
type ExchangeRatesResponse struct {
	Base      string                     `json:"base"`
	Date      string                     `json:"date"`
	FetchedAt time.Time                  `json:"fetched_at"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

func NewExchangeRatesResponse(t *exchange.RateTable) *ExchangeRatesResponse {
	rates := make(map[string]decimal.Decimal, len(t.Rates))
	for code, rate := range t.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	return &ExchangeRatesResponse{
		Base:      strings.ToUpper(t.Base),
		Date:      t.Date,
		FetchedAt: t.FetchedAt,
		Rates:     rates,
	}
}
