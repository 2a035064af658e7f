package ratesource

import (
	"context"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stayquote/stayquote/internal/clock"
	"github.com/stayquote/stayquote/internal/config"
	"github.com/stayquote/stayquote/internal/domain/exchange"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/httpclient"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/types"
	"golang.org/x/time/rate"
)

const (
	placeholderDate = "{date}"
	placeholderBase = "{base}"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client fetches daily exchange rate tables from the public rate source
type Client interface {
	// Fetch returns every rate published for base on the calendar day of date
	Fetch(ctx context.Context, base string, date time.Time) (*exchange.RateTable, error)
}

type client struct {
	httpClient  httpclient.Client
	limiter     *rate.Limiter
	urlTemplate string
	timeout     time.Duration
	clock       clock.Clock
	logger      *logger.Logger
}

// NewClient creates a rate source client. Requests are paced by a token bucket
// and each one is bounded by the configured fetch timeout.
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, clk clock.Clock, logger *logger.Logger) Client {
	ec := cfg.ExchangeRate
	burst := ec.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if ec.RequestsPerSecond > 0 {
		limit = rate.Limit(ec.RequestsPerSecond)
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}

	return &client{
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(limit, burst),
		urlTemplate: ec.URLTemplate,
		timeout:     ec.FetchTimeout,
		clock:       clk,
		logger:      logger,
	}
}

// URL renders the source URL for a base currency and day
func URL(template, base string, date time.Time) string {
	url := strings.ReplaceAll(template, placeholderDate, types.FormatDate(date))
	return strings.ReplaceAll(url, placeholderBase, strings.ToLower(base))
}

func (c *client) Fetch(ctx context.Context, base string, date time.Time) (*exchange.RateTable, error) {
	base = strings.ToLower(strings.TrimSpace(base))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Exchange rates are temporarily unavailable, please retry").
			Mark(ierr.ErrUpstreamUnavailable)
	}

	url := URL(c.urlTemplate, base, date)
	c.logger.Debugw("fetching exchange rates", "base", base, "url", url)

	resp, err := c.httpClient.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		details := map[string]any{"base": base}
		hint := "Exchange rates are temporarily unavailable, please retry"
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			details["status_code"] = httpErr.StatusCode
			if !httpErr.Transient() {
				hint = "Exchange rates for this currency are not published by the rate source"
			}
		}
		c.logger.Warnw("exchange rate fetch failed", "base", base, "error", err)
		return nil, ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrUpstreamUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ierr.NewError("unexpected exchange rate response").
			WithHint("Exchange rates are temporarily unavailable, please retry").
			WithReportableDetails(map[string]any{
				"base":        base,
				"status_code": resp.StatusCode,
			}).
			Mark(ierr.ErrUpstreamUnavailable)
	}

	return c.decode(base, resp.Body)
}

func (c *client) decode(base string, body []byte) (*exchange.RateTable, error) {
	var payload map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(base, err)
	}

	var date string
	if raw, ok := payload["date"]; ok {
		if err := json.Unmarshal(raw, &date); err != nil {
			return nil, malformed(base, err)
		}
	}

	raw, ok := payload[base]
	if !ok {
		return nil, malformed(base, nil)
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, malformed(base, err)
	}
	if len(rates) == 0 {
		return nil, malformed(base, nil)
	}

	return &exchange.RateTable{
		Base:      base,
		Date:      date,
		Rates:     rates,
		FetchedAt: c.clock.Now(),
	}, nil
}

func malformed(base string, cause error) error {
	b := ierr.NewError("malformed exchange rate response")
	if cause != nil {
		b = ierr.WithError(cause).WithMessage("malformed exchange rate response")
	}
	return b.
		WithHint("Exchange rates are temporarily unavailable, please retry").
		WithReportableDetails(map[string]any{"base": base}).
		Mark(ierr.ErrUpstreamUnavailable)
}
