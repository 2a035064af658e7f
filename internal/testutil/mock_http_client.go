package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stayquote/stayquote/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP client for testing
type MockHTTPClient struct {
	mu     sync.RWMutex
	routes map[string]MockResponse
	calls  map[string]int
	total  int
}

// MockResponse represents a mock HTTP response. A non-nil Err is returned instead
// of a response, Delay holds the call until it elapses or the context ends.
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	Err        error
	Delay      time.Duration
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
		calls:  make(map[string]int),
	}
}

// RegisterResponse registers a mock response for every URL ending in suffix
func (m *MockHTTPClient) RegisterResponse(suffix string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[suffix] = resp
}

// RegisterRates is a helper to register a daily rate table in the public source format
func (m *MockHTTPClient) RegisterRates(base string, date string, rates map[string]float64) {
	base = strings.ToLower(base)
	body, _ := jsoniter.Marshal(map[string]any{
		"date": date,
		base:   rates,
	})

	m.RegisterResponse(RatesPath(base), MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// RatesPath is the URL suffix of the rate table of base, whatever the date
func RatesPath(base string) string {
	return "/currencies/" + strings.ToLower(base) + ".json"
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	var matchedRoute string
	var matchedResponse MockResponse
	var found bool
	for route, resp := range m.routes {
		if strings.HasSuffix(req.URL, route) {
			matchedRoute = route
			matchedResponse = resp
			found = true
			break
		}
	}
	m.calls[matchedRoute]++
	m.total++
	m.mu.Unlock()

	if matchedResponse.Delay > 0 {
		select {
		case <-time.After(matchedResponse.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !found {
		return nil, httpclient.NewError(http.StatusNotFound, []byte("Not Found"))
	}
	if matchedResponse.Err != nil {
		return nil, matchedResponse.Err
	}
	if matchedResponse.StatusCode >= http.StatusBadRequest {
		return nil, httpclient.NewError(matchedResponse.StatusCode, matchedResponse.Body)
	}

	return &httpclient.Response{
		StatusCode: matchedResponse.StatusCode,
		Body:       matchedResponse.Body,
		Headers:    matchedResponse.Headers,
	}, nil
}

// CallCount returns how many requests matched the route registered under suffix
func (m *MockHTTPClient) CallCount(suffix string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[suffix]
}

// TotalCalls returns how many requests were sent, matched or not
func (m *MockHTTPClient) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Clear removes all registered responses and recorded calls
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.calls = make(map[string]int)
	m.total = 0
}
