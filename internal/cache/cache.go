package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a process-local key/value store for read-mostly records
type Cache interface {
	// Get returns the value stored under key and whether it was present
	Get(ctx context.Context, key string) (any, bool)

	// Set stores value under key. A zero expiration falls back to the cache default.
	Set(ctx context.Context, key string, value any, expiration time.Duration)

	Delete(ctx context.Context, key string)

	Flush(ctx context.Context)
}

const PrefixPricingConfig = "pricing_config:v1"

// GenerateKey joins prefix and params with colons
func GenerateKey(prefix string, params ...any) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}

// PricingConfigKey is the key a listing's pricing configuration is cached under
func PricingConfigKey(listingID string) string {
	return GenerateKey(PrefixPricingConfig, listingID)
}

// GetAs returns the value under key when it is present and of type T. A nil
// cache always misses.
func GetAs[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
