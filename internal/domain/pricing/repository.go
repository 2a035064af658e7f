package pricing

import "context"

// Repository defines the interface for pricing configuration data access
type Repository interface {
	// Get returns the configuration of a listing or a not found error
	Get(ctx context.Context, listingID string) (*Config, error)
	// Upsert creates or replaces the configuration of cfg.ListingID
	Upsert(ctx context.Context, cfg *Config) error
	// Delete removes the configuration of a listing
	Delete(ctx context.Context, listingID string) error
}
