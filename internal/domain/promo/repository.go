package promo

import (
	"context"
	"time"
)

// Repository defines the interface for promo code data access
type Repository interface {
	Create(ctx context.Context, code *PromoCode) error
	Get(ctx context.Context, id string) (*PromoCode, error)
	// GetByCode looks a code up case-insensitively regardless of its state
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	// GetByCodeForUpdate is GetByCode that also locks the row until the
	// surrounding transaction ends
	GetByCodeForUpdate(ctx context.Context, code string) (*PromoCode, error)
	// FindActiveByCode returns the code only when it is active, asOf falls in its
	// validity window and it still has redemptions left. Otherwise it returns nil, nil.
	FindActiveByCode(ctx context.Context, code string, asOf time.Time) (*PromoCode, error)
	// IncrementUsage consumes one redemption and stamps the code with at. It fails
	// with an invalid operation error when the code is already exhausted.
	IncrementUsage(ctx context.Context, id string, at time.Time) error
}

// UsageRepository defines the interface for promo usage records
type UsageRepository interface {
	Create(ctx context.Context, usage *Usage) error
	// CountUsage returns how many times userID has redeemed promoCodeID
	CountUsage(ctx context.Context, userID, promoCodeID string) (int, error)
}
