package memory

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/stayquote/stayquote/internal/domain/promo"
	ierr "github.com/stayquote/stayquote/internal/errors"
)

// PromoCodeStore implements promo.Repository
type PromoCodeStore struct {
	*Store[*promo.PromoCode]
}

// NewPromoCodeStore creates a new in-memory promo code store
func NewPromoCodeStore() *PromoCodeStore {
	return &PromoCodeStore{
		Store: NewStore[*promo.PromoCode](),
	}
}

func copyPromoCode(p *promo.PromoCode) *promo.PromoCode {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *PromoCodeStore) Create(ctx context.Context, p *promo.PromoCode) error {
	if p == nil {
		return ierr.NewError("promo code cannot be nil").
			WithHint("Promo code cannot be nil").
			Mark(ierr.ErrValidation)
	}

	code := promo.NormalizeCode(p.Code)
	if s.Store.Count(ctx, func(item *promo.PromoCode) bool { return item.Code == code }) > 0 {
		return ierr.NewError("promo code already exists").
			WithHintf("Promo code %s already exists", code).
			Mark(ierr.ErrAlreadyExists)
	}

	copied := copyPromoCode(p)
	copied.Code = code
	return s.Store.Create(ctx, p.ID, copied)
}

func (s *PromoCodeStore) Get(ctx context.Context, id string) (*promo.PromoCode, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}
	return copyPromoCode(p), nil
}

func (s *PromoCodeStore) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	code = promo.NormalizeCode(code)
	matches := s.Store.List(ctx, func(item *promo.PromoCode) bool {
		return item.Code == code
	}, nil)
	if len(matches) == 0 {
		return nil, ierr.NewError("promo code not found").
			WithHintf("Promo code %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	return copyPromoCode(matches[0]), nil
}

// GetByCodeForUpdate has no row lock to take; callers serialize through postgres.LocalClient
func (s *PromoCodeStore) GetByCodeForUpdate(ctx context.Context, code string) (*promo.PromoCode, error) {
	return s.GetByCode(ctx, code)
}

func (s *PromoCodeStore) FindActiveByCode(ctx context.Context, code string, asOf time.Time) (*promo.PromoCode, error) {
	code = promo.NormalizeCode(code)
	match, ok := lo.Find(s.Store.List(ctx, nil, nil), func(item *promo.PromoCode) bool {
		return item.Code == code && item.IsRedeemable(asOf)
	})
	if !ok {
		return nil, nil
	}
	return copyPromoCode(match), nil
}

func (s *PromoCodeStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	err := s.Store.Mutate(ctx, id, func(item *promo.PromoCode) (*promo.PromoCode, error) {
		if item.IsExhausted() {
			return nil, ierr.NewError("promo code exhausted").
				WithHintf("Promo code %s has no redemptions left", item.Code).
				Mark(ierr.ErrInvalidOperation)
		}
		updated := copyPromoCode(item)
		updated.UsedCount++
		updated.UpdatedAt = at.UTC()
		return updated, nil
	})
	if ierr.IsNotFound(err) {
		return ierr.WithError(err).
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}
	return err
}

// PromoUsageStore implements promo.UsageRepository
type PromoUsageStore struct {
	*Store[*promo.Usage]
}

// NewPromoUsageStore creates a new in-memory promo usage store
func NewPromoUsageStore() *PromoUsageStore {
	return &PromoUsageStore{
		Store: NewStore[*promo.Usage](),
	}
}

func (s *PromoUsageStore) Create(ctx context.Context, u *promo.Usage) error {
	if u == nil {
		return ierr.NewError("promo usage cannot be nil").
			WithHint("Promo usage cannot be nil").
			Mark(ierr.ErrValidation)
	}
	duplicate := s.Store.Count(ctx, func(item *promo.Usage) bool {
		return item.PromoCodeID == u.PromoCodeID && item.ReservationID == u.ReservationID
	})
	if duplicate > 0 {
		return ierr.NewError("promo code already redeemed for reservation").
			WithHintf("Promo code was already redeemed for reservation %s", u.ReservationID).
			WithReportableDetails(map[string]any{
				"promo_code_id":  u.PromoCodeID,
				"reservation_id": u.ReservationID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	copied := *u
	return s.Store.Create(ctx, u.ID, &copied)
}

func (s *PromoUsageStore) CountUsage(ctx context.Context, userID, promoCodeID string) (int, error) {
	return s.Store.Count(ctx, func(item *promo.Usage) bool {
		return item.UserID == userID && item.PromoCodeID == promoCodeID
	}), nil
}
