package service

import (
	"context"

	"github.com/stayquote/stayquote/internal/api/dto"
	"github.com/stayquote/stayquote/internal/domain/promo"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/types"
)

// PromoService manages promo codes and their redemption
type PromoService interface {
	CreatePromoCode(ctx context.Context, req dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error)
	GetPromoCode(ctx context.Context, code string) (*dto.PromoCodeResponse, error)
	// Preview evaluates a promo code against an amount without consuming it
	Preview(ctx context.Context, req dto.PreviewPromoRequest) (*dto.PreviewPromoResponse, error)
	// Redeem consumes one redemption for a reservation. The usage count and the
	// usage record are written in one transaction.
	Redeem(ctx context.Context, req dto.RedeemPromoRequest) (*dto.PromoUsageResponse, error)
}

type promoService struct {
	ServiceParams
	discounts DiscountCalculator
}

func NewPromoService(params ServiceParams, discounts DiscountCalculator) PromoService {
	return &promoService{
		ServiceParams: params,
		discounts:     discounts,
	}
}

func (s *promoService) CreatePromoCode(ctx context.Context, req dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	p, err := req.ToPromoCode(now)
	if err != nil {
		return nil, err
	}

	if err := s.PromoCodeRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created promo code",
		"promo_code", p.Code,
		"promo_code_id", p.ID,
		"discount_type", p.DiscountType,
	)

	return dto.NewPromoCodeResponse(p, now), nil
}

func (s *promoService) GetPromoCode(ctx context.Context, code string) (*dto.PromoCodeResponse, error) {
	code = promo.NormalizeCode(code)
	if code == "" {
		return nil, ierr.NewError("promo code is required").
			WithHint("Please provide a promo code").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PromoCodeRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return dto.NewPromoCodeResponse(p, s.Clock.Now()), nil
}

func (s *promoService) Preview(ctx context.Context, req dto.PreviewPromoRequest) (*dto.PreviewPromoResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := types.NormalizeCurrency(req.Currency)
	result, err := s.discounts.PromoDiscount(ctx, PromoDiscountInput{
		Code:          req.Code,
		UserID:        req.UserID,
		RemainingBase: req.Amount,
		Currency:      currency,
		AsOf:          s.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.PreviewPromoResponse{
		Code:           promo.NormalizeCode(req.Code),
		Valid:          result.Applied != nil && result.Reason == "",
		DiscountAmount: types.RoundAmount(result.Amount, currency),
		Currency:       currency,
		Reason:         result.Message,
		PromoApplied:   result.Applied,
	}, nil
}

func (s *promoService) Redeem(ctx context.Context, req dto.RedeemPromoRequest) (*dto.PromoUsageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		usage *promo.Usage
		code  string
	)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.PromoCodeRepo.GetByCodeForUpdate(ctx, req.Code)
		if err != nil {
			return err
		}
		code = p.Code

		now := s.Clock.Now()
		if p.Status != types.StatusActive || p.IsExpired(now) {
			return ierr.NewError("promo code is not redeemable").
				WithHintf("Promo code %s is inactive or outside its validity window", p.Code).
				WithReportableDetails(map[string]any{
					"code":        p.Code,
					"valid_from":  types.FormatDate(p.ValidFrom),
					"valid_until": types.FormatDate(p.ValidUntil),
				}).
				Mark(ierr.ErrInvalidOperation)
		}
		if p.IsExhausted() {
			return ierr.NewError("promo code exhausted").
				WithHintf("Promo code %s has no redemptions left", p.Code).
				WithReportableDetails(map[string]any{
					"code":            p.Code,
					"max_redemptions": p.MaxRedemptions,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		used, err := s.PromoUsageRepo.CountUsage(ctx, req.UserID, p.ID)
		if err != nil {
			return err
		}
		if used >= p.MaxPerUser {
			return ierr.NewError("promo code per-user limit reached").
				WithHintf("Promo code %s can be used at most %d times per user", p.Code, p.MaxPerUser).
				WithReportableDetails(map[string]any{
					"code":         p.Code,
					"max_per_user": p.MaxPerUser,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		// every check has passed, writes come last
		usage = &promo.Usage{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_USAGE),
			UserID:        req.UserID,
			PromoCodeID:   p.ID,
			ReservationID: req.ReservationID,
			CreatedAt:     now,
		}
		if err := s.PromoUsageRepo.Create(ctx, usage); err != nil {
			return err
		}
		return s.PromoCodeRepo.IncrementUsage(ctx, p.ID, now)
	})
	if err != nil {
		s.Logger.Warnw("promo code redemption failed",
			"promo_code", promo.NormalizeCode(req.Code),
			"user_id", req.UserID,
			"reservation_id", req.ReservationID,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Infow("redeemed promo code",
		"promo_code", code,
		"user_id", req.UserID,
		"reservation_id", req.ReservationID,
	)

	return &dto.PromoUsageResponse{Usage: usage, Code: code}, nil
}
