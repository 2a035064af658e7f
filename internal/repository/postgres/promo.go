package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/stayquote/stayquote/internal/domain/promo"
	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stayquote/stayquote/internal/logger"
	"github.com/stayquote/stayquote/internal/postgres"
	"github.com/stayquote/stayquote/internal/types"
)

const promoCodeColumns = `id, code, discount_type, discount_value, currency, minimum_spend, maximum_discount,
		valid_from, valid_until, max_redemptions, max_per_user, used_count, status, created_at, updated_at`

// pgUniqueViolation is the postgres error code raised by unique constraints
const pgUniqueViolation = "23505"

type promoCodeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPromoCodeRepository(db *postgres.DB, logger *logger.Logger) promo.Repository {
	return &promoCodeRepository{db: db, logger: logger}
}

func (r *promoCodeRepository) Create(ctx context.Context, p *promo.PromoCode) error {
	p.Code = promo.NormalizeCode(p.Code)

	query := `
		INSERT INTO promo_codes (
			id, code, discount_type, discount_value, currency, minimum_spend, maximum_discount,
			valid_from, valid_until, max_redemptions, max_per_user, used_count, status, created_at, updated_at
		) VALUES (
			:id, :code, :discount_type, :discount_value, :currency, :minimum_spend, :maximum_discount,
			:valid_from, :valid_until, :max_redemptions, :max_per_user, :used_count, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating promo code", "promo_code_id", p.ID, "code", p.Code)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return ierr.WithError(err).
				WithHintf("Promo code %s already exists", p.Code).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create promo code").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *promoCodeRepository) Get(ctx context.Context, id string) (*promo.PromoCode, error) {
	query := `SELECT ` + promoCodeColumns + ` FROM promo_codes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	query := `SELECT ` + promoCodeColumns + ` FROM promo_codes WHERE code = $1`
	return r.getOne(ctx, query, promo.NormalizeCode(code))
}

func (r *promoCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*promo.PromoCode, error) {
	query := `SELECT ` + promoCodeColumns + ` FROM promo_codes WHERE code = $1 FOR UPDATE`
	return r.getOne(ctx, query, promo.NormalizeCode(code))
}

func (r *promoCodeRepository) FindActiveByCode(ctx context.Context, code string, asOf time.Time) (*promo.PromoCode, error) {
	query := `SELECT ` + promoCodeColumns + `
		FROM promo_codes
		WHERE code = $1
			AND status = $2
			AND valid_from <= $3
			AND valid_until >= $3
			AND used_count < max_redemptions`

	var p promo.PromoCode
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query,
		promo.NormalizeCode(code),
		types.StatusActive,
		types.StartOfDay(asOf),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up promo code").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *promoCodeRepository) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE promo_codes
		SET used_count = used_count + 1, updated_at = $2
		WHERE id = $1 AND used_count < max_redemptions`

	q := r.db.GetQuerier(ctx)
	result, err := q.ExecContext(ctx, query, id, at.UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to redeem promo code").
			Mark(ierr.ErrDatabase)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to redeem promo code").
			Mark(ierr.ErrDatabase)
	}
	if n > 0 {
		return nil
	}

	// nothing updated: either the code is gone or its redemptions ran out
	var code string
	err = q.GetContext(ctx, &code, `SELECT code FROM promo_codes WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return ierr.NewError("promo code not found").
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to redeem promo code").
			Mark(ierr.ErrDatabase)
	}
	return ierr.NewError("promo code exhausted").
		WithHintf("Promo code %s has no redemptions left", code).
		Mark(ierr.ErrInvalidOperation)
}

func (r *promoCodeRepository) getOne(ctx context.Context, query string, arg string) (*promo.PromoCode, error) {
	var p promo.PromoCode
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("promo code not found").
				WithHintf("Promo code %s was not found", strings.ToUpper(arg)).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get promo code").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

type promoUsageRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPromoUsageRepository(db *postgres.DB, logger *logger.Logger) promo.UsageRepository {
	return &promoUsageRepository{db: db, logger: logger}
}

func (r *promoUsageRepository) Create(ctx context.Context, u *promo.Usage) error {
	query := `
		INSERT INTO promo_usages (id, user_id, promo_code_id, reservation_id, created_at)
		VALUES (:id, :user_id, :promo_code_id, :reservation_id, :created_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, u); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return ierr.WithError(err).
				WithHint("This reservation already redeemed the promo code").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record promo usage").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *promoUsageRepository) CountUsage(ctx context.Context, userID, promoCodeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM promo_usages WHERE user_id = $1 AND promo_code_id = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, userID, promoCodeID); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count promo usage").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
