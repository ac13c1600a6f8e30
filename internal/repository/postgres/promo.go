package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type promoRepository struct {
	db *sql.DB
}

func NewPromoRepository(db *sql.DB) repository.PromoRepository {
	return &promoRepository{db: db}
}

func (r *promoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	query := `SELECT id, code, type, discount_percent, discount_amount_cents, max_discount_cents,
		vehicle_id, category_id, min_days, usage_limit, per_user_limit,
		valid_from, valid_until, active, created_at
		FROM promo_codes WHERE code = $1`

	var p domain.PromoCode
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&p.ID, &p.Code, &p.Type, &p.DiscountPercent, &p.DiscountAmountCents, &p.MaxDiscountCents,
		&p.VehicleID, &p.CategoryID, &p.MinDays, &p.UsageLimit, &p.PerUserLimit,
		&p.ValidFrom, &p.ValidUntil, &p.Active, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: promo code %q", domain.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promoRepository) CountUsage(ctx context.Context, promoID int64) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM promo_usages WHERE promo_id = $1`, promoID).Scan(&count)
	return count, err
}

func (r *promoRepository) CountUserUsage(ctx context.Context, promoID, userID int64) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM promo_usages WHERE promo_id = $1 AND user_id = $2`, promoID, userID).Scan(&count)
	return count, err
}

func (r *promoRepository) RecordUsage(ctx context.Context, u *domain.PromoUsage) error {
	query := `INSERT INTO promo_usages (promo_id, user_id, booking_id, amount_cents, discount_cents, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		u.PromoID, u.UserID, u.BookingID, u.AmountCents, u.DiscountCents, u.Role,
	).Scan(&u.ID)
}
