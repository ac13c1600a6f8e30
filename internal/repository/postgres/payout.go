package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type payoutRepository struct {
	db *sql.DB
}

func NewPayoutRepository(db *sql.DB) repository.PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) CreatePayout(ctx context.Context, p *domain.Payout) error {
	now := time.Now()
	query := `INSERT INTO payouts (owner_id, amount_cents, currency, status, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.OwnerID, p.AmountCents, p.Currency, p.Status,
		p.Reference, now, now).Scan(&p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *payoutRepository) SumPayouts(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error) {
	return r.sum(ctx, "payouts", ownerID, statuses)
}

func (r *payoutRepository) SumWithdrawals(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error) {
	return r.sum(ctx, "withdrawals", ownerID, statuses)
}

func (r *payoutRepository) sum(ctx context.Context, table string, ownerID int64, statuses []domain.PayoutStatus) (int64, error) {
	vals := make([]string, len(statuses))
	for i, s := range statuses {
		vals[i] = string(s)
	}
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM ` + table + ` WHERE owner_id = $1 AND status = ANY($2)`
	err := r.db.QueryRowContext(ctx, query, ownerID, pq.Array(vals)).Scan(&total)
	return total, err
}
