package postgres

import (
	"context"
	"database/sql"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type policyRepository struct {
	db *sql.DB
}

func NewPolicyRepository(db *sql.DB) repository.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) ListActive(ctx context.Context) ([]domain.RefundPolicy, error) {
	query := `SELECT id, name, hours_before_pickup, category_id, refund_percent, refund_deposit, priority, active
		FROM refund_policies WHERE active ORDER BY priority, hours_before_pickup DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []domain.RefundPolicy
	for rows.Next() {
		var p domain.RefundPolicy
		if err := rows.Scan(&p.ID, &p.Name, &p.HoursBeforePickup, &p.CategoryID,
			&p.RefundPercent, &p.RefundDeposit, &p.Priority, &p.Active); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
