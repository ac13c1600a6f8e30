package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

const insuranceColumns = `id, name, daily_price_cents, currency, active, is_default`

func (r *planRepository) scanInsurance(row *sql.Row) (*domain.InsurancePlan, error) {
	p := &domain.InsurancePlan{}
	err := row.Scan(&p.ID, &p.Name, &p.DailyPriceCents, &p.Currency, &p.Active, &p.IsDefault)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *planRepository) GetInsurancePlan(ctx context.Context, id int64) (*domain.InsurancePlan, error) {
	query := `SELECT ` + insuranceColumns + ` FROM insurance_plans WHERE id = $1`
	p, err := r.scanInsurance(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: insurance plan %d", domain.ErrNotFound, id)
	}
	return p, err
}

func (r *planRepository) GetDefaultInsurancePlan(ctx context.Context) (*domain.InsurancePlan, error) {
	query := `SELECT ` + insuranceColumns + ` FROM insurance_plans WHERE active AND is_default ORDER BY id LIMIT 1`
	p, err := r.scanInsurance(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

const protectionColumns = `id, name, pricing_mode, daily_price_cents, fixed_price_cents,
	min_fee_cents, max_fee_cents, currency, active, is_default`

func (r *planRepository) scanProtection(row *sql.Row) (*domain.ProtectionPlan, error) {
	p := &domain.ProtectionPlan{}
	err := row.Scan(&p.ID, &p.Name, &p.PricingMode, &p.DailyPriceCents, &p.FixedPriceCents,
		&p.MinFeeCents, &p.MaxFeeCents, &p.Currency, &p.Active, &p.IsDefault)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *planRepository) GetProtectionPlan(ctx context.Context, id int64) (*domain.ProtectionPlan, error) {
	query := `SELECT ` + protectionColumns + ` FROM protection_plans WHERE id = $1`
	p, err := r.scanProtection(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: protection plan %d", domain.ErrNotFound, id)
	}
	return p, err
}

func (r *planRepository) GetDefaultProtectionPlan(ctx context.Context) (*domain.ProtectionPlan, error) {
	query := `SELECT ` + protectionColumns + ` FROM protection_plans WHERE active AND is_default ORDER BY id LIMIT 1`
	p, err := r.scanProtection(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}
