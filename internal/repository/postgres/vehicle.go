package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var inclusions []byte
	query := `SELECT id, owner_id, category_id, make, model, plate, daily_rate_cents,
			mileage_charging_enabled, inclusions, included_km_per_day, price_per_excess_km_cents,
			status, created_at, deleted_at
		FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.CategoryID, &v.Make, &v.Model, &v.Plate, &v.DailyRateCents,
		&v.MileageChargingEnabled, &inclusions, &v.IncludedKmPerDay, &v.PricePerExcessKmCents,
		&v.Status, &v.CreatedAt, &v.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: vehicle %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if len(inclusions) > 0 {
		if err := json.Unmarshal(inclusions, &v.Inclusions); err != nil {
			return nil, fmt.Errorf("decode inclusions: %w", err)
		}
	}
	return v, nil
}

func (r *vehicleRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c := &domain.Category{}
	query := `SELECT id, name, daily_rate_cents, deposit_cents, city_id FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.DailyRateCents, &c.DepositCents, &c.CityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
