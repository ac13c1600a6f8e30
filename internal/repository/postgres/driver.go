package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type driverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) repository.DriverRepository {
	return &driverRepository{db: db}
}

const driverColumns = `id, user_id, name, daily_rate_cents, rating, available, verified`

func scanDriver(row *sql.Row) (*domain.DriverProfile, error) {
	d := &domain.DriverProfile{}
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.DailyRateCents, &d.Rating, &d.Available, &d.Verified)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *driverRepository) GetByID(ctx context.Context, id int64) (*domain.DriverProfile, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	d, err := scanDriver(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: driver %d", domain.ErrNotFound, id)
	}
	return d, err
}

func (r *driverRepository) FindBestAvailable(ctx context.Context) (*domain.DriverProfile, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers
		WHERE available AND verified ORDER BY rating DESC, id LIMIT 1`
	d, err := scanDriver(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no available verified driver", domain.ErrNotFound)
	}
	return d, err
}
