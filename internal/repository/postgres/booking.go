package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, reference, renter_id, vehicle_id, owner_id, pickup_at, return_at, booked_days,
	rental_amount_cents, deposit_amount_cents, driver_amount_cents, insurance_amount_cents,
	protection_amount_cents, platform_fee_cents, promo_discount_cents, total_amount_cents, currency,
	status, payment_status, insurance_plan_id, protection_plan_id, driver_id, COALESCE(promo_code, ''),
	pre_trip, post_trip, created_at, updated_at`

// Bookings in these states never block availability.
const nonBlockingStatuses = `('cancelled', 'completed')`

const overlapCondition = `pickup_at < $2 AND return_at > $3 AND status NOT IN ` + nonBlockingStatuses

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var preTrip, postTrip []byte
	err := row.Scan(
		&b.ID, &b.Reference, &b.RenterID, &b.VehicleID, &b.OwnerID, &b.PickupAt, &b.ReturnAt, &b.BookedDays,
		&b.RentalAmountCents, &b.DepositAmountCents, &b.DriverAmountCents, &b.InsuranceAmountCents,
		&b.ProtectionAmountCents, &b.PlatformFeeCents, &b.PromoDiscountCents, &b.TotalAmountCents, &b.Currency,
		&b.Status, &b.PaymentStatus, &b.InsurancePlanID, &b.ProtectionPlanID, &b.DriverID, &b.PromoCode,
		&preTrip, &postTrip, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(preTrip) > 0 {
		if err := json.Unmarshal(preTrip, &b.PreTrip); err != nil {
			return nil, fmt.Errorf("decode pre_trip: %w", err)
		}
	}
	if len(postTrip) > 0 {
		if err := json.Unmarshal(postTrip, &b.PostTrip); err != nil {
			return nil, fmt.Errorf("decode post_trip: %w", err)
		}
	}
	return b, nil
}

func marshalSnapshot(s *domain.TripSnapshot) (interface{}, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (r *bookingRepository) CreateGuarded(ctx context.Context, b *domain.Booking, buffer time.Duration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize booking inserts per vehicle so the overlap re-check below is
	// atomic with respect to concurrent creations on the same vehicle.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, b.VehicleID); err != nil {
		return err
	}

	var conflicts int32
	check := `SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND ` + overlapCondition
	err = tx.QueryRowContext(ctx, check, b.VehicleID, b.ReturnAt.Add(buffer), b.PickupAt.Add(-buffer)).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return fmt.Errorf("%w: vehicle %d already booked in requested window", domain.ErrConflict, b.VehicleID)
	}

	preTrip, err := marshalSnapshot(b.PreTrip)
	if err != nil {
		return err
	}
	postTrip, err := marshalSnapshot(b.PostTrip)
	if err != nil {
		return err
	}

	now := time.Now()
	insert := `INSERT INTO bookings (reference, renter_id, vehicle_id, owner_id, pickup_at, return_at, booked_days,
			rental_amount_cents, deposit_amount_cents, driver_amount_cents, insurance_amount_cents,
			protection_amount_cents, platform_fee_cents, promo_discount_cents, total_amount_cents, currency,
			status, payment_status, insurance_plan_id, protection_plan_id, driver_id, promo_code,
			pre_trip, post_trip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING id`
	err = tx.QueryRowContext(ctx, insert,
		b.Reference, b.RenterID, b.VehicleID, b.OwnerID, b.PickupAt, b.ReturnAt, b.BookedDays,
		b.RentalAmountCents, b.DepositAmountCents, b.DriverAmountCents, b.InsuranceAmountCents,
		b.ProtectionAmountCents, b.PlatformFeeCents, b.PromoDiscountCents, b.TotalAmountCents, b.Currency,
		b.Status, b.PaymentStatus, b.InsurancePlanID, b.ProtectionPlanID, b.DriverID, b.PromoCode,
		preTrip, postTrip, now, now,
	).Scan(&b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return b, err
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	preTrip, err := marshalSnapshot(b.PreTrip)
	if err != nil {
		return err
	}
	postTrip, err := marshalSnapshot(b.PostTrip)
	if err != nil {
		return err
	}
	query := `UPDATE bookings SET pickup_at=$1, return_at=$2, booked_days=$3,
			rental_amount_cents=$4, deposit_amount_cents=$5, driver_amount_cents=$6, insurance_amount_cents=$7,
			protection_amount_cents=$8, platform_fee_cents=$9, promo_discount_cents=$10, total_amount_cents=$11,
			status=$12, payment_status=$13, pre_trip=$14, post_trip=$15, updated_at=$16
		WHERE id=$17`
	_, err = r.db.ExecContext(ctx, query,
		b.PickupAt, b.ReturnAt, b.BookedDays,
		b.RentalAmountCents, b.DepositAmountCents, b.DriverAmountCents, b.InsuranceAmountCents,
		b.ProtectionAmountCents, b.PlatformFeeCents, b.PromoDiscountCents, b.TotalAmountCents,
		b.Status, b.PaymentStatus, preTrip, postTrip, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, vehicleID int64, from, to time.Time, excludeID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE vehicle_id = $1 AND ` + overlapCondition + ` AND id != $4
		ORDER BY pickup_at`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, to, from, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	where := fmt.Sprintf(" FROM bookings WHERE %s = $1", column)
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*)"+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + bookingColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) SumOwnerEarnings(ctx context.Context, ownerID int64) (rental, driver, fee int64, count int32, err error) {
	query := `SELECT COALESCE(SUM(rental_amount_cents), 0), COALESCE(SUM(driver_amount_cents), 0),
			COALESCE(SUM(platform_fee_cents), 0), count(*)
		FROM bookings WHERE owner_id = $1 AND status = 'completed'`
	err = r.db.QueryRowContext(ctx, query, ownerID).Scan(&rental, &driver, &fee, &count)
	return rental, driver, fee, count, err
}
