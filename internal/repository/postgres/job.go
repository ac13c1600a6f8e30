package postgres

import (
	"context"
	"database/sql"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, j *domain.ScheduledJob) error {
	meta, err := marshalMeta(j.Metadata)
	if err != nil {
		return err
	}
	now := time.Now()
	query := `INSERT INTO scheduled_jobs (user_id, booking_id, template, scheduled_at, metadata, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, j.UserID, j.BookingID, j.Template, j.ScheduledAt,
		meta, j.Status, now).Scan(&j.ID)
	if err != nil {
		return err
	}
	j.CreatedAt = now
	return nil
}

func (r *jobRepository) CancelPending(ctx context.Context, bookingID int64, template string) error {
	query := `UPDATE scheduled_jobs SET status = 'cancelled' WHERE booking_id = $1 AND status = 'pending'`
	args := []interface{}{bookingID}
	if template != "" {
		query += ` AND template = $2`
		args = append(args, template)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *jobRepository) ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledJob, error) {
	query := `SELECT id, user_id, booking_id, template, scheduled_at, metadata, status, created_at
		FROM scheduled_jobs WHERE status = 'pending' AND scheduled_at <= $1 ORDER BY scheduled_at LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.ScheduledJob
	for rows.Next() {
		var j domain.ScheduledJob
		var meta []byte
		if err := rows.Scan(&j.ID, &j.UserID, &j.BookingID, &j.Template, &j.ScheduledAt,
			&meta, &j.Status, &j.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalMeta(meta, &j.Metadata); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *jobRepository) MarkStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scheduled_jobs SET status=$1 WHERE id=$2`, status, id)
	return err
}
