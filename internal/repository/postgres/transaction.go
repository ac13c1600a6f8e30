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

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func marshalMeta(m map[string]string) (interface{}, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalMeta(raw []byte, dst *map[string]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	meta, err := marshalMeta(tx.Metadata)
	if err != nil {
		return err
	}
	now := time.Now()
	query := `INSERT INTO payment_transactions (booking_id, type, status, amount_cents, currency, method, reference, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, tx.BookingID, tx.Type, tx.Status, tx.AmountCents,
		tx.Currency, tx.Method, tx.Reference, meta, now, now).Scan(&tx.ID)
	if err != nil {
		return err
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now
	return nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	tx := &domain.PaymentTransaction{}
	var meta []byte
	query := `SELECT id, booking_id, type, status, amount_cents, currency, COALESCE(method, ''), reference, metadata, created_at, updated_at
		FROM payment_transactions WHERE reference = $1`
	err := r.db.QueryRowContext(ctx, query, reference).Scan(&tx.ID, &tx.BookingID, &tx.Type, &tx.Status,
		&tx.AmountCents, &tx.Currency, &tx.Method, &tx.Reference, &meta, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, reference)
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalMeta(meta, &tx.Metadata); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE payment_transactions SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *transactionRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentTransaction, error) {
	query := `SELECT id, booking_id, type, status, amount_cents, currency, COALESCE(method, ''), reference, metadata, created_at, updated_at
		FROM payment_transactions WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PaymentTransaction
	for rows.Next() {
		var tx domain.PaymentTransaction
		var meta []byte
		if err := rows.Scan(&tx.ID, &tx.BookingID, &tx.Type, &tx.Status, &tx.AmountCents,
			&tx.Currency, &tx.Method, &tx.Reference, &meta, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalMeta(meta, &tx.Metadata); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

type depositRefundRepository struct {
	db *sql.DB
}

func NewDepositRefundRepository(db *sql.DB) repository.DepositRefundRepository {
	return &depositRefundRepository{db: db}
}

func (r *depositRefundRepository) Create(ctx context.Context, d *domain.DepositRefund) error {
	now := time.Now()
	query := `INSERT INTO deposit_refunds (booking_id, amount_cents, currency, due_at, status, notes, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.BookingID, d.AmountCents, d.Currency, d.DueAt,
		d.Status, d.Notes, d.Reference, now).Scan(&d.ID)
	if err != nil {
		return err
	}
	d.CreatedAt = now
	return nil
}

func (r *depositRefundRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.DepositRefund, error) {
	d := &domain.DepositRefund{}
	query := `SELECT id, booking_id, amount_cents, currency, due_at, status, COALESCE(notes, ''), reference, created_at
		FROM deposit_refunds WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&d.ID, &d.BookingID, &d.AmountCents,
		&d.Currency, &d.DueAt, &d.Status, &d.Notes, &d.Reference, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: deposit refund for booking %d", domain.ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *depositRefundRepository) UpdateStatus(ctx context.Context, id int64, status domain.DepositRefundStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE deposit_refunds SET status=$1 WHERE id=$2`, status, id)
	return err
}

type chargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) repository.ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, c *domain.BookingCharge) error {
	details, err := marshalMeta(c.Details)
	if err != nil {
		return err
	}
	now := time.Now()
	query := `INSERT INTO booking_charges (booking_id, kind, amount_cents, currency, approved, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, c.BookingID, c.Kind, c.AmountCents, c.Currency,
		c.Approved, details, now).Scan(&c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = now
	return nil
}

func (r *chargeRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingCharge, error) {
	query := `SELECT id, booking_id, kind, amount_cents, currency, approved, details, created_at
		FROM booking_charges WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.BookingCharge
	for rows.Next() {
		var c domain.BookingCharge
		var details []byte
		if err := rows.Scan(&c.ID, &c.BookingID, &c.Kind, &c.AmountCents, &c.Currency,
			&c.Approved, &details, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalMeta(details, &c.Details); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}
