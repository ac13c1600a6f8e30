package domain

import "time"

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// PaymentTransaction is an append-only audit record of a charge or refund
// decided by the engine. Only its status ever changes after creation.
type PaymentTransaction struct {
	ID          int64             `json:"id"`
	BookingID   int64             `json:"booking_id"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Method      string            `json:"method"`
	Reference   string            `json:"reference"`
	// Metadata records the reason and its inputs (booked days, actual days,
	// rates) for audit purposes.
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type DepositRefundStatus string

const (
	DepositRefundStatusPending    DepositRefundStatus = "pending"
	DepositRefundStatusProcessing DepositRefundStatus = "processing"
	DepositRefundStatusCompleted  DepositRefundStatus = "completed"
	DepositRefundStatusFailed     DepositRefundStatus = "failed"
)

// DepositRefund tracks return of a booking's security deposit. At most one
// exists per booking.
type DepositRefund struct {
	ID          int64               `json:"id"`
	BookingID   int64               `json:"booking_id"`
	AmountCents int64               `json:"amount_cents"`
	Currency    string              `json:"currency"`
	DueAt       time.Time           `json:"due_at"`
	Status      DepositRefundStatus `json:"status"`
	Notes       string              `json:"notes"`
	Reference   string              `json:"reference"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ChargeKind string

const (
	ChargeKindMileageOverage ChargeKind = "mileage_overage"
)

// BookingCharge records an automatic post-trip charge, created pre-approved.
type BookingCharge struct {
	ID          int64             `json:"id"`
	BookingID   int64             `json:"booking_id"`
	Kind        ChargeKind        `json:"kind"`
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Approved    bool              `json:"approved"`
	Details     map[string]string `json:"details,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
