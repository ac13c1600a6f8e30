package domain

import "time"

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// Payout is a scheduled transfer of earned funds to an owner. Withdrawals are
// owner-initiated instant debits; both reduce the available balance while
// pending, processing, or completed.
type Payout struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	AmountCents int64        `json:"amount_cents"`
	Currency    string       `json:"currency"`
	Status      PayoutStatus `json:"status"`
	Reference   string       `json:"reference"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Withdrawal struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	AmountCents int64        `json:"amount_cents"`
	Currency    string       `json:"currency"`
	Status      PayoutStatus `json:"status"`
	Reference   string       `json:"reference"`
	CreatedAt   time.Time    `json:"created_at"`
}

// OwnerEarnings is the settlement aggregate, recomputed from source rows on
// every request. Insurance, protection, and deposits are excluded from owner
// earnings.
type OwnerEarnings struct {
	OwnerID                 int64  `json:"owner_id"`
	CompletedBookings       int32  `json:"completed_bookings"`
	TotalEarningsCents      int64  `json:"total_earnings_cents"`
	PaidOutCents            int64  `json:"paid_out_cents"`
	PendingPayoutsCents     int64  `json:"pending_payouts_cents"`
	WithdrawnCents          int64  `json:"withdrawn_cents"`
	PendingWithdrawalsCents int64  `json:"pending_withdrawals_cents"`
	AvailableBalanceCents   int64  `json:"available_balance_cents"`
	Currency                string `json:"currency"`
}
