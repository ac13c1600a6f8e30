package domain

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusSent      JobStatus = "sent"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusFailed    JobStatus = "failed"
)

// Job templates the engine schedules. Rendering and delivery belong to the
// dispatcher, not the engine.
const (
	JobTemplatePickupReminder   = "pickup_reminder"
	JobTemplateReturnReminder   = "return_reminder"
	JobTemplateBookingCancelled = "booking_cancelled"
	JobTemplateRefundIssued     = "refund_issued"
	JobTemplateExtraCharge      = "extra_charge"
)

// ScheduledJob is a future notification written as a row; a cron sweep
// dispatches rows whose ScheduledAt has passed.
type ScheduledJob struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	BookingID   *int64            `json:"booking_id,omitempty"`
	Template    string            `json:"template"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Status      JobStatus         `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Notification is an in-app notification record.
type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Read       bool              `json:"read"`
	CreatedAt  time.Time         `json:"created_at"`
}
