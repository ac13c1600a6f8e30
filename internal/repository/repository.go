package repository

import (
	"context"
	"time"

	"vehiclerental-backend/internal/domain"
)

type BookingRepository interface {
	// CreateGuarded inserts the booking after re-validating, inside a
	// transaction holding a per-vehicle lock, that no overlapping booking
	// exists within the buffered window. Returns domain.ErrConflict when the
	// re-check finds an overlap.
	CreateGuarded(ctx context.Context, b *domain.Booking, buffer time.Duration) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	// FindOverlapping returns non-cancelled, non-completed bookings on the
	// vehicle whose window intersects [from, to). excludeID skips one booking
	// (used by extension requests); zero means exclude nothing.
	FindOverlapping(ctx context.Context, vehicleID int64, from, to time.Time, excludeID int64) ([]domain.Booking, error)
	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// SumOwnerEarnings aggregates rental, driver, and platform-fee cents over
	// the owner's completed bookings.
	SumOwnerEarnings(ctx context.Context, ownerID int64) (rental, driver, fee int64, count int32, err error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
}

type PlanRepository interface {
	GetInsurancePlan(ctx context.Context, id int64) (*domain.InsurancePlan, error)
	// GetDefaultInsurancePlan returns (nil, nil) when no active default exists.
	GetDefaultInsurancePlan(ctx context.Context) (*domain.InsurancePlan, error)
	GetProtectionPlan(ctx context.Context, id int64) (*domain.ProtectionPlan, error)
	GetDefaultProtectionPlan(ctx context.Context) (*domain.ProtectionPlan, error)
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DriverProfile, error)
	// FindBestAvailable returns the highest-rated available verified driver,
	// or domain.ErrNotFound when none qualifies.
	FindBestAvailable(ctx context.Context) (*domain.DriverProfile, error)
}

type PolicyRepository interface {
	ListActive(ctx context.Context) ([]domain.RefundPolicy, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	GetByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentTransaction, error)
}

type DepositRefundRepository interface {
	Create(ctx context.Context, r *domain.DepositRefund) error
	// GetByBookingID returns domain.ErrNotFound when no refund exists yet.
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.DepositRefund, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DepositRefundStatus) error
}

type ChargeRepository interface {
	Create(ctx context.Context, c *domain.BookingCharge) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingCharge, error)
}

type PayoutRepository interface {
	CreatePayout(ctx context.Context, p *domain.Payout) error
	// SumPayouts and SumWithdrawals total amounts for the owner across the
	// given statuses.
	SumPayouts(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error)
	SumWithdrawals(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error)
}

type JobRepository interface {
	Create(ctx context.Context, j *domain.ScheduledJob) error
	// CancelPending cancels still-pending jobs for the booking; template empty
	// cancels all templates.
	CancelPending(ctx context.Context, bookingID int64, template string) error
	ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledJob, error)
	MarkStatus(ctx context.Context, id int64, status domain.JobStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SettingRepository interface {
	// Get returns the raw value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
}

type PromoRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	CountUsage(ctx context.Context, promoID int64) (int32, error)
	CountUserUsage(ctx context.Context, promoID, userID int64) (int32, error)
	RecordUsage(ctx context.Context, u *domain.PromoUsage) error
}
