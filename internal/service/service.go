package service

import (
	"context"
	"time"

	"vehiclerental-backend/internal/domain"
)

// QuoteRequest carries everything needed to price (and optionally create) a
// booking. Insurance and protection resolve to the requested plan, else the
// active default plan when one exists.
type QuoteRequest struct {
	RenterID  int64     `json:"renter_id"`
	VehicleID int64     `json:"vehicle_id"`
	CityID    int64     `json:"city_id"`
	PickupAt  time.Time `json:"pickup_at"`
	ReturnAt  time.Time `json:"return_at"`

	WithDriver       bool   `json:"with_driver"`
	DriverID         *int64 `json:"driver_id,omitempty"`
	InsurancePlanID  *int64 `json:"insurance_plan_id,omitempty"`
	ProtectionPlanID *int64 `json:"protection_plan_id,omitempty"`
	PromoCode        string `json:"promo_code,omitempty"`
}

// TripReading is the odometer/fuel capture at check-in or check-out.
type TripReading struct {
	OdometerKm int64    `json:"odometer_km"`
	FuelLevel  float64  `json:"fuel_level"`
	Notes      string   `json:"notes"`
	PhotoRefs  []string `json:"photo_refs,omitempty"`
}

type PricingService interface {
	Quote(ctx context.Context, req QuoteRequest) (*domain.PriceBreakdown, error)
}

type AvailabilityService interface {
	// Check reports whether the vehicle is free for [pickupAt, returnAt) after
	// widening by the turnaround buffer. excludeBookingID skips one booking
	// (extension requests); zero skips nothing. On conflict the blocking
	// window is returned.
	Check(ctx context.Context, vehicleID int64, pickupAt, returnAt time.Time, excludeBookingID int64) (bool, *domain.ConflictWindow, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req QuoteRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*domain.Booking, error)
	ListRentals(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// ConfirmPayment moves a pending_payment booking to confirmed and schedules
	// pickup/return reminders. Replays with the same provider reference are
	// no-ops.
	ConfirmPayment(ctx context.Context, bookingID int64, method, providerRef string) (*domain.Booking, error)
	// MarkRefundCompleted finalizes a provider-initiated refund callback;
	// re-marking a completed refund is a no-op.
	MarkRefundCompleted(ctx context.Context, reference string) error
	CancelBooking(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reason string) (*domain.Booking, error)
	// OverrideStatus writes the status directly without computed side effects,
	// except that an override to completed creates a deposit refund when none
	// exists.
	OverrideStatus(ctx context.Context, role domain.UserRole, bookingID int64, newStatus domain.BookingStatus) (*domain.Booking, error)
	// RequestExtension re-checks availability for the extended window; on
	// conflict the blocking window is returned alongside the error.
	RequestExtension(ctx context.Context, renterID, bookingID int64, newReturnAt time.Time) (*domain.Booking, *domain.ConflictWindow, error)
}

type TripService interface {
	StartTrip(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reading TripReading) (*domain.Booking, error)
	CompleteTrip(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reading TripReading) (*domain.Booking, error)
}

type SettlementService interface {
	// GetOwnerEarnings recomputes the settlement aggregate from source rows on
	// every call; there is no cached running balance.
	GetOwnerEarnings(ctx context.Context, ownerID int64) (*domain.OwnerEarnings, error)
	RequestPayout(ctx context.Context, ownerID, amountCents int64) (*domain.Payout, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

// SettingsService reads operator-tunable values, degrading to the supplied
// default on any fetch or parse failure.
type SettingsService interface {
	GetInt64(ctx context.Context, key string, def int64) int64
}

// Settings keys resolved through SettingsService.
const (
	SettingPlatformFeeBps      = "platform_fee_bps"
	SettingDriverDailyRate     = "driver_daily_rate_cents"
	SettingIncludedKmPerDay    = "included_km_per_day"
	SettingPricePerExcessKm    = "price_per_excess_km_cents"
)

// PromoResult is the promo-code collaborator's validation verdict.
type PromoResult struct {
	IsValid             bool   `json:"is_valid"`
	DiscountAmountCents int64  `json:"discount_amount_cents"`
	FinalAmountCents    int64  `json:"final_amount_cents"`
	PromoType           string `json:"promo_type"`
	ErrorMessage        string `json:"error_message,omitempty"`
}

// PromoTypeOwnerVehicleDiscount reduces the rental amount itself (the owner
// earns less); every other promo type reduces the renter-facing total.
const PromoTypeOwnerVehicleDiscount = "owner_vehicle_discount"

// PromoService is the external promo-code collaborator.
type PromoService interface {
	Validate(ctx context.Context, code string, renterID, amountCents, vehicleID, categoryID, cityID int64, days int32) (*PromoResult, error)
	// Apply records promo usage after booking creation; its failure never
	// fails the booking.
	Apply(ctx context.Context, code string, renterID, bookingID, originalAmountCents int64, role string) error
}

// EmailService delivers rendered notification emails. The engine only decides
// that a notification should exist; dispatch happens in the job runner.
type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}
