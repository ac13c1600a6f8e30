package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusOngoing        BookingStatus = "ongoing"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusNoShow         BookingStatus = "no_show"
)

// ValidBookingStatus reports whether s is a known lifecycle status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPendingPayment, BookingStatusConfirmed, BookingStatusOngoing,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusNoShow
}

type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartialRefund PaymentStatus = "partial_refund"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusNonRefundable PaymentStatus = "non_refundable"
)

// TripSnapshot captures the vehicle's state at check-in or check-out.
// FuelLevel is a tank fraction in [0.0, 1.0].
type TripSnapshot struct {
	OdometerKm int64     `json:"odometer_km"`
	FuelLevel  float64   `json:"fuel_level"`
	Notes      string    `json:"notes"`
	PhotoRefs  []string  `json:"photo_refs,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	RenterID  int64  `json:"renter_id"`
	VehicleID int64  `json:"vehicle_id"`
	// OwnerID is denormalized from the vehicle at creation time so settlement
	// queries never have to join through vehicles.
	OwnerID int64 `json:"owner_id"`

	// PickupAt is overwritten with the actual check-in time when the trip
	// starts; BookedDays preserves the originally booked duration for the
	// proration math that runs at check-out.
	PickupAt   time.Time `json:"pickup_at"`
	ReturnAt   time.Time `json:"return_at"`
	BookedDays int32     `json:"booked_days"`

	// Monetary breakdown in integer cents of a fixed currency. TotalAmountCents
	// is always the sum of the priced components at last computation.
	RentalAmountCents     int64  `json:"rental_amount_cents"`
	DepositAmountCents    int64  `json:"deposit_amount_cents"`
	DriverAmountCents     int64  `json:"driver_amount_cents"`
	InsuranceAmountCents  int64  `json:"insurance_amount_cents"`
	ProtectionAmountCents int64  `json:"protection_amount_cents"`
	PlatformFeeCents      int64  `json:"platform_fee_cents"`
	PromoDiscountCents    int64  `json:"promo_discount_cents"`
	TotalAmountCents      int64  `json:"total_amount_cents"`
	Currency              string `json:"currency"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	InsurancePlanID  *int64 `json:"insurance_plan_id,omitempty"`
	ProtectionPlanID *int64 `json:"protection_plan_id,omitempty"`
	DriverID         *int64 `json:"driver_id,omitempty"`
	PromoCode        string `json:"promo_code,omitempty"`

	PreTrip  *TripSnapshot `json:"pre_trip,omitempty"`
	PostTrip *TripSnapshot `json:"post_trip,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceBreakdown is the itemized result of pricing a prospective or existing
// booking. Callers render it before committing to a booking.
type PriceBreakdown struct {
	Days                  int32  `json:"days"`
	RentalAmountCents     int64  `json:"rental_amount_cents"`
	DepositAmountCents    int64  `json:"deposit_amount_cents"`
	DriverAmountCents     int64  `json:"driver_amount_cents"`
	InsuranceAmountCents  int64  `json:"insurance_amount_cents"`
	ProtectionAmountCents int64  `json:"protection_amount_cents"`
	PlatformFeeCents      int64  `json:"platform_fee_cents"`
	PromoDiscountCents    int64  `json:"promo_discount_cents"`
	TotalAmountCents      int64  `json:"total_amount_cents"`
	Currency              string `json:"currency"`

	InsurancePlanID  *int64 `json:"insurance_plan_id,omitempty"`
	ProtectionPlanID *int64 `json:"protection_plan_id,omitempty"`
	DriverID         *int64 `json:"driver_id,omitempty"`
	PromoCode        string `json:"promo_code,omitempty"`
}

// ConflictWindow describes the existing booking window that blocked an
// availability or extension request.
type ConflictWindow struct {
	BookingID int64     `json:"booking_id"`
	PickupAt  time.Time `json:"pickup_at"`
	ReturnAt  time.Time `json:"return_at"`
}
