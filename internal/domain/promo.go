package domain

import "time"

// PromoCode is an operator-issued discount code. Scoping fields are optional;
// a nil VehicleID/CategoryID means the code applies marketplace-wide.
type PromoCode struct {
	ID                  int64      `json:"id"`
	Code                string     `json:"code"`
	Type                string     `json:"type"`
	DiscountPercent     int32      `json:"discount_percent"`
	DiscountAmountCents int64      `json:"discount_amount_cents"`
	MaxDiscountCents    int64      `json:"max_discount_cents"`
	VehicleID           *int64     `json:"vehicle_id,omitempty"`
	CategoryID          *int64     `json:"category_id,omitempty"`
	MinDays             int32      `json:"min_days"`
	UsageLimit          int32      `json:"usage_limit"`
	PerUserLimit        int32      `json:"per_user_limit"`
	ValidFrom           time.Time  `json:"valid_from"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	Active              bool       `json:"active"`
	CreatedAt           time.Time  `json:"created_at"`
}

// PromoUsage records one redemption of a code against a booking.
type PromoUsage struct {
	ID            int64     `json:"id"`
	PromoID       int64     `json:"promo_id"`
	UserID        int64     `json:"user_id"`
	BookingID     int64     `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	DiscountCents int64     `json:"discount_cents"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}
