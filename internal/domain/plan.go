package domain

type PlanPricingMode string

const (
	PlanPricingPerDay PlanPricingMode = "per_day"
	PlanPricingFixed  PlanPricingMode = "fixed"
)

// InsurancePlan is a read-only projection owned by an administrative
// collaborator. Insurance is priced daily and never clamped.
type InsurancePlan struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DailyPriceCents int64  `json:"daily_price_cents"`
	Currency        string `json:"currency"`
	Active          bool   `json:"active"`
	IsDefault       bool   `json:"is_default"`
}

// ProtectionPlan is a read-only projection. A computed protection amount is
// always clamped into [MinFeeCents, MaxFeeCents].
type ProtectionPlan struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	PricingMode     PlanPricingMode `json:"pricing_mode"`
	DailyPriceCents int64           `json:"daily_price_cents"`
	FixedPriceCents int64           `json:"fixed_price_cents"`
	MinFeeCents     int64           `json:"min_fee_cents"`
	MaxFeeCents     int64           `json:"max_fee_cents"`
	Currency        string          `json:"currency"`
	Active          bool            `json:"active"`
	IsDefault       bool            `json:"is_default"`
}

// DriverProfile is the driver-directory projection used for add-on pricing.
// DailyRateCents of zero means unset; the configured default applies.
type DriverProfile struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	DailyRateCents int64   `json:"daily_rate_cents"`
	Rating         float64 `json:"rating"`
	Available      bool    `json:"available"`
	Verified       bool    `json:"verified"`
}
