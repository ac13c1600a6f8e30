package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

// MileageInclusions is the structured per-vehicle mileage package. When set it
// takes precedence over the flat IncludedKmPerDay / PricePerExcessKmCents columns.
type MileageInclusions struct {
	IncludedKmPerDay      int64 `json:"included_km_per_day"`
	PricePerExcessKmCents int64 `json:"price_per_excess_km_cents"`
}

type Vehicle struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	CategoryID int64  `json:"category_id"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Plate      string `json:"plate"`

	// DailyRateCents overrides the category default when set.
	DailyRateCents *int64 `json:"daily_rate_cents,omitempty"`

	MileageChargingEnabled bool               `json:"mileage_charging_enabled"`
	Inclusions             *MileageInclusions `json:"inclusions,omitempty"`
	IncludedKmPerDay       *int64             `json:"included_km_per_day,omitempty"`
	PricePerExcessKmCents  *int64             `json:"price_per_excess_km_cents,omitempty"`

	Status    VehicleStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
}

// Bookable reports whether the vehicle may accept new bookings at all.
func (v *Vehicle) Bookable() bool {
	return v.DeletedAt == nil && v.Status == VehicleStatusActive
}

// Category supplies the pricing defaults a vehicle falls back to.
type Category struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	DepositCents   int64  `json:"deposit_cents"`
	CityID         int64  `json:"city_id"`
}
