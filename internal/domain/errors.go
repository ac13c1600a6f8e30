package domain

import "errors"

// Sentinel errors for the engine's failure taxonomy. Callers classify with
// errors.Is; details travel in the wrapping message.
var (
	// ErrValidation covers malformed input rejected before any mutation:
	// bad intervals, non-positive odometer, out-of-range fuel, unknown status values.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unknown booking/vehicle/plan/driver references.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers vehicle unavailability, double-booking, and operations
	// attempted on a booking in a terminal or incompatible state.
	ErrConflict = errors.New("conflict")

	// ErrPolicy covers operations that cannot proceed as configured: no available
	// driver, invalid promo code, missing mandatory plan.
	ErrPolicy = errors.New("policy violation")

	// ErrUnauthorized covers transitions attempted by a caller without the
	// owning relationship to the booking.
	ErrUnauthorized = errors.New("unauthorized")
)
