package service

import (
	"context"
	"fmt"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type availabilityService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	// buffer is the mandatory turnaround padding applied on both sides of the
	// requested window so back-to-back bookings leave handover time.
	buffer time.Duration
}

func NewAvailabilityService(bookingRepo repository.BookingRepository, vehicleRepo repository.VehicleRepository, buffer time.Duration) AvailabilityService {
	return &availabilityService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		buffer:      buffer,
	}
}

func (s *availabilityService) Check(ctx context.Context, vehicleID int64, pickupAt, returnAt time.Time, excludeBookingID int64) (bool, *domain.ConflictWindow, error) {
	if !pickupAt.Before(returnAt) {
		return false, nil, fmt.Errorf("%w: pickup must precede return", domain.ErrValidation)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return false, nil, err
	}
	// A retired or soft-deleted vehicle is rejected without querying overlaps.
	if !vehicle.Bookable() {
		return false, nil, fmt.Errorf("%w: vehicle %d is not active", domain.ErrConflict, vehicleID)
	}

	overlaps, err := s.bookingRepo.FindOverlapping(ctx, vehicleID,
		pickupAt.Add(-s.buffer), returnAt.Add(s.buffer), excludeBookingID)
	if err != nil {
		return false, nil, err
	}
	if len(overlaps) > 0 {
		first := overlaps[0]
		return false, &domain.ConflictWindow{
			BookingID: first.ID,
			PickupAt:  first.PickupAt,
			ReturnAt:  first.ReturnAt,
		}, nil
	}
	return true, nil, nil
}
