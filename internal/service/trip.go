package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/logger"
	"vehiclerental-backend/internal/money"
	"vehiclerental-backend/internal/repository"
)

// minTripDuration is the floor applied when computing the effective return
// time of a completed trip, so a same-hour return still bills one day.
const minTripDuration = time.Hour

type tripService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	txRepo      repository.TransactionRepository
	depositRepo repository.DepositRefundRepository
	chargeRepo  repository.ChargeRepository
	jobRepo     repository.JobRepository
	settings    SettingsService

	// adjustmentThreshold is the smallest absolute difference between the
	// booked total and the recomputed total that triggers a correcting
	// transaction. Differences at or below it are swallowed as rounding.
	adjustmentThreshold     int64
	platformFeeBpsDefault   int64
	includedKmPerDayDefault int64
	excessKmCentsDefault    int64
	depositDueDays          int
}

func NewTripService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	txRepo repository.TransactionRepository,
	depositRepo repository.DepositRefundRepository,
	chargeRepo repository.ChargeRepository,
	jobRepo repository.JobRepository,
	settings SettingsService,
	adjustmentThreshold int64,
	platformFeeBpsDefault int64,
	includedKmPerDayDefault int64,
	excessKmCentsDefault int64,
	depositDueDays int,
) TripService {
	return &tripService{
		bookingRepo:             bookingRepo,
		vehicleRepo:             vehicleRepo,
		txRepo:                  txRepo,
		depositRepo:             depositRepo,
		chargeRepo:              chargeRepo,
		jobRepo:                 jobRepo,
		settings:                settings,
		adjustmentThreshold:     adjustmentThreshold,
		platformFeeBpsDefault:   platformFeeBpsDefault,
		includedKmPerDayDefault: includedKmPerDayDefault,
		excessKmCentsDefault:    excessKmCentsDefault,
		depositDueDays:          depositDueDays,
	}
}

func validateReading(reading TripReading) error {
	if reading.OdometerKm <= 0 {
		return fmt.Errorf("%w: odometer reading must be positive", domain.ErrValidation)
	}
	if reading.FuelLevel < 0 || reading.FuelLevel > 1 {
		return fmt.Errorf("%w: fuel level must be between 0 and 1", domain.ErrValidation)
	}
	return nil
}

func (s *tripService) StartTrip(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reading TripReading) (*domain.Booking, error) {
	if err := validateReading(reading); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleAdmin && b.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the owner or an admin may check in", domain.ErrUnauthorized)
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking %d is %s, not confirmed", domain.ErrConflict, bookingID, b.Status)
	}
	if b.PreTrip != nil {
		return nil, fmt.Errorf("%w: trip already started for booking %d", domain.ErrConflict, bookingID)
	}

	now := time.Now()
	b.PreTrip = &domain.TripSnapshot{
		OdometerKm: reading.OdometerKm,
		FuelLevel:  reading.FuelLevel,
		Notes:      reading.Notes,
		PhotoRefs:  reading.PhotoRefs,
		RecordedAt: now,
	}
	// The planned pickup is replaced by the actual handover time; the original
	// duration survives in BookedDays.
	b.PickupAt = now
	b.Status = domain.BookingStatusOngoing

	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *tripService) CompleteTrip(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reading TripReading) (*domain.Booking, error) {
	if err := validateReading(reading); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleAdmin && b.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the owner or an admin may check out", domain.ErrUnauthorized)
	}
	if b.Status != domain.BookingStatusOngoing {
		return nil, fmt.Errorf("%w: booking %d is %s, not ongoing", domain.ErrConflict, bookingID, b.Status)
	}
	if b.PostTrip != nil {
		return nil, fmt.Errorf("%w: trip already completed for booking %d", domain.ErrConflict, bookingID)
	}
	if b.PreTrip == nil {
		return nil, fmt.Errorf("%w: booking %d has no pickup inspection", domain.ErrConflict, bookingID)
	}
	if reading.OdometerKm < b.PreTrip.OdometerKm {
		return nil, fmt.Errorf("%w: return odometer %d below pickup odometer %d",
			domain.ErrValidation, reading.OdometerKm, b.PreTrip.OdometerKm)
	}

	now := time.Now()
	returnAt := now
	if min := b.PickupAt.Add(minTripDuration); returnAt.Before(min) {
		returnAt = min
	}

	b.PostTrip = &domain.TripSnapshot{
		OdometerKm: reading.OdometerKm,
		FuelLevel:  reading.FuelLevel,
		Notes:      reading.Notes,
		PhotoRefs:  reading.PhotoRefs,
		RecordedAt: now,
	}

	if err := s.settleDuration(ctx, b, returnAt); err != nil {
		return nil, err
	}

	depositLeft, deductionNote, err := s.settleMileage(ctx, b, b.DepositAmountCents)
	if err != nil {
		return nil, err
	}
	b.DepositAmountCents = depositLeft

	b.ReturnAt = returnAt
	b.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if depositLeft > 0 {
		if _, err := ensureDepositRefund(ctx, s.depositRepo, b.ID, depositLeft, b.Currency,
			deductionNote, s.depositDueDays); err != nil {
			logger.Error("failed to create deposit refund", "booking_id", b.ID, "error", err)
		}
	}

	if err := s.jobRepo.CancelPending(ctx, b.ID, domain.JobTemplateReturnReminder); err != nil {
		logger.Warn("failed to cancel return reminder", "booking_id", b.ID, "error", err)
	}

	return b, nil
}

// settleDuration recomputes the duration-dependent charges for the actual
// rental length and books a correcting transaction when the difference
// exceeds the adjustment threshold. Insurance and deposit are never prorated.
func (s *tripService) settleDuration(ctx context.Context, b *domain.Booking, returnAt time.Time) error {
	actualDays := dayCount(b.PickupAt, returnAt)
	if actualDays == b.BookedDays {
		return nil
	}

	rental := money.Prorate(b.RentalAmountCents, b.BookedDays, actualDays)
	driver := money.Prorate(b.DriverAmountCents, b.BookedDays, actualDays)
	protection := money.Prorate(b.ProtectionAmountCents, b.BookedDays, actualDays)
	fee := money.Prorate(b.PlatformFeeCents, b.BookedDays, actualDays)

	newTotal := money.NonNegative(rental + driver + protection + fee +
		b.InsuranceAmountCents + b.DepositAmountCents - b.PromoDiscountCents)
	adjustment := b.TotalAmountCents - newTotal
	if money.Abs(adjustment) <= s.adjustmentThreshold {
		return nil
	}

	meta := map[string]string{
		"booked_days": strconv.FormatInt(int64(b.BookedDays), 10),
		"actual_days": strconv.FormatInt(int64(actualDays), 10),
	}

	if adjustment > 0 {
		// Returned early: part of the paid total comes back.
		meta["reason"] = "early_return_adjustment"
		tx := &domain.PaymentTransaction{
			BookingID:   b.ID,
			Type:        domain.TransactionTypeRefund,
			Status:      domain.TransactionStatusPending,
			AmountCents: adjustment,
			Currency:    b.Currency,
			Reference:   uuid.NewString(),
			Metadata:    meta,
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return err
		}
		b.PaymentStatus = domain.PaymentStatusPartialRefund
	} else {
		// Returned late: the extra days are owed.
		meta["reason"] = "late_return_adjustment"
		tx := &domain.PaymentTransaction{
			BookingID:   b.ID,
			Type:        domain.TransactionTypePayment,
			Status:      domain.TransactionStatusPending,
			AmountCents: money.Abs(adjustment),
			Currency:    b.Currency,
			Reference:   uuid.NewString(),
			Metadata:    meta,
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return err
		}
	}

	b.RentalAmountCents = rental
	b.DriverAmountCents = driver
	b.ProtectionAmountCents = protection
	b.PlatformFeeCents = fee
	b.TotalAmountCents = newTotal
	return nil
}

// settleMileage charges excess kilometres for vehicles with mileage charging
// enabled. The charge is taken from the deposit first; only a shortfall
// produces a payment transaction. Returns the deposit remaining after
// deduction and a note for the refund record.
func (s *tripService) settleMileage(ctx context.Context, b *domain.Booking, deposit int64) (int64, string, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return deposit, "", err
	}
	if !vehicle.MileageChargingEnabled {
		return deposit, "", nil
	}

	perDay, perKm := s.mileageTerms(ctx, vehicle)
	if perDay <= 0 || perKm <= 0 {
		return deposit, "", nil
	}

	actualDays := dayCount(b.PickupAt, b.PostTrip.RecordedAt)
	allowedKm := perDay * int64(actualDays)
	drivenKm := b.PostTrip.OdometerKm - b.PreTrip.OdometerKm
	excessKm := drivenKm - allowedKm
	if excessKm <= 0 {
		return deposit, "", nil
	}

	chargeAmount := excessKm * perKm
	charge := &domain.BookingCharge{
		BookingID:   b.ID,
		Kind:        domain.ChargeKindMileageOverage,
		AmountCents: chargeAmount,
		Currency:    b.Currency,
		Approved:    true,
		Details: map[string]string{
			"driven_km":         strconv.FormatInt(drivenKm, 10),
			"allowed_km":        strconv.FormatInt(allowedKm, 10),
			"excess_km":         strconv.FormatInt(excessKm, 10),
			"price_per_km":      strconv.FormatInt(perKm, 10),
			"actual_days":       strconv.FormatInt(int64(actualDays), 10),
			"deposit_available": strconv.FormatInt(deposit, 10),
		},
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return deposit, "", err
	}

	// The overage is owner revenue: it raises the rental amount, and the
	// platform takes its cut of it like of any other rental cent.
	feeBps := s.settings.GetInt64(ctx, SettingPlatformFeeBps, s.platformFeeBpsDefault)
	feeOnCharge := money.PercentBps(chargeAmount, feeBps)
	b.RentalAmountCents += chargeAmount
	b.PlatformFeeCents += feeOnCharge
	b.TotalAmountCents += chargeAmount + feeOnCharge

	deducted := chargeAmount
	if deducted > deposit {
		deducted = deposit
	}
	remaining := deposit - deducted
	shortfall := chargeAmount - deducted

	note := ""
	if deducted > 0 {
		note = fmt.Sprintf("mileage overage of %d deducted from deposit", deducted)
	}
	if shortfall > 0 {
		tx := &domain.PaymentTransaction{
			BookingID:   b.ID,
			Type:        domain.TransactionTypePayment,
			Status:      domain.TransactionStatusPending,
			AmountCents: shortfall,
			Currency:    b.Currency,
			Reference:   uuid.NewString(),
			Metadata: map[string]string{
				"reason":    "mileage_overage",
				"excess_km": strconv.FormatInt(excessKm, 10),
				"charge_id": strconv.FormatInt(charge.ID, 10),
			},
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return remaining, note, err
		}
	}

	return remaining, note, nil
}

// mileageTerms resolves the allowance and excess rate for a vehicle: the
// structured inclusions win, then the flat columns, then operator settings.
func (s *tripService) mileageTerms(ctx context.Context, vehicle *domain.Vehicle) (perDayKm, perKmCents int64) {
	if inc := vehicle.Inclusions; inc != nil {
		return inc.IncludedKmPerDay, inc.PricePerExcessKmCents
	}
	if vehicle.IncludedKmPerDay != nil && vehicle.PricePerExcessKmCents != nil {
		return *vehicle.IncludedKmPerDay, *vehicle.PricePerExcessKmCents
	}
	perDayKm = s.settings.GetInt64(ctx, SettingIncludedKmPerDay, s.includedKmPerDayDefault)
	perKmCents = s.settings.GetInt64(ctx, SettingPricePerExcessKm, s.excessKmCentsDefault)
	return perDayKm, perKmCents
}
