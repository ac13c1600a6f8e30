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

type bookingService struct {
	bookingRepo  repository.BookingRepository
	vehicleRepo  repository.VehicleRepository
	policyRepo   repository.PolicyRepository
	txRepo       repository.TransactionRepository
	depositRepo  repository.DepositRefundRepository
	jobRepo      repository.JobRepository
	noteRepo     repository.NotificationRepository
	availability AvailabilityService
	pricing      PricingService
	promoSvc     PromoService
	settings     SettingsService

	buffer                time.Duration
	reminderLead          time.Duration
	depositDueDays        int
	platformFeeBpsDefault int64
	currency              string
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	policyRepo repository.PolicyRepository,
	txRepo repository.TransactionRepository,
	depositRepo repository.DepositRefundRepository,
	jobRepo repository.JobRepository,
	noteRepo repository.NotificationRepository,
	availability AvailabilityService,
	pricing PricingService,
	promoSvc PromoService,
	settings SettingsService,
	buffer time.Duration,
	reminderLead time.Duration,
	depositDueDays int,
	platformFeeBpsDefault int64,
	currency string,
) BookingService {
	return &bookingService{
		bookingRepo:           bookingRepo,
		vehicleRepo:           vehicleRepo,
		policyRepo:            policyRepo,
		txRepo:                txRepo,
		depositRepo:           depositRepo,
		jobRepo:               jobRepo,
		noteRepo:              noteRepo,
		availability:          availability,
		pricing:               pricing,
		promoSvc:              promoSvc,
		settings:              settings,
		buffer:                buffer,
		reminderLead:          reminderLead,
		depositDueDays:        depositDueDays,
		platformFeeBpsDefault: platformFeeBpsDefault,
		currency:              currency,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req QuoteRequest) (*domain.Booking, error) {
	if !req.PickupAt.Before(req.ReturnAt) {
		return nil, fmt.Errorf("%w: pickup must precede return", domain.ErrValidation)
	}
	if req.PickupAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: pickup must be in the future", domain.ErrValidation)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	available, _, err := s.availability.Check(ctx, req.VehicleID, req.PickupAt, req.ReturnAt, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: vehicle %d unavailable for requested window", domain.ErrConflict, req.VehicleID)
	}

	bd, err := s.pricing.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:             uuid.NewString(),
		RenterID:              req.RenterID,
		VehicleID:             req.VehicleID,
		OwnerID:               vehicle.OwnerID,
		PickupAt:              req.PickupAt,
		ReturnAt:              req.ReturnAt,
		BookedDays:            bd.Days,
		RentalAmountCents:     bd.RentalAmountCents,
		DepositAmountCents:    bd.DepositAmountCents,
		DriverAmountCents:     bd.DriverAmountCents,
		InsuranceAmountCents:  bd.InsuranceAmountCents,
		ProtectionAmountCents: bd.ProtectionAmountCents,
		PlatformFeeCents:      bd.PlatformFeeCents,
		PromoDiscountCents:    bd.PromoDiscountCents,
		TotalAmountCents:      bd.TotalAmountCents,
		Currency:              bd.Currency,
		Status:                domain.BookingStatusPendingPayment,
		PaymentStatus:         domain.PaymentStatusUnpaid,
		InsurancePlanID:       bd.InsurancePlanID,
		ProtectionPlanID:      bd.ProtectionPlanID,
		DriverID:              bd.DriverID,
		PromoCode:             bd.PromoCode,
	}

	// The guarded insert re-validates the overlap under a per-vehicle lock so
	// two concurrent requests cannot both pass the check above.
	if err := s.bookingRepo.CreateGuarded(ctx, booking, s.buffer); err != nil {
		return nil, err
	}

	// Recording promo usage must not fail the committed booking.
	if booking.PromoCode != "" {
		if err := s.promoSvc.Apply(ctx, booking.PromoCode, booking.RenterID, booking.ID,
			booking.TotalAmountCents, string(domain.UserRoleRenter)); err != nil {
			logger.Warn("failed to record promo usage", "booking_id", booking.ID, "code", booking.PromoCode, "error", err)
		}
	}

	s.notify(ctx, booking.OwnerID, "New booking request",
		fmt.Sprintf("Vehicle %d was booked for %s", booking.VehicleID, booking.PickupAt.Format(time.RFC3339)),
		booking.ID, "booking_created")

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleAdmin && b.RenterID != userID && b.OwnerID != userID {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
	}
	return b, nil
}

func (s *bookingService) ListRentals(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID int64, method, providerRef string) (*domain.Booking, error) {
	// Webhook replays carry the same provider reference; a known reference
	// means the confirmation already ran.
	if providerRef != "" {
		if _, err := s.txRepo.GetByReference(ctx, providerRef); err == nil {
			return s.bookingRepo.GetByID(ctx, bookingID)
		}
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingStatusConfirmed && b.PaymentStatus == domain.PaymentStatusPaid {
		return b, nil
	}
	if b.Status != domain.BookingStatusPendingPayment {
		return nil, fmt.Errorf("%w: booking %d is %s, not pending payment", domain.ErrConflict, bookingID, b.Status)
	}

	tx := &domain.PaymentTransaction{
		BookingID:   b.ID,
		Type:        domain.TransactionTypePayment,
		Status:      domain.TransactionStatusCompleted,
		AmountCents: b.TotalAmountCents,
		Currency:    b.Currency,
		Method:      method,
		Reference:   providerRef,
		Metadata: map[string]string{
			"reason": "booking_payment",
		},
	}
	if tx.Reference == "" {
		tx.Reference = uuid.NewString()
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatusConfirmed
	b.PaymentStatus = domain.PaymentStatusPaid
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.scheduleReminder(ctx, b, domain.JobTemplatePickupReminder, b.PickupAt.Add(-s.reminderLead))
	s.scheduleReminder(ctx, b, domain.JobTemplateReturnReminder, b.ReturnAt.Add(-s.reminderLead))

	s.notify(ctx, b.RenterID, "Booking confirmed",
		fmt.Sprintf("Your booking %s is confirmed", b.Reference), b.ID, "booking_confirmed")
	s.notify(ctx, b.OwnerID, "Booking confirmed",
		fmt.Sprintf("Booking %s on your vehicle is confirmed", b.Reference), b.ID, "booking_confirmed")

	return b, nil
}

func (s *bookingService) MarkRefundCompleted(ctx context.Context, reference string) error {
	tx, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if tx.Type != domain.TransactionTypeRefund {
		return fmt.Errorf("%w: transaction %s is not a refund", domain.ErrValidation, reference)
	}
	// Replayed callbacks are a no-op, not a duplicate side effect.
	if tx.Status == domain.TransactionStatusCompleted {
		return nil
	}
	return s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionStatusCompleted)
}

func (s *bookingService) CancelBooking(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleAdmin && b.RenterID != actorID {
		return nil, fmt.Errorf("%w: only the renter or an admin may cancel", domain.ErrUnauthorized)
	}
	if b.Status.Terminal() {
		return nil, fmt.Errorf("%w: booking %d is already %s", domain.ErrConflict, bookingID, b.Status)
	}

	// Monetary logic only applies to paid bookings; anything else simply
	// becomes cancelled.
	if b.PaymentStatus == domain.PaymentStatusPaid {
		if err := s.resolveCancellationRefund(ctx, b, reason); err != nil {
			return nil, err
		}
	}

	b.Status = domain.BookingStatusCancelled
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err := s.jobRepo.CancelPending(ctx, b.ID, ""); err != nil {
		logger.Warn("failed to cancel pending reminders", "booking_id", b.ID, "error", err)
	}
	s.notify(ctx, b.OwnerID, "Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled: %s", b.Reference, reason), b.ID, "booking_cancelled")
	s.notify(ctx, b.RenterID, "Booking cancelled",
		fmt.Sprintf("Your booking %s was cancelled", b.Reference), b.ID, "booking_cancelled")

	return b, nil
}

func (s *bookingService) resolveCancellationRefund(ctx context.Context, b *domain.Booking, reason string) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return err
	}
	policies, err := s.policyRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	hoursUntilPickup := time.Until(b.PickupAt).Hours()
	policy := domain.SelectRefundPolicy(policies, hoursUntilPickup, vehicle.CategoryID)
	if policy == nil {
		b.PaymentStatus = domain.PaymentStatusNonRefundable
		return nil
	}

	refundAmount := money.PercentBps(b.RentalAmountCents, int64(policy.RefundPercent)*100)
	var depositRefund int64
	if policy.RefundDeposit {
		depositRefund = b.DepositAmountCents
	}

	combined := refundAmount + depositRefund
	if combined <= 0 {
		b.PaymentStatus = domain.PaymentStatusNonRefundable
		return nil
	}

	tx := &domain.PaymentTransaction{
		BookingID:   b.ID,
		Type:        domain.TransactionTypeRefund,
		Status:      domain.TransactionStatusPending,
		AmountCents: combined,
		Currency:    b.Currency,
		Reference:   uuid.NewString(),
		Metadata: map[string]string{
			"reason":              "cancellation",
			"policy_id":           strconv.FormatInt(policy.ID, 10),
			"refund_percent":      strconv.FormatInt(int64(policy.RefundPercent), 10),
			"hours_until_pickup":  strconv.FormatFloat(hoursUntilPickup, 'f', 2, 64),
			"deposit_refunded":    strconv.FormatBool(policy.RefundDeposit),
			"cancellation_reason": reason,
		},
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return err
	}

	if combined >= b.TotalAmountCents {
		b.PaymentStatus = domain.PaymentStatusRefunded
	} else {
		b.PaymentStatus = domain.PaymentStatusPartialRefund
	}
	return nil
}

func (s *bookingService) OverrideStatus(ctx context.Context, role domain.UserRole, bookingID int64, newStatus domain.BookingStatus) (*domain.Booking, error) {
	if role != domain.UserRoleAdmin {
		return nil, fmt.Errorf("%w: status override requires admin", domain.ErrUnauthorized)
	}
	if !domain.ValidBookingStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, newStatus)
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.Status = newStatus
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	// The only computed side effect of an override: completion guarantees a
	// deposit refund record exists.
	if newStatus == domain.BookingStatusCompleted {
		if _, err := ensureDepositRefund(ctx, s.depositRepo, b.ID, b.DepositAmountCents, b.Currency,
			"created on administrative completion", s.depositDueDays); err != nil {
			logger.Error("failed to create deposit refund on override", "booking_id", b.ID, "error", err)
		}
	}

	return b, nil
}

func (s *bookingService) RequestExtension(ctx context.Context, renterID, bookingID int64, newReturnAt time.Time) (*domain.Booking, *domain.ConflictWindow, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.RenterID != renterID {
		return nil, nil, fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
	}
	if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusOngoing {
		return nil, nil, fmt.Errorf("%w: booking %d is %s, cannot extend", domain.ErrConflict, bookingID, b.Status)
	}
	if !newReturnAt.After(b.ReturnAt) {
		return nil, nil, fmt.Errorf("%w: new return must be after current return", domain.ErrValidation)
	}

	available, window, err := s.availability.Check(ctx, b.VehicleID, b.ReturnAt, newReturnAt, b.ID)
	if err != nil {
		return nil, nil, err
	}
	if !available {
		return nil, window, fmt.Errorf("%w: vehicle booked during requested extension", domain.ErrConflict)
	}

	extraDays := dayCount(b.ReturnAt, newReturnAt)
	// Extensions are priced with the booked per-day rates, not live prices.
	extraRental := money.Prorate(b.RentalAmountCents, b.BookedDays, extraDays)
	extraDriver := money.Prorate(b.DriverAmountCents, b.BookedDays, extraDays)
	feeBps := s.settings.GetInt64(ctx, SettingPlatformFeeBps, s.platformFeeBpsDefault)
	extraFee := money.PercentBps(extraRental+extraDriver, feeBps)
	extraTotal := extraRental + extraDriver + extraFee

	b.RentalAmountCents += extraRental
	b.DriverAmountCents += extraDriver
	b.PlatformFeeCents += extraFee
	b.TotalAmountCents += extraTotal
	b.BookedDays += extraDays
	b.ReturnAt = newReturnAt

	tx := &domain.PaymentTransaction{
		BookingID:   b.ID,
		Type:        domain.TransactionTypePayment,
		Status:      domain.TransactionStatusPending,
		AmountCents: extraTotal,
		Currency:    b.Currency,
		Reference:   uuid.NewString(),
		Metadata: map[string]string{
			"reason":     "booking_extension",
			"extra_days": strconv.FormatInt(int64(extraDays), 10),
			"new_return": newReturnAt.Format(time.RFC3339),
		},
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, nil, err
	}

	// Move the return reminder to the new window.
	if err := s.jobRepo.CancelPending(ctx, b.ID, domain.JobTemplateReturnReminder); err != nil {
		logger.Warn("failed to cancel return reminder", "booking_id", b.ID, "error", err)
	}
	s.scheduleReminder(ctx, b, domain.JobTemplateReturnReminder, b.ReturnAt.Add(-s.reminderLead))

	return b, nil, nil
}

// scheduleReminder writes a future job row; delivery is the job runner's
// concern. Failures are logged, never propagated.
func (s *bookingService) scheduleReminder(ctx context.Context, b *domain.Booking, template string, at time.Time) {
	job := &domain.ScheduledJob{
		UserID:      b.RenterID,
		BookingID:   &b.ID,
		Template:    template,
		ScheduledAt: at,
		Status:      domain.JobStatusPending,
		Metadata: map[string]string{
			"booking_reference": b.Reference,
			"vehicle_id":        strconv.FormatInt(b.VehicleID, 10),
		},
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		logger.Warn("failed to schedule reminder", "booking_id", b.ID, "template", template, "error", err)
	}
}

func (s *bookingService) notify(ctx context.Context, userID int64, title, message string, bookingID int64, kind string) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":       kind,
			"booking_id": strconv.FormatInt(bookingID, 10),
		},
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		logger.Warn("failed to create notification", "user_id", userID, "type", kind, "error", err)
	}
}

// ensureDepositRefund creates a deposit refund for the booking if none exists
// yet. Every path that may create one goes through here; at most one refund
// may exist per booking.
func ensureDepositRefund(ctx context.Context, repo repository.DepositRefundRepository, bookingID, amountCents int64, currency, notes string, dueDays int) (bool, error) {
	if _, err := repo.GetByBookingID(ctx, bookingID); err == nil {
		return false, nil
	}
	refund := &domain.DepositRefund{
		BookingID:   bookingID,
		AmountCents: amountCents,
		Currency:    currency,
		DueAt:       time.Now().AddDate(0, 0, dueDays),
		Status:      domain.DepositRefundStatusPending,
		Notes:       notes,
		Reference:   uuid.NewString(),
	}
	if err := repo.Create(ctx, refund); err != nil {
		return false, err
	}
	return true, nil
}
