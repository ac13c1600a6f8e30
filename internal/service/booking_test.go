package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vehiclerental-backend/internal/domain"
)

type bookingMocks struct {
	bookingRepo  *MockBookingRepo
	vehicleRepo  *MockVehicleRepo
	policyRepo   *MockPolicyRepo
	txRepo       *MockTransactionRepo
	depositRepo  *MockDepositRefundRepo
	jobRepo      *MockJobRepo
	noteRepo     *MockNotificationRepo
	availability *MockAvailabilityService
	pricing      *MockPricingService
	promoSvc     *MockPromoService
	settingRepo  *MockSettingRepo
}

func newBookingMocks() *bookingMocks {
	return &bookingMocks{
		bookingRepo:  new(MockBookingRepo),
		vehicleRepo:  new(MockVehicleRepo),
		policyRepo:   new(MockPolicyRepo),
		txRepo:       new(MockTransactionRepo),
		depositRepo:  new(MockDepositRefundRepo),
		jobRepo:      new(MockJobRepo),
		noteRepo:     new(MockNotificationRepo),
		availability: new(MockAvailabilityService),
		pricing:      new(MockPricingService),
		promoSvc:     new(MockPromoService),
		settingRepo:  new(MockSettingRepo),
	}
}

func (m *bookingMocks) service() BookingService {
	return NewBookingService(
		m.bookingRepo, m.vehicleRepo, m.policyRepo, m.txRepo, m.depositRepo,
		m.jobRepo, m.noteRepo, m.availability, m.pricing, m.promoSvc,
		NewSettingsService(m.settingRepo),
		4*time.Hour, 24*time.Hour, 7, 1500, "GHS",
	)
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()
	pickup := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	ret := pickup.Add(72 * time.Hour)
	vehicle := &domain.Vehicle{ID: 2, OwnerID: 10, CategoryID: 3, Status: domain.VehicleStatusActive}
	breakdown := &domain.PriceBreakdown{
		Days: 3, RentalAmountCents: 60000, DepositAmountCents: 30000,
		PlatformFeeCents: 9000, TotalAmountCents: 99000, Currency: "GHS",
	}

	t.Run("Success", func(t *testing.T) {
		m := newBookingMocks()
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.availability.On("Check", ctx, int64(2), pickup, ret, int64(0)).Return(true, nil, nil)
		req := QuoteRequest{RenterID: 1, VehicleID: 2, PickupAt: pickup, ReturnAt: ret}
		m.pricing.On("Quote", ctx, req).Return(breakdown, nil)
		m.bookingRepo.On("CreateGuarded", ctx, mock.AnythingOfType("*domain.Booking"), 4*time.Hour).Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		b, err := m.service().CreateBooking(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPendingPayment, b.Status)
		assert.Equal(t, domain.PaymentStatusUnpaid, b.PaymentStatus)
		assert.Equal(t, int64(10), b.OwnerID)
		assert.Equal(t, int32(3), b.BookedDays)
		assert.Equal(t, int64(99000), b.TotalAmountCents)
		assert.NotEmpty(t, b.Reference)
		m.bookingRepo.AssertExpectations(t)
	})

	t.Run("Vehicle unavailable", func(t *testing.T) {
		m := newBookingMocks()
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.availability.On("Check", ctx, int64(2), pickup, ret, int64(0)).Return(false, &domain.ConflictWindow{BookingID: 9}, nil)

		_, err := m.service().CreateBooking(ctx, QuoteRequest{RenterID: 1, VehicleID: 2, PickupAt: pickup, ReturnAt: ret})
		assert.ErrorIs(t, err, domain.ErrConflict)
		m.bookingRepo.AssertNotCalled(t, "CreateGuarded")
	})

	t.Run("Guarded insert conflict surfaces", func(t *testing.T) {
		m := newBookingMocks()
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.availability.On("Check", ctx, int64(2), pickup, ret, int64(0)).Return(true, nil, nil)
		req := QuoteRequest{RenterID: 1, VehicleID: 2, PickupAt: pickup, ReturnAt: ret}
		m.pricing.On("Quote", ctx, req).Return(breakdown, nil)
		m.bookingRepo.On("CreateGuarded", ctx, mock.AnythingOfType("*domain.Booking"), 4*time.Hour).Return(domain.ErrConflict)

		_, err := m.service().CreateBooking(ctx, req)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Pickup in the past rejected", func(t *testing.T) {
		m := newBookingMocks()
		past := time.Now().Add(-time.Hour)
		_, err := m.service().CreateBooking(ctx, QuoteRequest{RenterID: 1, VehicleID: 2, PickupAt: past, ReturnAt: past.Add(24 * time.Hour)})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	pickup := time.Now().Add(72 * time.Hour)

	pending := func() *domain.Booking {
		return &domain.Booking{
			ID: 5, Reference: "ref-5", RenterID: 1, OwnerID: 10, VehicleID: 2,
			PickupAt: pickup, ReturnAt: pickup.Add(48 * time.Hour),
			TotalAmountCents: 99000, Currency: "GHS",
			Status: domain.BookingStatusPendingPayment, PaymentStatus: domain.PaymentStatusUnpaid,
		}
	}

	t.Run("Success schedules both reminders", func(t *testing.T) {
		m := newBookingMocks()
		b := pending()
		m.txRepo.On("GetByReference", ctx, "prov-1").Return(nil, domain.ErrNotFound)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.txRepo.On("Create", ctx, mock.AnythingOfType("*domain.PaymentTransaction")).Return(nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("Create", ctx, mock.AnythingOfType("*domain.ScheduledJob")).Return(nil).Twice()
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		out, err := m.service().ConfirmPayment(ctx, 5, "card", "prov-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, out.Status)
		assert.Equal(t, domain.PaymentStatusPaid, out.PaymentStatus)
		m.jobRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Replay with known provider reference is a no-op", func(t *testing.T) {
		m := newBookingMocks()
		confirmed := pending()
		confirmed.Status = domain.BookingStatusConfirmed
		confirmed.PaymentStatus = domain.PaymentStatusPaid
		m.txRepo.On("GetByReference", ctx, "prov-1").Return(&domain.PaymentTransaction{ID: 77, Reference: "prov-1"}, nil)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(confirmed, nil)

		out, err := m.service().ConfirmPayment(ctx, 5, "card", "prov-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, out.Status)
		m.txRepo.AssertNotCalled(t, "Create")
		m.bookingRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Cancelled booking cannot be paid", func(t *testing.T) {
		m := newBookingMocks()
		cancelled := pending()
		cancelled.Status = domain.BookingStatusCancelled
		m.txRepo.On("GetByReference", ctx, "prov-2").Return(nil, domain.ErrNotFound)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(cancelled, nil)

		_, err := m.service().ConfirmPayment(ctx, 5, "card", "prov-2")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	paidBooking := func(hoursUntilPickup time.Duration) *domain.Booking {
		pickup := time.Now().Add(hoursUntilPickup)
		return &domain.Booking{
			ID: 5, Reference: "ref-5", RenterID: 1, OwnerID: 10, VehicleID: 2,
			PickupAt: pickup, ReturnAt: pickup.Add(48 * time.Hour),
			RentalAmountCents: 60000, DepositAmountCents: 30000,
			PlatformFeeCents: 9000, TotalAmountCents: 99000, Currency: "GHS",
			Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid,
		}
	}
	vehicle := &domain.Vehicle{ID: 2, CategoryID: 3, Status: domain.VehicleStatusActive}
	policies := []domain.RefundPolicy{
		{ID: 1, HoursBeforePickup: 72, RefundPercent: 100, RefundDeposit: true, Priority: 1, Active: true},
		{ID: 2, HoursBeforePickup: 24, RefundPercent: 50, RefundDeposit: true, Priority: 2, Active: true},
	}

	t.Run("Full refund when cancelled early", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(100 * time.Hour)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.policyRepo.On("ListActive", ctx).Return(policies, nil)

		var refundTx *domain.PaymentTransaction
		m.txRepo.On("Create", ctx, mock.AnythingOfType("*domain.PaymentTransaction")).
			Run(func(args mock.Arguments) { refundTx = args.Get(1).(*domain.PaymentTransaction) }).Return(nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("CancelPending", ctx, int64(5), "").Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		out, err := m.service().CancelBooking(ctx, 1, domain.UserRoleRenter, 5, "change of plans")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, out.Status)
		// 100% of rental plus deposit
		assert.NotNil(t, refundTx)
		assert.Equal(t, int64(90000), refundTx.AmountCents)
		assert.Equal(t, domain.TransactionTypeRefund, refundTx.Type)
		assert.Equal(t, domain.PaymentStatusPartialRefund, out.PaymentStatus)
	})

	t.Run("Half refund inside 72h window", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(30 * time.Hour)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.policyRepo.On("ListActive", ctx).Return(policies, nil)

		var refundTx *domain.PaymentTransaction
		m.txRepo.On("Create", ctx, mock.AnythingOfType("*domain.PaymentTransaction")).
			Run(func(args mock.Arguments) { refundTx = args.Get(1).(*domain.PaymentTransaction) }).Return(nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("CancelPending", ctx, int64(5), "").Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		out, err := m.service().CancelBooking(ctx, 1, domain.UserRoleRenter, 5, "")
		assert.NoError(t, err)
		// 50% of 60000 plus 30000 deposit
		assert.Equal(t, int64(60000), refundTx.AmountCents)
		assert.Equal(t, domain.PaymentStatusPartialRefund, out.PaymentStatus)
	})

	t.Run("No matching policy means non-refundable", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(10 * time.Hour)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.vehicleRepo.On("GetByID", ctx, int64(2)).Return(vehicle, nil)
		m.policyRepo.On("ListActive", ctx).Return(policies, nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("CancelPending", ctx, int64(5), "").Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		out, err := m.service().CancelBooking(ctx, 1, domain.UserRoleRenter, 5, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusNonRefundable, out.PaymentStatus)
		m.txRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Unpaid booking cancels without refund math", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(100 * time.Hour)
		b.PaymentStatus = domain.PaymentStatusUnpaid
		b.Status = domain.BookingStatusPendingPayment
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("CancelPending", ctx, int64(5), "").Return(nil)
		m.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		out, err := m.service().CancelBooking(ctx, 1, domain.UserRoleRenter, 5, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, out.Status)
		m.policyRepo.AssertNotCalled(t, "ListActive")
	})

	t.Run("Terminal booking cannot be cancelled", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(100 * time.Hour)
		b.Status = domain.BookingStatusCompleted
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)

		_, err := m.service().CancelBooking(ctx, 1, domain.UserRoleRenter, 5, "")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Stranger may not cancel", func(t *testing.T) {
		m := newBookingMocks()
		b := paidBooking(100 * time.Hour)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)

		_, err := m.service().CancelBooking(ctx, 99, domain.UserRoleOwner, 5, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestBookingService_MarkRefundCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending refund completed", func(t *testing.T) {
		m := newBookingMocks()
		m.txRepo.On("GetByReference", ctx, "rf-1").Return(&domain.PaymentTransaction{
			ID: 8, Type: domain.TransactionTypeRefund, Status: domain.TransactionStatusPending,
		}, nil)
		m.txRepo.On("UpdateStatus", ctx, int64(8), domain.TransactionStatusCompleted).Return(nil)

		assert.NoError(t, m.service().MarkRefundCompleted(ctx, "rf-1"))
	})

	t.Run("Replay is a no-op", func(t *testing.T) {
		m := newBookingMocks()
		m.txRepo.On("GetByReference", ctx, "rf-1").Return(&domain.PaymentTransaction{
			ID: 8, Type: domain.TransactionTypeRefund, Status: domain.TransactionStatusCompleted,
		}, nil)

		assert.NoError(t, m.service().MarkRefundCompleted(ctx, "rf-1"))
		m.txRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Payment transaction rejected", func(t *testing.T) {
		m := newBookingMocks()
		m.txRepo.On("GetByReference", ctx, "pay-1").Return(&domain.PaymentTransaction{
			ID: 9, Type: domain.TransactionTypePayment, Status: domain.TransactionStatusPending,
		}, nil)

		assert.ErrorIs(t, m.service().MarkRefundCompleted(ctx, "pay-1"), domain.ErrValidation)
	})
}

func TestBookingService_OverrideStatus(t *testing.T) {
	ctx := context.Background()
	b := &domain.Booking{ID: 5, DepositAmountCents: 30000, Currency: "GHS", Status: domain.BookingStatusOngoing}

	t.Run("Admin override to completed creates deposit refund", func(t *testing.T) {
		m := newBookingMocks()
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.depositRepo.On("GetByBookingID", ctx, int64(5)).Return(nil, domain.ErrNotFound)
		m.depositRepo.On("Create", ctx, mock.AnythingOfType("*domain.DepositRefund")).Return(nil)

		out, err := m.service().OverrideStatus(ctx, domain.UserRoleAdmin, 5, domain.BookingStatusCompleted)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, out.Status)
		m.depositRepo.AssertExpectations(t)
	})

	t.Run("Existing deposit refund not duplicated", func(t *testing.T) {
		m := newBookingMocks()
		fresh := &domain.Booking{ID: 5, DepositAmountCents: 30000, Currency: "GHS", Status: domain.BookingStatusOngoing}
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(fresh, nil)
		m.bookingRepo.On("Update", ctx, fresh).Return(nil)
		m.depositRepo.On("GetByBookingID", ctx, int64(5)).Return(&domain.DepositRefund{ID: 1, BookingID: 5}, nil)

		_, err := m.service().OverrideStatus(ctx, domain.UserRoleAdmin, 5, domain.BookingStatusCompleted)
		assert.NoError(t, err)
		m.depositRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Non-admin rejected", func(t *testing.T) {
		m := newBookingMocks()
		_, err := m.service().OverrideStatus(ctx, domain.UserRoleRenter, 5, domain.BookingStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		m := newBookingMocks()
		_, err := m.service().OverrideStatus(ctx, domain.UserRoleAdmin, 5, domain.BookingStatus("paused"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBookingService_RequestExtension(t *testing.T) {
	ctx := context.Background()
	pickup := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	ret := pickup.Add(72 * time.Hour)

	confirmed := func() *domain.Booking {
		return &domain.Booking{
			ID: 5, Reference: "ref-5", RenterID: 1, OwnerID: 10, VehicleID: 2,
			PickupAt: pickup, ReturnAt: ret, BookedDays: 3,
			RentalAmountCents: 60000, PlatformFeeCents: 9000,
			TotalAmountCents: 99000, DepositAmountCents: 30000, Currency: "GHS",
			Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid,
		}
	}

	t.Run("Extension prices extra days at booked rate", func(t *testing.T) {
		m := newBookingMocks()
		b := confirmed()
		newReturn := ret.Add(48 * time.Hour)
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.availability.On("Check", ctx, int64(2), ret, newReturn, int64(5)).Return(true, nil, nil)
		m.settingRepo.On("Get", ctx, SettingPlatformFeeBps).Return("", domain.ErrNotFound)

		var pendingTx *domain.PaymentTransaction
		m.txRepo.On("Create", ctx, mock.AnythingOfType("*domain.PaymentTransaction")).
			Run(func(args mock.Arguments) { pendingTx = args.Get(1).(*domain.PaymentTransaction) }).Return(nil)
		m.bookingRepo.On("Update", ctx, b).Return(nil)
		m.jobRepo.On("CancelPending", ctx, int64(5), domain.JobTemplateReturnReminder).Return(nil)
		m.jobRepo.On("Create", ctx, mock.AnythingOfType("*domain.ScheduledJob")).Return(nil)

		out, _, err := m.service().RequestExtension(ctx, 1, 5, newReturn)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), out.BookedDays)
		assert.Equal(t, newReturn, out.ReturnAt)
		// 2 extra days at 20000/day plus 15% fee on the extra rental
		assert.Equal(t, int64(100000), out.RentalAmountCents)
		assert.Equal(t, int64(15000), out.PlatformFeeCents)
		assert.Equal(t, int64(145000), out.TotalAmountCents)
		assert.Equal(t, int64(46000), pendingTx.AmountCents)
		assert.Equal(t, domain.TransactionStatusPending, pendingTx.Status)
	})

	t.Run("Extension blocked by later booking", func(t *testing.T) {
		m := newBookingMocks()
		b := confirmed()
		newReturn := ret.Add(48 * time.Hour)
		window := &domain.ConflictWindow{BookingID: 12}
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)
		m.availability.On("Check", ctx, int64(2), ret, newReturn, int64(5)).Return(false, window, nil)

		_, conflict, err := m.service().RequestExtension(ctx, 1, 5, newReturn)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, window, conflict)
		m.txRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Shorter return rejected", func(t *testing.T) {
		m := newBookingMocks()
		b := confirmed()
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)

		_, _, err := m.service().RequestExtension(ctx, 1, 5, ret.Add(-time.Hour))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Pending booking cannot be extended", func(t *testing.T) {
		m := newBookingMocks()
		b := confirmed()
		b.Status = domain.BookingStatusPendingPayment
		m.bookingRepo.On("GetByID", ctx, int64(5)).Return(b, nil)

		_, _, err := m.service().RequestExtension(ctx, 1, 5, ret.Add(48*time.Hour))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
