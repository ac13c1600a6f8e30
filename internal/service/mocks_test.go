package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vehiclerental-backend/internal/domain"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateGuarded(ctx context.Context, b *domain.Booking, buffer time.Duration) error {
	args := m.Called(ctx, b, buffer)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) FindOverlapping(ctx context.Context, vehicleID int64, from, to time.Time, excludeID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID, from, to, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) SumOwnerEarnings(ctx context.Context, ownerID int64) (int64, int64, int64, int32, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Get(3).(int32), args.Error(4)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// MockPlanRepo
type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) GetInsurancePlan(ctx context.Context, id int64) (*domain.InsurancePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsurancePlan), args.Error(1)
}
func (m *MockPlanRepo) GetDefaultInsurancePlan(ctx context.Context) (*domain.InsurancePlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsurancePlan), args.Error(1)
}
func (m *MockPlanRepo) GetProtectionPlan(ctx context.Context, id int64) (*domain.ProtectionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProtectionPlan), args.Error(1)
}
func (m *MockPlanRepo) GetDefaultProtectionPlan(ctx context.Context) (*domain.ProtectionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProtectionPlan), args.Error(1)
}

// MockDriverRepo
type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) GetByID(ctx context.Context, id int64) (*domain.DriverProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriverProfile), args.Error(1)
}
func (m *MockDriverRepo) FindBestAvailable(ctx context.Context) (*domain.DriverProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DriverProfile), args.Error(1)
}

// MockPolicyRepo
type MockPolicyRepo struct {
	mock.Mock
}

func (m *MockPolicyRepo) ListActive(ctx context.Context) ([]domain.RefundPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RefundPolicy), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockTransactionRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}

// MockDepositRefundRepo
type MockDepositRefundRepo struct {
	mock.Mock
}

func (m *MockDepositRefundRepo) Create(ctx context.Context, r *domain.DepositRefund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockDepositRefundRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.DepositRefund, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositRefund), args.Error(1)
}
func (m *MockDepositRefundRepo) UpdateStatus(ctx context.Context, id int64, status domain.DepositRefundStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockChargeRepo
type MockChargeRepo struct {
	mock.Mock
}

func (m *MockChargeRepo) Create(ctx context.Context, c *domain.BookingCharge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockChargeRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingCharge, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.BookingCharge), args.Error(1)
}

// MockPayoutRepo
type MockPayoutRepo struct {
	mock.Mock
}

func (m *MockPayoutRepo) CreatePayout(ctx context.Context, p *domain.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPayoutRepo) SumPayouts(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error) {
	args := m.Called(ctx, ownerID, statuses)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPayoutRepo) SumWithdrawals(ctx context.Context, ownerID int64, statuses []domain.PayoutStatus) (int64, error) {
	args := m.Called(ctx, ownerID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

// MockJobRepo
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, j *domain.ScheduledJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}
func (m *MockJobRepo) CancelPending(ctx context.Context, bookingID int64, template string) error {
	args := m.Called(ctx, bookingID, template)
	return args.Error(0)
}
func (m *MockJobRepo) ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledJob, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.ScheduledJob), args.Error(1)
}
func (m *MockJobRepo) MarkStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockSettingRepo
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockPromoRepo
type MockPromoRepo struct {
	mock.Mock
}

func (m *MockPromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromoCode), args.Error(1)
}
func (m *MockPromoRepo) CountUsage(ctx context.Context, promoID int64) (int32, error) {
	args := m.Called(ctx, promoID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPromoRepo) CountUserUsage(ctx context.Context, promoID, userID int64) (int32, error) {
	args := m.Called(ctx, promoID, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPromoRepo) RecordUsage(ctx context.Context, u *domain.PromoUsage) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockPromoService
type MockPromoService struct {
	mock.Mock
}

func (m *MockPromoService) Validate(ctx context.Context, code string, renterID, amountCents, vehicleID, categoryID, cityID int64, days int32) (*PromoResult, error) {
	args := m.Called(ctx, code, renterID, amountCents, vehicleID, categoryID, cityID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PromoResult), args.Error(1)
}
func (m *MockPromoService) Apply(ctx context.Context, code string, renterID, bookingID, originalAmountCents int64, role string) error {
	args := m.Called(ctx, code, renterID, bookingID, originalAmountCents, role)
	return args.Error(0)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) Check(ctx context.Context, vehicleID int64, pickupAt, returnAt time.Time, excludeBookingID int64) (bool, *domain.ConflictWindow, error) {
	args := m.Called(ctx, vehicleID, pickupAt, returnAt, excludeBookingID)
	var window *domain.ConflictWindow
	if args.Get(1) != nil {
		window = args.Get(1).(*domain.ConflictWindow)
	}
	return args.Bool(0), window, args.Error(2)
}

// MockPricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Quote(ctx context.Context, req QuoteRequest) (*domain.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceBreakdown), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}
