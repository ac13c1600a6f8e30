package postgres

import (
	"database/sql"

	"vehiclerental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store aggregates all repository implementations over one database handle.
type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.VehicleRepository
	repository.PlanRepository
	repository.DriverRepository
	repository.PolicyRepository
	repository.TransactionRepository
	repository.DepositRefundRepository
	repository.ChargeRepository
	repository.PayoutRepository
	repository.JobRepository
	repository.NotificationRepository
	repository.UserRepository
	repository.SettingRepository
	repository.PromoRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		BookingRepository:       NewBookingRepository(db),
		VehicleRepository:       NewVehicleRepository(db),
		PlanRepository:          NewPlanRepository(db),
		DriverRepository:        NewDriverRepository(db),
		PolicyRepository:        NewPolicyRepository(db),
		TransactionRepository:   NewTransactionRepository(db),
		DepositRefundRepository: NewDepositRefundRepository(db),
		ChargeRepository:        NewChargeRepository(db),
		PayoutRepository:        NewPayoutRepository(db),
		JobRepository:           NewJobRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		UserRepository:          NewUserRepository(db),
		SettingRepository:       NewSettingRepository(db),
		PromoRepository:         NewPromoRepository(db),
	}
}
