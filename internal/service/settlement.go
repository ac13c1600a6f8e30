package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/repository"
)

type settlementService struct {
	bookingRepo repository.BookingRepository
	payoutRepo  repository.PayoutRepository
	currency    string
}

func NewSettlementService(bookingRepo repository.BookingRepository, payoutRepo repository.PayoutRepository, currency string) SettlementService {
	return &settlementService{bookingRepo: bookingRepo, payoutRepo: payoutRepo, currency: currency}
}

func (s *settlementService) GetOwnerEarnings(ctx context.Context, ownerID int64) (*domain.OwnerEarnings, error) {
	rental, driver, fee, count, err := s.bookingRepo.SumOwnerEarnings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	earnings := rental + driver - fee

	paidOut, err := s.payoutRepo.SumPayouts(ctx, ownerID, []domain.PayoutStatus{domain.PayoutStatusCompleted})
	if err != nil {
		return nil, err
	}
	pending, err := s.payoutRepo.SumPayouts(ctx, ownerID, []domain.PayoutStatus{domain.PayoutStatusPending, domain.PayoutStatusProcessing})
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.payoutRepo.SumWithdrawals(ctx, ownerID, []domain.PayoutStatus{domain.PayoutStatusCompleted})
	if err != nil {
		return nil, err
	}
	// Withdrawals reduce the balance while pending, processing, or completed.
	withdrawing, err := s.payoutRepo.SumWithdrawals(ctx, ownerID, []domain.PayoutStatus{domain.PayoutStatusPending, domain.PayoutStatusProcessing})
	if err != nil {
		return nil, err
	}

	return &domain.OwnerEarnings{
		OwnerID:                 ownerID,
		CompletedBookings:       count,
		TotalEarningsCents:      earnings,
		PaidOutCents:            paidOut,
		PendingPayoutsCents:     pending,
		WithdrawnCents:          withdrawn,
		PendingWithdrawalsCents: withdrawing,
		AvailableBalanceCents:   earnings - paidOut - pending - withdrawn - withdrawing,
		Currency:                s.currency,
	}, nil
}

func (s *settlementService) RequestPayout(ctx context.Context, ownerID, amountCents int64) (*domain.Payout, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: payout amount must be positive", domain.ErrValidation)
	}

	// The balance is recomputed here rather than read from a stored column, so
	// a stale cache can never approve an over-withdrawal.
	earnings, err := s.GetOwnerEarnings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if amountCents > earnings.AvailableBalanceCents {
		return nil, fmt.Errorf("%w: requested %d exceeds available balance %d",
			domain.ErrValidation, amountCents, earnings.AvailableBalanceCents)
	}

	payout := &domain.Payout{
		OwnerID:     ownerID,
		AmountCents: amountCents,
		Currency:    s.currency,
		Status:      domain.PayoutStatusPending,
		Reference:   uuid.NewString(),
	}
	if err := s.payoutRepo.CreatePayout(ctx, payout); err != nil {
		return nil, err
	}
	return payout, nil
}
