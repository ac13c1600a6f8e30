package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vehiclerental-backend/internal/domain"
)

func TestPromoService_Validate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	activeCode := func() *domain.PromoCode {
		return &domain.PromoCode{
			ID: 1, Code: "SAVE10", Type: "percentage",
			DiscountPercent: 10, Active: true,
			ValidFrom: now.Add(-24 * time.Hour),
		}
	}

	t.Run("Percentage discount computed from amount", func(t *testing.T) {
		repo := new(MockPromoRepo)
		repo.On("GetByCode", ctx, "SAVE10").Return(activeCode(), nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, int64(9900), res.DiscountAmountCents)
		assert.Equal(t, int64(89100), res.FinalAmountCents)
		assert.Equal(t, "percentage", res.PromoType)
	})

	t.Run("Unknown code invalid, not an error", func(t *testing.T) {
		repo := new(MockPromoRepo)
		repo.On("GetByCode", ctx, "NOPE").Return(nil, domain.ErrNotFound)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "NOPE", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.False(t, res.IsValid)
	})

	t.Run("Expired code invalid", func(t *testing.T) {
		repo := new(MockPromoRepo)
		expired := activeCode()
		until := now.Add(-time.Hour)
		expired.ValidUntil = &until
		repo.On("GetByCode", ctx, "SAVE10").Return(expired, nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.False(t, res.IsValid)
	})

	t.Run("Vehicle-scoped code on wrong vehicle invalid", func(t *testing.T) {
		repo := new(MockPromoRepo)
		scoped := activeCode()
		otherVehicle := int64(99)
		scoped.VehicleID = &otherVehicle
		repo.On("GetByCode", ctx, "SAVE10").Return(scoped, nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.False(t, res.IsValid)
	})

	t.Run("Per-user limit enforced", func(t *testing.T) {
		repo := new(MockPromoRepo)
		limited := activeCode()
		limited.PerUserLimit = 1
		repo.On("GetByCode", ctx, "SAVE10").Return(limited, nil)
		repo.On("CountUserUsage", ctx, int64(1), int64(1)).Return(int32(1), nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.False(t, res.IsValid)
	})

	t.Run("Max discount caps percentage", func(t *testing.T) {
		repo := new(MockPromoRepo)
		capped := activeCode()
		capped.MaxDiscountCents = 5000
		repo.On("GetByCode", ctx, "SAVE10").Return(capped, nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), res.DiscountAmountCents)
	})

	t.Run("Flat discount never exceeds the amount", func(t *testing.T) {
		repo := new(MockPromoRepo)
		flat := activeCode()
		flat.DiscountPercent = 0
		flat.DiscountAmountCents = 120000
		repo.On("GetByCode", ctx, "SAVE10").Return(flat, nil)

		svc := NewPromoService(repo)
		res, err := svc.Validate(ctx, "SAVE10", 1, 99000, 2, 3, 0, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(99000), res.DiscountAmountCents)
		assert.Equal(t, int64(0), res.FinalAmountCents)
	})
}

func TestPromoService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Usage recorded", func(t *testing.T) {
		repo := new(MockPromoRepo)
		repo.On("GetByCode", ctx, "SAVE10").Return(&domain.PromoCode{
			ID: 1, Code: "SAVE10", DiscountPercent: 10, Active: true,
		}, nil)

		var usage *domain.PromoUsage
		repo.On("RecordUsage", ctx, mock.AnythingOfType("*domain.PromoUsage")).
			Run(func(args mock.Arguments) { usage = args.Get(1).(*domain.PromoUsage) }).Return(nil)

		svc := NewPromoService(repo)
		assert.NoError(t, svc.Apply(ctx, "SAVE10", 1, 5, 99000, "renter"))
		assert.Equal(t, int64(1), usage.PromoID)
		assert.Equal(t, int64(5), usage.BookingID)
		assert.Equal(t, int64(9900), usage.DiscountCents)
	})
}
