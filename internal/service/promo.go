package service

import (
	"context"
	"errors"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/money"
	"vehiclerental-backend/internal/repository"
)

type promoService struct {
	promoRepo repository.PromoRepository
}

func NewPromoService(promoRepo repository.PromoRepository) PromoService {
	return &promoService{promoRepo: promoRepo}
}

func invalidPromo(msg string) *PromoResult {
	return &PromoResult{IsValid: false, ErrorMessage: msg}
}

func (s *promoService) Validate(ctx context.Context, code string, renterID, amountCents, vehicleID, categoryID, cityID int64, days int32) (*PromoResult, error) {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidPromo("unknown promo code"), nil
		}
		return nil, err
	}

	now := time.Now()
	switch {
	case !promo.Active:
		return invalidPromo("promo code is inactive"), nil
	case now.Before(promo.ValidFrom):
		return invalidPromo("promo code is not active yet"), nil
	case promo.ValidUntil != nil && now.After(*promo.ValidUntil):
		return invalidPromo("promo code has expired"), nil
	case promo.VehicleID != nil && *promo.VehicleID != vehicleID:
		return invalidPromo("promo code does not apply to this vehicle"), nil
	case promo.CategoryID != nil && *promo.CategoryID != categoryID:
		return invalidPromo("promo code does not apply to this category"), nil
	case promo.MinDays > 0 && days < promo.MinDays:
		return invalidPromo("booking is shorter than the promo minimum"), nil
	}

	if promo.UsageLimit > 0 {
		used, err := s.promoRepo.CountUsage(ctx, promo.ID)
		if err != nil {
			return nil, err
		}
		if used >= promo.UsageLimit {
			return invalidPromo("promo code usage limit reached"), nil
		}
	}
	if promo.PerUserLimit > 0 {
		used, err := s.promoRepo.CountUserUsage(ctx, promo.ID, renterID)
		if err != nil {
			return nil, err
		}
		if used >= promo.PerUserLimit {
			return invalidPromo("promo code already used"), nil
		}
	}

	discount := promo.DiscountAmountCents
	if promo.DiscountPercent > 0 {
		discount = money.PercentBps(amountCents, int64(promo.DiscountPercent)*100)
	}
	if promo.MaxDiscountCents > 0 && discount > promo.MaxDiscountCents {
		discount = promo.MaxDiscountCents
	}
	if discount > amountCents {
		discount = amountCents
	}

	return &PromoResult{
		IsValid:             true,
		DiscountAmountCents: discount,
		FinalAmountCents:    amountCents - discount,
		PromoType:           promo.Type,
	}, nil
}

func (s *promoService) Apply(ctx context.Context, code string, renterID, bookingID, originalAmountCents int64, role string) error {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	discount := promo.DiscountAmountCents
	if promo.DiscountPercent > 0 {
		discount = money.PercentBps(originalAmountCents, int64(promo.DiscountPercent)*100)
	}
	if promo.MaxDiscountCents > 0 && discount > promo.MaxDiscountCents {
		discount = promo.MaxDiscountCents
	}

	return s.promoRepo.RecordUsage(ctx, &domain.PromoUsage{
		PromoID:       promo.ID,
		UserID:        renterID,
		BookingID:     bookingID,
		AmountCents:   originalAmountCents,
		DiscountCents: discount,
		Role:          role,
	})
}
