package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/money"
	"vehiclerental-backend/internal/repository"
)

type pricingService struct {
	vehicleRepo repository.VehicleRepository
	planRepo    repository.PlanRepository
	driverRepo  repository.DriverRepository
	settings    SettingsService
	promoSvc    PromoService
	currency    string

	platformFeeBpsDefault  int64
	driverRateCentsDefault int64
}

func NewPricingService(
	vehicleRepo repository.VehicleRepository,
	planRepo repository.PlanRepository,
	driverRepo repository.DriverRepository,
	settings SettingsService,
	promoSvc PromoService,
	currency string,
	platformFeeBpsDefault int64,
	driverRateCentsDefault int64,
) PricingService {
	return &pricingService{
		vehicleRepo:            vehicleRepo,
		planRepo:               planRepo,
		driverRepo:             driverRepo,
		settings:               settings,
		promoSvc:               promoSvc,
		currency:               currency,
		platformFeeBpsDefault:  platformFeeBpsDefault,
		driverRateCentsDefault: driverRateCentsDefault,
	}
}

// dayCount is ceil(duration in days) floored at 1: a 25-hour booking costs 2
// days, not 1.04.
func dayCount(pickupAt, returnAt time.Time) int32 {
	d := returnAt.Sub(pickupAt)
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// resolveAddOn implements the shared "explicit id, else active default, else
// none" lookup used by insurance and protection plans. def returning (nil, nil)
// means no default is configured.
func resolveAddOn[T any](ctx context.Context, explicitID *int64,
	byID func(context.Context, int64) (*T, error),
	def func(context.Context) (*T, error),
) (*T, error) {
	if explicitID != nil {
		return byID(ctx, *explicitID)
	}
	return def(ctx)
}

func (s *pricingService) Quote(ctx context.Context, req QuoteRequest) (*domain.PriceBreakdown, error) {
	if !req.PickupAt.Before(req.ReturnAt) {
		return nil, fmt.Errorf("%w: pickup must precede return", domain.ErrValidation)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	category, err := s.vehicleRepo.GetCategory(ctx, vehicle.CategoryID)
	if err != nil {
		return nil, err
	}

	days := dayCount(req.PickupAt, req.ReturnAt)

	dailyRate := category.DailyRateCents
	if vehicle.DailyRateCents != nil {
		dailyRate = *vehicle.DailyRateCents
	}

	bd := &domain.PriceBreakdown{
		Days:               days,
		RentalAmountCents:  money.Mul(dailyRate, days),
		DepositAmountCents: category.DepositCents,
		Currency:           s.currency,
		PromoCode:          req.PromoCode,
	}

	if req.WithDriver {
		driver, err := s.resolveDriver(ctx, req.DriverID)
		if err != nil {
			return nil, err
		}
		rate := driver.DailyRateCents
		if rate == 0 {
			rate = s.settings.GetInt64(ctx, SettingDriverDailyRate, s.driverRateCentsDefault)
		}
		bd.DriverID = &driver.ID
		bd.DriverAmountCents = money.Mul(rate, days)
	}

	insurance, err := resolveAddOn(ctx, req.InsurancePlanID,
		s.planRepo.GetInsurancePlan, s.planRepo.GetDefaultInsurancePlan)
	if err != nil {
		return nil, err
	}
	if insurance != nil {
		bd.InsurancePlanID = &insurance.ID
		bd.InsuranceAmountCents = money.Mul(insurance.DailyPriceCents, days)
	}

	protection, err := resolveAddOn(ctx, req.ProtectionPlanID,
		s.planRepo.GetProtectionPlan, s.planRepo.GetDefaultProtectionPlan)
	if err != nil {
		return nil, err
	}
	if protection != nil {
		var amount int64
		if protection.PricingMode == domain.PlanPricingPerDay {
			amount = money.Mul(protection.DailyPriceCents, days)
		} else {
			amount = protection.FixedPriceCents
		}
		bd.ProtectionPlanID = &protection.ID
		bd.ProtectionAmountCents = money.Clamp(amount, protection.MinFeeCents, protection.MaxFeeCents)
	}

	feeBps := s.settings.GetInt64(ctx, SettingPlatformFeeBps, s.platformFeeBpsDefault)
	// Protection, insurance, and deposit are excluded from the fee base.
	bd.PlatformFeeCents = money.PercentBps(bd.RentalAmountCents+bd.DriverAmountCents, feeBps)
	bd.TotalAmountCents = s.sumTotal(bd)

	if req.PromoCode != "" {
		if err := s.applyPromo(ctx, req, bd, feeBps); err != nil {
			return nil, err
		}
	}

	return bd, nil
}

func (s *pricingService) resolveDriver(ctx context.Context, driverID *int64) (*domain.DriverProfile, error) {
	if driverID != nil {
		driver, err := s.driverRepo.GetByID(ctx, *driverID)
		if err != nil {
			return nil, err
		}
		if !driver.Available || !driver.Verified {
			return nil, fmt.Errorf("%w: driver %d is not available", domain.ErrPolicy, *driverID)
		}
		return driver, nil
	}
	driver, err := s.driverRepo.FindBestAvailable(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: no available driver", domain.ErrPolicy)
	}
	if err != nil {
		return nil, err
	}
	return driver, nil
}

// applyPromo delegates validation to the promo collaborator. An invalid code
// fails the whole pricing operation; it is never silently ignored.
func (s *pricingService) applyPromo(ctx context.Context, req QuoteRequest, bd *domain.PriceBreakdown, feeBps int64) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return err
	}
	result, err := s.promoSvc.Validate(ctx, req.PromoCode, req.RenterID,
		bd.TotalAmountCents, req.VehicleID, vehicle.CategoryID, req.CityID, bd.Days)
	if err != nil {
		return fmt.Errorf("%w: promo validation failed: %v", domain.ErrPolicy, err)
	}
	if !result.IsValid {
		return fmt.Errorf("%w: invalid promo code: %s", domain.ErrPolicy, result.ErrorMessage)
	}

	if result.PromoType == PromoTypeOwnerVehicleDiscount {
		// Owner absorbs the discount: the rental amount shrinks and the fee
		// and total are recomputed from it.
		bd.RentalAmountCents = money.NonNegative(bd.RentalAmountCents - result.DiscountAmountCents)
		bd.PlatformFeeCents = money.PercentBps(bd.RentalAmountCents+bd.DriverAmountCents, feeBps)
		bd.TotalAmountCents = s.sumTotal(bd)
		return nil
	}

	// All other promo types reduce what the renter pays; owner and platform
	// economics are unchanged.
	bd.PromoDiscountCents = result.DiscountAmountCents
	bd.TotalAmountCents = money.NonNegative(s.sumTotal(bd))
	return nil
}

func (s *pricingService) sumTotal(bd *domain.PriceBreakdown) int64 {
	return bd.RentalAmountCents + bd.DepositAmountCents + bd.DriverAmountCents +
		bd.InsuranceAmountCents + bd.ProtectionAmountCents + bd.PlatformFeeCents -
		bd.PromoDiscountCents
}
