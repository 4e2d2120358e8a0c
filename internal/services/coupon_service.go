package services

import (
	"hunger_express/internal/repository"
	"math"
	"time"
)

// CouponResolver turns a coupon code and an order subtotal into a discount.
// An unknown, inactive, expired or below-minimum coupon yields a zero
// discount and an empty applied code rather than an error, matching the
// checkout behavior: a bad code never blocks the order.
type CouponResolver interface {
	Resolve(code string, subtotal float64) (discount float64, applied string, err error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) CouponResolver {
	return &couponService{couponRepo: couponRepo, now: time.Now}
}

func (s *couponService) Resolve(code string, subtotal float64) (float64, string, error) {
	if code == "" {
		return 0, "", nil
	}

	coupon, err := s.couponRepo.GetActiveByCode(code)
	if err != nil {
		return 0, "", err
	}
	if coupon == nil {
		return 0, "", nil
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return 0, "", nil
	}
	if coupon.MinAmount != nil && subtotal < *coupon.MinAmount {
		return 0, "", nil
	}

	discount := 0.0
	if coupon.PercentOff != nil {
		discount += subtotal * (*coupon.PercentOff / 100)
	}
	if coupon.AmountOff != nil {
		discount += *coupon.AmountOff
	}
	if discount > subtotal {
		discount = subtotal
	}

	return round2(discount), coupon.Code, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
