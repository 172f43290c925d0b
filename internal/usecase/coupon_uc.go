package usecase

import (
	"context"
	"fmt"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/validation"
)

var hundred = decimal.NewFromInt(100)

type CouponUC struct {
	Coupons domain.CouponAPI

	validate *validatorv10.Validate
}

func NewCouponUC(coupons domain.CouponAPI) *CouponUC {
	return &CouponUC{Coupons: coupons, validate: validation.New()}
}

func (uc *CouponUC) List(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.Coupon], error) {
	if q.PerPage == 0 {
		q.PerPage = 20
	}
	return uc.Coupons.ListCoupons(ctx, q)
}

func (uc *CouponUC) Get(ctx context.Context, id int64) (domain.Coupon, error) {
	if id <= 0 {
		return domain.Coupon{}, fmt.Errorf("%w: coupon id must be positive", domain.ErrValidation)
	}
	return uc.Coupons.GetCoupon(ctx, id)
}

func (uc *CouponUC) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	c.Code = strings.TrimSpace(c.Code)
	if err := uc.check(c); err != nil {
		return domain.Coupon{}, err
	}
	return uc.Coupons.CreateCoupon(ctx, c)
}

func (uc *CouponUC) Update(ctx context.Context, id int64, c domain.Coupon) (domain.Coupon, error) {
	if id <= 0 {
		return domain.Coupon{}, fmt.Errorf("%w: coupon id must be positive", domain.ErrValidation)
	}
	c.Code = strings.TrimSpace(c.Code)
	if err := uc.check(c); err != nil {
		return domain.Coupon{}, err
	}
	return uc.Coupons.UpdateCoupon(ctx, id, c)
}

func (uc *CouponUC) Delete(ctx context.Context, id int64) (domain.Coupon, error) {
	if id <= 0 {
		return domain.Coupon{}, fmt.Errorf("%w: coupon id must be positive", domain.ErrValidation)
	}
	return uc.Coupons.DeleteCoupon(ctx, id)
}

func (uc *CouponUC) check(c domain.Coupon) error {
	if err := validation.Check(uc.validate, c); err != nil {
		return err
	}
	if c.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if c.DiscountType == "percent" && c.Amount.GreaterThan(hundred) {
		return fmt.Errorf("%w: percent discount above 100", domain.ErrValidation)
	}
	return nil
}
