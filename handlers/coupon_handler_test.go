package handlers

import (
	"agromart/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiscountPercent(t *testing.T) {
	//八折優惠券:小計1000折200，實付800
	coupon := models.Coupon{
		Code:  "SAVE20",
		Type:  models.CouponTypePercent,
		Value: 20,
	}
	discount := ComputeDiscount(&coupon, 1000)
	assert.Equal(t, uint(200), discount)
	assert.Equal(t, uint(800), 1000-discount)
}

func TestComputeDiscountFixed(t *testing.T) {
	coupon := models.Coupon{
		Code:  "MINUS100",
		Type:  models.CouponTypeFixed,
		Value: 100,
	}
	assert.Equal(t, uint(100), ComputeDiscount(&coupon, 1000))
}

func TestComputeDiscountNeverExceedsSubtotal(t *testing.T) {
	coupon := models.Coupon{
		Code:  "MINUS500",
		Type:  models.CouponTypeFixed,
		Value: 500,
	}
	assert.Equal(t, uint(300), ComputeDiscount(&coupon, 300))
}

func TestValidateCoupon(t *testing.T) {
	now := time.Now()

	valid := models.Coupon{
		Code:       "SAVE20",
		Type:       models.CouponTypePercent,
		Value:      20,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		Active:     true,
	}
	assert.NoError(t, ValidateCoupon(&valid, 1000, now))

	inactive := valid
	inactive.Active = false
	assert.ErrorIs(t, ValidateCoupon(&inactive, 1000, now), errCouponInactive)

	notStarted := valid
	notStarted.ValidFrom = now.Add(time.Hour)
	assert.ErrorIs(t, ValidateCoupon(&notStarted, 1000, now), errCouponNotStarted)

	expired := valid
	expired.ValidUntil = now.Add(-time.Minute)
	assert.ErrorIs(t, ValidateCoupon(&expired, 1000, now), errCouponExpired)

	usedUp := valid
	usedUp.UsageLimit = 5
	usedUp.UsedCount = 5
	assert.ErrorIs(t, ValidateCoupon(&usedUp, 1000, now), errCouponUsedUp)

	minOrder := valid
	minOrder.MinOrder = 2000
	assert.ErrorIs(t, ValidateCoupon(&minOrder, 1000, now), errCouponMinOrder)
}

func TestValidateCouponZeroTimesMeansNoWindow(t *testing.T) {
	//未設定生效區間的優惠券隨時可用
	coupon := models.Coupon{
		Code:   "FOREVER",
		Type:   models.CouponTypeFixed,
		Value:  50,
		Active: true,
	}
	assert.NoError(t, ValidateCoupon(&coupon, 100, time.Now()))
}
