package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"time"
)

var (
	errCouponInactive   = errors.New("優惠券已停用")
	errCouponNotStarted = errors.New("優惠券尚未生效")
	errCouponExpired    = errors.New("優惠券已過期")
	errCouponUsedUp     = errors.New("優惠券已達使用上限")
	errCouponMinOrder   = errors.New("未達優惠券最低消費金額")
)

// 檢查優惠券是否可用於指定的小計金額
func ValidateCoupon(coupon *models.Coupon, subtotal uint, now time.Time) error {
	if !coupon.Active {
		return errCouponInactive
	}
	if !coupon.ValidFrom.IsZero() && now.Before(coupon.ValidFrom) {
		return errCouponNotStarted
	}
	if !coupon.ValidUntil.IsZero() && now.After(coupon.ValidUntil) {
		return errCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return errCouponUsedUp
	}
	if subtotal < coupon.MinOrder {
		return errCouponMinOrder
	}
	return nil
}

// 計算優惠券折扣金額，折扣不超過小計
func ComputeDiscount(coupon *models.Coupon, subtotal uint) uint {
	var discount uint
	switch coupon.Type {
	case models.CouponTypePercent:
		discount = subtotal * coupon.Value / 100
	case models.CouponTypeFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// 計算購物車小計
func cartSubtotal(cart *models.Cart) uint {
	subtotal := uint(0)
	for _, cartItem := range cart.CartItems {
		subtotal += cartItem.Product.Price * cartItem.Quantity
	}
	return subtotal
}

// 套用優惠券至購物車
func ApplyCouponHandler(c *gin.Context, db *gorm.DB) {
	var couponReq struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&couponReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	cart, ok := findCart(c, db, true)
	if !ok {
		return
	}

	if len(cart.CartItems) == 0 {
		respondFail(c, http.StatusBadRequest, CodeEmptyCart, "購物車是空的")
		return
	}

	var coupon models.Coupon
	err := db.Where("code = ?", couponReq.Code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusBadRequest, CodeCouponInvalid, "查無此優惠券")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢優惠券失敗", err)
		return
	}

	subtotal := cartSubtotal(cart)
	if err := ValidateCoupon(&coupon, subtotal, time.Now()); err != nil {
		respondFail(c, http.StatusBadRequest, CodeCouponInvalid, err.Error())
		return
	}

	//將優惠券記錄在購物車上，使用次數於結帳時才累計
	discount := ComputeDiscount(&coupon, subtotal)
	err = db.Model(cart).Updates(map[string]interface{}{
		"coupon_code":     coupon.Code,
		"coupon_discount": discount,
	}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "套用優惠券失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功套用優惠券", gin.H{
		"couponCode": coupon.Code,
		"discount":   discount,
		"subtotal":   subtotal,
		"total":      subtotal - discount,
	})
}

// 移除購物車上的優惠券
func RemoveCouponHandler(c *gin.Context, db *gorm.DB) {
	cart, ok := findCart(c, db, false)
	if !ok {
		return
	}

	if cart.CouponCode == "" {
		respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "購物車沒有套用優惠券")
		return
	}

	err := db.Model(cart).Updates(map[string]interface{}{
		"coupon_code":     "",
		"coupon_discount": 0,
	}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "移除優惠券失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功移除優惠券", nil)
}
