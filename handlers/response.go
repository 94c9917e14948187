package handlers

import "github.com/gin-gonic/gin"

const adminRole = "admin"

// 機器可讀的錯誤代碼
const (
	CodeValidationError         = "VALIDATION_ERROR"
	CodeResourceNotFound        = "RESOURCE_NOT_FOUND"
	CodeRateLimitExceeded       = "RATE_LIMIT_EXCEEDED"
	CodeOutOfStock              = "OUT_OF_STOCK"
	CodeEmptyCart               = "EMPTY_CART"
	CodeAdminOnly               = "ADMIN_ONLY"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeTokenInvalid            = "TOKEN_INVALID"
	CodeCouponInvalid           = "COUPON_INVALID"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeAlreadyProcessed        = "ALREADY_PROCESSED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// 成功回應
func respondOK(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// 失敗回應
func respondFail(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// 失敗回應並附上錯誤內容
func respondError(c *gin.Context, status int, code string, message string, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
		"error":   err.Error(),
	})
}
