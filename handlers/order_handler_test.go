package handlers

import (
	"net/http"
	"testing"

	"agromart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutBody = `{"name":"王小明","address":"台北市信義區","phone":"0912345678","shippingMethod":"home","paymentMethod":"card"}`

// 沒有購物車時結帳必須失敗，不能建立任何訂單
func TestSendOrderHandlerNoCart(t *testing.T) {
	db := newTestDB(t)
	c, recorder := newJSONTestContext(t, checkoutBody)
	c.Set("UserID", uint(1))

	SendOrderHandler(c, db, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "EMPTY_CART")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 購物車是空的時結帳必須失敗，不能建立任何訂單
func TestSendOrderHandlerEmptyCart(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Cart{UserID: 1}).Error)

	c, recorder := newJSONTestContext(t, checkoutBody)
	c.Set("UserID", uint(1))

	SendOrderHandler(c, db, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "EMPTY_CART")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
