package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"agromart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 沒有庫存的商品不能加入購物車
func TestAddToCartHandlerOutOfStock(t *testing.T) {
	db := newTestDB(t)
	product := models.Product{Name: "有機蘋果", Slug: "organic-apple", Price: 100, Stock: 0}
	require.NoError(t, db.Create(&product).Error)

	c, recorder := newJSONTestContext(t, fmt.Sprintf(`{"productID":%d,"quantity":1}`, product.ID))
	c.Set("UserID", uint(1))

	AddToCartHandler(c, db)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "OUT_OF_STOCK")

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 數量超過庫存時收斂到庫存上限
func TestAddToCartHandlerClampsToStock(t *testing.T) {
	db := newTestDB(t)
	product := models.Product{Name: "有機蘋果", Slug: "organic-apple", Price: 100, Stock: 3}
	require.NoError(t, db.Create(&product).Error)

	c, recorder := newJSONTestContext(t, fmt.Sprintf(`{"productID":%d,"quantity":5}`, product.ID))
	c.Set("UserID", uint(1))

	AddToCartHandler(c, db)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var cartItem models.CartItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&cartItem).Error)
	assert.Equal(t, uint(3), cartItem.Quantity)
}
