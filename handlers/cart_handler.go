package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"net/http"
)

// 單一購物車商品數量上限
const maxCartItemQuantity = 100

func generateAnonymousCartID() string {
	id := uuid.New()
	return id.String()
}

// 從Cookie讀取匿名購物車ID
func getAnonymousCartID(c *gin.Context) string {
	anonymousCartID, err := c.Request.Cookie("anonymous_cart_id")
	if err != nil {
		return ""
	}
	return anonymousCartID.Value
}

// 儲存匿名購物車ID至Cookie
func setAnonymousCartID(c *gin.Context, cartID string) {
	cookie := http.Cookie{
		Name:     "anonymous_cart_id",
		Value:    cartID,
		Path:     "/",
		HttpOnly: true,
	}
	http.SetCookie(c.Writer, &cookie)
}

// 依登入狀態查詢購物車，未登入則使用匿名購物車Cookie
func findCart(c *gin.Context, db *gorm.DB, preloadItems bool) (*models.Cart, bool) {
	userID, login := c.Get("UserID")

	query := db
	if !login {
		anonymousCartID := getAnonymousCartID(c)
		if anonymousCartID == "" {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "尚未建立匿名購物車")
			return nil, false
		}
		query = query.Where("anonymous_cart_uuid = ?", anonymousCartID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if preloadItems {
		query = query.Preload("CartItems").Preload("CartItems.Product")
	}

	var cart models.Cart
	err := query.First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此購物車")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車失敗", err)
		return nil, false
	}

	return &cart, true
}

func AddToCartHandler(c *gin.Context, db *gorm.DB) {
	var cartItemReq struct {
		ProductID uint `json:"productID"`
		Quantity  uint `json:"quantity"`
	}
	err := c.BindJSON(&cartItemReq)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	if cartItemReq.Quantity < 1 || cartItemReq.Quantity > maxCartItemQuantity {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "商品數量必須介於1到100之間")
		return
	}

	userID, login := c.Get("UserID")
	var cart models.Cart
	query := db
	if !login {
		//判斷是否已有匿名購物車
		anonymousCartID := getAnonymousCartID(c)
		if anonymousCartID == "" {
			newAnonymousCartID := generateAnonymousCartID()
			setAnonymousCartID(c, newAnonymousCartID)

			//新增匿名購物車
			newCart := &models.Cart{
				UserID:            0,
				AnonymousCartUUID: newAnonymousCartID,
			}
			result := db.Create(&newCart)
			if result.Error != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "新增購物車失敗", result.Error)
				return
			}
			cart.ID = newCart.ID
		} else {
			query = query.Where("anonymous_cart_uuid = ?", anonymousCartID)
		}
	} else {
		query = query.Where("user_id = ?", userID)
	}

	//查詢購物車ID
	err = query.
		FirstOrCreate(&cart).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車失敗", err)
		return
	}

	//查詢商品庫存數量
	var productStock uint
	err = db.
		Model(&models.Product{}).
		Select("Stock").
		Where("id = ?", cartItemReq.ProductID).
		First(&productStock).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "查無此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢商品庫存錯誤", err)
		return
	}

	//沒有庫存的商品不能加入購物車
	if productStock == 0 {
		respondFail(c, http.StatusBadRequest, CodeOutOfStock, "商品庫存不足")
		return
	}

	//新增商品至購物車
	var cartItem models.CartItem
	err = db.
		Where("product_id = ? AND cart_id = ?", cartItemReq.ProductID, cart.ID).
		First(&cartItem).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			//購物車沒有相同物品，新增此物品至購物車
			if cartItemReq.Quantity > productStock {
				cartItemReq.Quantity = productStock
			}
			err := db.Create(&models.CartItem{
				CartID:    cart.ID,
				ProductID: cartItemReq.ProductID,
				Quantity:  cartItemReq.Quantity,
			}).Error
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "新增物品至購物車失敗", err)
				return
			}

			respondOK(c, http.StatusOK, "成功新增物品至購物車", gin.H{
				"productID": cartItemReq.ProductID,
				"quantity":  cartItemReq.Quantity,
			})
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車商品錯誤", err)
		return
	}

	//購物車有相同物品，增加商品數量
	cartItem.Quantity += cartItemReq.Quantity
	if cartItem.Quantity > productStock {
		cartItem.Quantity = productStock
	}
	if cartItem.Quantity > maxCartItemQuantity {
		cartItem.Quantity = maxCartItemQuantity
	}
	db.Updates(&cartItem)
	respondOK(c, http.StatusOK, "成功更新購物車物品數量", gin.H{
		"productID": cartItem.ProductID,
		"quantity":  cartItem.Quantity,
	})
}

// 更新購物車商品數量
func UpdateCartItemQuantityHandler(c *gin.Context, db *gorm.DB) {
	var cartItemReq struct {
		ProductID uint `json:"productID"`
		Quantity  uint `json:"quantity"`
	}
	err := c.BindJSON(&cartItemReq)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	if cartItemReq.Quantity < 1 || cartItemReq.Quantity > maxCartItemQuantity {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "商品數量必須介於1到100之間")
		return
	}

	cart, ok := findCart(c, db, false)
	if !ok {
		return
	}

	//查詢購物車商品
	var cartItem models.CartItem
	err = db.
		Preload("Product").
		Where("product_id = ? AND cart_id = ?", cartItemReq.ProductID, cart.ID).
		First(&cartItem).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "購物車沒有此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車商品錯誤", err)
		return
	}

	//如果請求的數量大於庫存則更新為庫存數量
	if cartItemReq.Quantity > cartItem.Product.Stock {
		cartItem.Quantity = cartItem.Product.Stock
	} else {
		cartItem.Quantity = cartItemReq.Quantity
	}
	db.Updates(&cartItem)
	respondOK(c, http.StatusOK, "成功更新購物車物品數量", gin.H{
		"productID": cartItem.ProductID,
		"quantity":  cartItem.Quantity,
	})
}

// 刪除購物車商品
func DeleteCartItemHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	cart, ok := findCart(c, db, false)
	if !ok {
		return
	}

	//刪除購物車商品
	var cartItem models.CartItem
	err := db.
		Where("product_id = ? AND cart_id = ?", productID, cart.ID).
		Delete(&cartItem).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除購物車商品錯誤", err)
		return
	}

	respondOK(c, http.StatusOK, "成功刪除購物車物品", gin.H{
		"productID": productID,
	})
}

func MergeCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	//判斷是否已有匿名購物車
	anonymousCartID := getAnonymousCartID(c)
	if anonymousCartID == "" {
		respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "尚未建立匿名購物車，無須合併")
		return
	}

	//查詢匿名購物車
	var anonymousCart models.Cart
	err := db.
		Where("anonymous_cart_uuid = ?", anonymousCartID).
		Preload("CartItems").
		Preload("CartItems.Product").
		First(&anonymousCart).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢匿名購物車失敗", err)
		return
	}

	//查詢會員購物車
	var cart models.Cart
	err = db.
		Where("user_id = ?", userID).
		Preload("CartItems").
		Preload("CartItems.Product").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			//會員還沒有購物車，直接以匿名購物車內容建立
			cartItems := make([]models.CartItem, len(anonymousCart.CartItems))
			for i, anonCartItem := range anonymousCart.CartItems {
				cartItems[i].ProductID = anonCartItem.ProductID
				cartItems[i].Quantity = anonCartItem.Quantity
			}
			cart = models.Cart{
				UserID:    userID.(uint),
				CartItems: cartItems,
			}
			err := db.Create(&cart).Error
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "合併購物車商品失敗", err)
				return
			}
		} else {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車失敗", err)
			return
		}
	} else {
		//檢查重複商品並合併購物車商品
		for _, anonCartItem := range anonymousCart.CartItems {
			itemExists := false
			for _, cartItem := range cart.CartItems {
				if cartItem.ProductID == anonCartItem.ProductID {
					itemExists = true
					cartItem.Quantity += anonCartItem.Quantity
					if cartItem.Quantity > cartItem.Product.Stock {
						cartItem.Quantity = cartItem.Product.Stock
					}
					if cartItem.Quantity > maxCartItemQuantity {
						cartItem.Quantity = maxCartItemQuantity
					}
					err := db.Updates(&cartItem).Error
					if err != nil {
						respondError(c, http.StatusInternalServerError, CodeInternalError, "更新購物車商品數量失敗", err)
						return
					}
					break
				}
			}
			if !itemExists {
				cart.CartItems = append(cart.CartItems, models.CartItem{
					CartID:    cart.ID,
					ProductID: anonCartItem.ProductID,
					Quantity:  anonCartItem.Quantity,
				})
			}
		}

		err := db.Updates(&cart).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "合併購物車商品失敗", err)
			return
		}
	}

	err = db.Where("cart_id = ?", &anonymousCart.ID).Delete(&models.CartItem{}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "成功合併購物車商品，清空匿名購物車失敗", err)
		return
	}

	err = db.Delete(&anonymousCart).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "成功合併購物車商品且清空匿名購物車，刪除匿名購物車失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功合併商品至購物車且刪除匿名購物車", nil)
}

func GetCartHandler(c *gin.Context, db *gorm.DB) {
	cart, ok := findCart(c, db, true)
	if !ok {
		return
	}

	var cartItemsData []gin.H
	subtotal := uint(0)
	for _, cartItem := range cart.CartItems {
		cartItemsData = append(cartItemsData, gin.H{
			"ProductID": cartItem.Product.ID,
			"Name":      cartItem.Product.Name,
			"Price":     cartItem.Product.Price,
			"ImageURL":  cartItem.Product.ImageURL,
			"Quantity":  cartItem.Quantity,
			"Stock":     cartItem.Product.Stock,
		})
		subtotal += cartItem.Product.Price * cartItem.Quantity
	}

	total := subtotal
	if cart.CouponDiscount < total {
		total -= cart.CouponDiscount
	} else {
		total = 0
	}

	respondOK(c, http.StatusOK, "成功查詢購物車", gin.H{
		"cartItemsData":  cartItemsData,
		"subtotal":       subtotal,
		"couponCode":     cart.CouponCode,
		"couponDiscount": cart.CouponDiscount,
		"total":          total,
	})
}

func ClearCartHandler(c *gin.Context, db *gorm.DB) {
	cart, ok := findCart(c, db, false)
	if !ok {
		return
	}

	err := db.Where("cart_id = ?", &cart.ID).Delete(&models.CartItem{}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "清空購物車失敗", err)
		return
	}

	//連同已套用的優惠券一併清除
	err = db.Model(cart).Updates(map[string]interface{}{
		"coupon_code":     "",
		"coupon_discount": 0,
	}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "清除優惠券失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功清空購物車", nil)
}
