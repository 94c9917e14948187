package handlers

import (
	"agromart/models"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"log"
	"net/http"
	"time"
)

// 送出訂單：以購物車內容建立訂單，鎖定並扣減庫存，結帳後清空購物車
func SendOrderHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var orderReq struct {
		Name           string `json:"name" binding:"required"`
		Address        string `json:"address" binding:"required"`
		Phone          string `json:"phone" binding:"required"`
		ShippingMethod string `json:"shippingMethod" binding:"required"`
		PaymentMethod  string `json:"paymentMethod" binding:"required"`
	}

	err := c.ShouldBindJSON(&orderReq)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "取得訂單資料錯誤", err)
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
			respondFail(c, http.StatusBadRequest, CodeEmptyCart, "購物車是空的")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購物車失敗", err)
		return
	}

	//空購物車不建立任何訂單
	if len(cart.CartItems) == 0 {
		respondFail(c, http.StatusBadRequest, CodeEmptyCart, "購物車是空的")
		return
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	var orderItems []models.OrderItem
	var orderProductIDs []uint
	subtotal := uint(0)

	for _, cartItem := range cart.CartItems {
		var product models.Product
		if err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", cartItem.ProductID).
			First(&product).
			Error; err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢庫存失敗", err)
			return
		}

		if product.Stock < cartItem.Quantity {
			tx.Rollback()
			respondFail(c, http.StatusBadRequest, CodeOutOfStock, "商品庫存不足")
			return
		}

		product.Stock -= cartItem.Quantity
		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "更新庫存失敗", err)
			return
		}

		err, msg := UpdateProductToRedis(c, rdb, &product)
		if err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, msg, err)
			return
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: product.Price,
		})
		orderProductIDs = append(orderProductIDs, cartItem.ProductID)
		subtotal += product.Price * cartItem.Quantity
	}

	//結帳時重新驗證優惠券並累計使用次數
	discount := uint(0)
	couponCode := ""
	if cart.CouponCode != "" {
		var coupon models.Coupon
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("code = ?", cart.CouponCode).
			First(&coupon).Error
		if err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢優惠券失敗", err)
			return
		}

		if err := ValidateCoupon(&coupon, subtotal, time.Now()); err != nil {
			tx.Rollback()
			respondFail(c, http.StatusBadRequest, CodeCouponInvalid, err.Error())
			return
		}

		discount = ComputeDiscount(&coupon, subtotal)
		couponCode = coupon.Code

		coupon.UsedCount++
		if err := tx.Save(&coupon).Error; err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "更新優惠券使用次數失敗", err)
			return
		}
	}

	newOrder := models.Order{
		UserID:         userID.(uint),
		OrderItems:     orderItems,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal - discount,
		CouponCode:     couponCode,
		ShippingMethod: orderReq.ShippingMethod,
		PaymentMethod:  orderReq.PaymentMethod,
		Name:           orderReq.Name,
		Address:        orderReq.Address,
		Phone:          orderReq.Phone,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}

	err = tx.Create(&newOrder).Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交訂單失敗", err)
		log.Printf("提交訂單失敗 Error: %s, %v", err.Error(), newOrder.OrderItems)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	//清除購物車對應商品與優惠券
	err = db.
		Where("cart_id = ? AND product_id IN ?", cart.ID, orderProductIDs).
		Delete(&models.CartItem{}).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "訂單已送出，但清除購物車對應商品失敗", err)
		return
	}

	err = db.Model(&cart).Updates(map[string]interface{}{
		"coupon_code":     "",
		"coupon_discount": 0,
	}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "訂單已送出，但清除購物車優惠券失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "訂單已送出，成功清除購物車對應商品", gin.H{
		"orderID":  newOrder.ID,
		"subtotal": newOrder.Subtotal,
		"discount": newOrder.Discount,
		"total":    newOrder.Total,
	})
}

func GetOrderListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var orders []models.Order
	err := db.Where("user_id = ?", userID).Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單列表失敗", err)
		return
	}

	var orderList []gin.H
	for _, order := range orders {
		orderList = append(orderList, gin.H{
			"OrderID":        order.ID,
			"OrderTime":      order.CreatedAt,
			"ShippingMethod": order.ShippingMethod,
			"Total":          order.Total,
			"Status":         order.Status,
			"PaymentStatus":  order.PaymentStatus,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢訂單列表", gin.H{
		"orderList": orderList,
	})
}

// 查詢訂單並確認屬於目前使用者
func findUserOrder(c *gin.Context, db *gorm.DB, preloadItems bool) (*models.Order, bool) {
	orderID := c.Param("orderID")
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return nil, false
	}

	query := db.Where("id = ? AND user_id = ?", orderID, userID)
	if preloadItems {
		query = query.Preload("OrderItems").Preload("OrderItems.Product")
	}

	var order models.Order
	err := query.First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此訂單")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單失敗", err)
		return nil, false
	}

	return &order, true
}

func GetOrderDataHandler(c *gin.Context, db *gorm.DB) {
	order, ok := findUserOrder(c, db, true)
	if !ok {
		return
	}

	var orderItemsData []gin.H
	for _, orderItem := range order.OrderItems {
		orderItemsData = append(orderItemsData, gin.H{
			"ProductID": orderItem.Product.ID,
			"Name":      orderItem.Product.Name,
			"Price":     orderItem.UnitPrice,
			"ImageURL":  orderItem.Product.ImageURL,
			"Quantity":  orderItem.Quantity,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢訂單", gin.H{
		"OrderID":        order.ID,
		"Name":           order.Name,
		"Address":        order.Address,
		"Phone":          order.Phone,
		"ShippingMethod": order.ShippingMethod,
		"PaymentMethod":  order.PaymentMethod,
		"Subtotal":       order.Subtotal,
		"Discount":       order.Discount,
		"Total":          order.Total,
		"OrderTime":      order.CreatedAt,
		"Status":         order.Status,
		"PaymentStatus":  order.PaymentStatus,
		"orderItemsData": orderItemsData,
	})
}

// 查詢訂單物流狀態
func GetOrderTrackingHandler(c *gin.Context, db *gorm.DB) {
	order, ok := findUserOrder(c, db, false)
	if !ok {
		return
	}

	respondOK(c, http.StatusOK, "成功查詢物流狀態", gin.H{
		"OrderID":        order.ID,
		"Status":         order.Status,
		"TrackingNumber": order.TrackingNumber,
		"ShippingMethod": order.ShippingMethod,
		"UpdatedAt":      order.UpdatedAt,
	})
}

// 查詢訂單收據
func GetOrderInvoiceHandler(c *gin.Context, db *gorm.DB) {
	order, ok := findUserOrder(c, db, true)
	if !ok {
		return
	}

	var lines []gin.H
	for _, orderItem := range order.OrderItems {
		lines = append(lines, gin.H{
			"Name":      orderItem.Product.Name,
			"UnitPrice": orderItem.UnitPrice,
			"Quantity":  orderItem.Quantity,
			"Amount":    orderItem.UnitPrice * orderItem.Quantity,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢收據", gin.H{
		"InvoiceNumber": fmt.Sprintf("AGM-%06d", order.ID),
		"OrderID":       order.ID,
		"IssuedAt":      order.CreatedAt,
		"Name":          order.Name,
		"Address":       order.Address,
		"Lines":         lines,
		"Subtotal":      order.Subtotal,
		"Discount":      order.Discount,
		"CouponCode":    order.CouponCode,
		"Total":         order.Total,
		"PaymentMethod": order.PaymentMethod,
		"PaymentStatus": order.PaymentStatus,
	})
}

// 取消訂單，僅限尚未出貨的訂單
func CancelOrderHandler(c *gin.Context, db *gorm.DB) {
	order, ok := findUserOrder(c, db, true)
	if !ok {
		return
	}

	if !CanTransitionOrderStatus(order.Status, models.OrderStatusCancelled) {
		respondFail(c, http.StatusBadRequest, CodeInvalidStatusTransition, "此訂單狀態無法取消")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	//歸還庫存
	for _, orderItem := range order.OrderItems {
		err := tx.
			Model(&models.Product{}).
			Where("id = ?", orderItem.ProductID).
			Update("stock", gorm.Expr("stock + ?", orderItem.Quantity)).
			Error
		if err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "歸還庫存失敗", err)
			return
		}
	}

	order.Status = models.OrderStatusCancelled
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "取消訂單失敗", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功取消訂單", gin.H{
		"OrderID": order.ID,
		"Status":  order.Status,
	})
}
