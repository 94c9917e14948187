package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 查詢商品評價列表
func GetProductReviewsHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var reviews []models.Review
	err := db.
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢評價失敗", err)
		return
	}

	var reviewsData []gin.H
	for _, review := range reviews {
		reviewsData = append(reviewsData, gin.H{
			"ReviewID":         review.ID,
			"Username":         review.User.Username,
			"Rating":           review.Rating,
			"Comment":          review.Comment,
			"HelpfulCount":     review.HelpfulCount,
			"VerifiedPurchase": review.VerifiedPurchase,
			"CreatedAt":        review.CreatedAt,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢評價", gin.H{
		"reviews": reviewsData,
	})
}

// 新增商品評價，每人每商品限一則
func CreateReviewHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var reviewReq struct {
		ProductID uint   `json:"productID" binding:"required"`
		Rating    uint   `json:"rating" binding:"required"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&reviewReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	if reviewReq.Rating < 1 || reviewReq.Rating > 5 {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "評分必須介於1到5之間")
		return
	}

	//檢查商品是否存在
	var product models.Product
	err := db.First(&product, "id = ?", reviewReq.ProductID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "查無此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢商品失敗", err)
		return
	}

	//檢查是否已評價過
	var existing models.Review
	err = db.Where("product_id = ? AND user_id = ?", reviewReq.ProductID, userID).First(&existing).Error
	if err == nil {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "已評價過此商品")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢評價失敗", err)
		return
	}

	//檢查是否有購買紀錄，有則標記為已驗證購買
	var purchaseCount int64
	err = db.
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, reviewReq.ProductID).
		Count(&purchaseCount).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢購買紀錄失敗", err)
		return
	}

	review := models.Review{
		ProductID:        reviewReq.ProductID,
		UserID:           userID.(uint),
		Rating:           reviewReq.Rating,
		Comment:          reviewReq.Comment,
		VerifiedPurchase: purchaseCount > 0,
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "新增評價失敗", err)
		return
	}

	//更新商品的平均評分與評價數
	newCount := product.ReviewCount + 1
	newRating := (product.Rating*float64(product.ReviewCount) + float64(reviewReq.Rating)) / float64(newCount)
	err = tx.Model(&product).Updates(map[string]interface{}{
		"rating":       newRating,
		"review_count": newCount,
	}).Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新商品評分失敗", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功新增評價", gin.H{
		"ReviewID":         review.ID,
		"VerifiedPurchase": review.VerifiedPurchase,
	})
}

// 評價按讚
func MarkReviewHelpfulHandler(c *gin.Context, db *gorm.DB) {
	reviewID := c.Param("reviewID")

	result := db.
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新評價失敗", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此評價")
		return
	}

	respondOK(c, http.StatusOK, "成功按讚", nil)
}
