package handlers

import (
	"agromart/models"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func isValidImageExtensions(file *multipart.FileHeader) bool {
	allowExtensions := []string{".jpg", ".jpeg", ".png"}
	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	fileExt := filepath.Ext(file.Filename)
	fileBase := strings.TrimSuffix(file.Filename, fileExt)
	return fmt.Sprintf("%s_%d%s", fileBase, time.Now().UnixNano(), fileExt)
}

// 查詢使用者列表
func GetUserListHandler(c *gin.Context, db *gorm.DB) {
	//嘗試獲取使用者列表
	var userList []struct {
		Id       uint
		Username string
		Email    string
		Role     string
	}
	err := db.
		Model(&models.User{}).
		Select("Id", "Username", "Email", "Role").
		Find(&userList).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法獲取使用者列表", err)
		return
	}

	//檢查使用者列表是否為空
	if len(userList) == 0 {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "使用者列表為空")
		return
	}

	//成功獲取使用者列表
	respondOK(c, http.StatusOK, "成功獲取使用者列表", gin.H{
		"userList": userList,
	})
}

func GetProductAllDataHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var product models.Product
	err := db.Preload("Categories").First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢商品資料失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功查詢商品資料", gin.H{
		"product": product,
	})
}

func UploadImageHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定圖片失敗", err)
		return
	}

	if !isValidImageExtensions(file) {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "圖片檔案格式錯誤")
		return
	}

	uploadsDir := "./uploads"
	//檢查uploads資料夾是否存在，如不存在則創建
	_, err = os.Stat(uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.Mkdir(uploadsDir, 0755); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "建立uploads資料夾失敗", err)
				return
			}
		} else {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "檢查uploads資料夾失敗", err)
			return
		}
	}

	imageName := makeUniqueFileName(file)
	filePath := filepath.Join(uploadsDir, imageName)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "儲存圖片失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功上傳圖片", gin.H{
		"imagePath": "/" + filepath.ToSlash(filePath),
	})
}

func CreateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var newProduct struct {
		Name          string   `json:"name" binding:"required"`
		Price         uint     `json:"price" binding:"required"`
		OriginalPrice uint     `json:"originalPrice"`
		Stock         uint     `json:"stock" binding:"required"`
		ImageURL      string   `json:"imageURL" binding:"required"`
		Description   string   `json:"description"`
		VendorID      uint     `json:"vendorID"`
		Categories    []string `json:"categories"`
	}
	err := c.ShouldBindJSON(&newProduct)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	//原價不得低於售價
	if newProduct.OriginalPrice != 0 && newProduct.OriginalPrice < newProduct.Price {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "原價不得低於售價")
		return
	}

	//查詢已存在的標籤
	var mergeCategories []models.Category
	err = db.
		Model(&models.Category{}).
		Where("Name IN ?", newProduct.Categories).
		Find(&mergeCategories).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢標籤失敗", err)
		return
	}

	//將尚未建立之標籤加入mergeCategories
	for _, categoryName := range newProduct.Categories {
		exists := false
		for _, mergeCategory := range mergeCategories {
			if categoryName == mergeCategory.Name {
				exists = true
			}
		}
		if !exists {
			mergeCategories = append(mergeCategories, models.Category{
				Name: categoryName,
			})
		}
	}

	product := models.Product{
		Name:          newProduct.Name,
		Slug:          MakeSlug(newProduct.Name),
		Price:         newProduct.Price,
		OriginalPrice: newProduct.OriginalPrice,
		Stock:         newProduct.Stock,
		ImageURL:      newProduct.ImageURL,
		Description:   newProduct.Description,
		VendorID:      newProduct.VendorID,
		Categories:    mergeCategories,
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	err = tx.Create(&product).Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "新增商品失敗", err)
		return
	}

	err, msg := UpdateProductToRedis(c, rdb, &product)
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, msg, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功新增商品", gin.H{
		"product": product,
	})
}

func UpdateProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var productDataReq struct {
		Name          *string  `json:"name"`
		Price         *uint    `json:"price"`
		OriginalPrice *uint    `json:"originalPrice"`
		Stock         *uint    `json:"stock"`
		ImageURL      *string  `json:"imageURL"`
		Description   *string  `json:"description"`
		Categories    []string `json:"categories"`
	}
	err := c.ShouldBind(&productDataReq)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var product models.Product
	err = db.First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢商品失敗", err)
		return
	}

	if len(productDataReq.Categories) > 0 {
		err = db.Model(&product).Association("Categories").Clear()
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "清除商品標籤關聯失敗", err)
			return
		}

		//查詢每個標籤，如不存在就創建
		var categories []models.Category
		for _, categoryName := range productDataReq.Categories {
			var category models.Category
			err = db.
				Model(&models.Category{}).
				Where("Name = ?", categoryName).
				FirstOrCreate(&category).
				Error
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢標籤失敗", err)
				return
			}
			categories = append(categories, category)
		}

		product.Categories = categories
	}

	if productDataReq.Name != nil {
		product.Name = *productDataReq.Name
		product.Slug = MakeSlug(*productDataReq.Name)
	}
	if productDataReq.Price != nil {
		product.Price = *productDataReq.Price
	}
	if productDataReq.OriginalPrice != nil {
		product.OriginalPrice = *productDataReq.OriginalPrice
	}
	if productDataReq.Stock != nil {
		product.Stock = *productDataReq.Stock
	}
	if productDataReq.ImageURL != nil {
		product.ImageURL = *productDataReq.ImageURL
	}
	if productDataReq.Description != nil {
		product.Description = *productDataReq.Description
	}

	//原價不得低於售價
	if product.OriginalPrice != 0 && product.OriginalPrice < product.Price {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "原價不得低於售價")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	result := tx.Save(&product)
	err = result.Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "修改商品失敗", err)
		return
	}

	err, msg := UpdateProductToRedis(c, rdb, &product)
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, msg, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	if result.RowsAffected == 0 {
		respondOK(c, http.StatusOK, "沒有變更資料", nil)
		return
	}

	respondOK(c, http.StatusOK, "成功修改商品資料", nil)
}

func DeleteProductHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	productID := c.Param("productID")

	var product models.Product

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	err := tx.Preload("Categories").First(&product, productID).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此商品")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查找此商品失敗", err)
		return
	}

	err = tx.Model(&product).Association("Categories").Clear()
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "清除商品標籤關聯失敗", err)
		return
	}

	err = tx.Delete(&product).Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除商品失敗", err)
		return
	}

	score := strconv.Itoa(int(product.ID))

	err = rdb.ZRemRangeByScore(c, productsCacheKey, score, score).Err()
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法將商品資料從Redis刪除", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功刪除商品", nil)
}

func DeleteCategoryHandler(c *gin.Context, db *gorm.DB) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此標籤")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢商品標籤失敗", err)
		return
	}

	err = db.Model(&category).Association("Products").Clear()
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除商品標籤關聯失敗", err)
		return
	}

	err = db.Delete(&category).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除標籤失敗", err)
		return
	}
	respondOK(c, http.StatusOK, "成功刪除標籤", nil)
}

// 查詢所有訂單(admin)
func GetAllOrdersHandler(c *gin.Context, db *gorm.DB) {
	var orders []models.Order
	err := db.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單列表失敗", err)
		return
	}

	var orderList []gin.H
	for _, order := range orders {
		orderList = append(orderList, gin.H{
			"OrderID":       order.ID,
			"UserID":        order.UserID,
			"OrderTime":     order.CreatedAt,
			"Total":         order.Total,
			"Status":        order.Status,
			"PaymentStatus": order.PaymentStatus,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢訂單列表", gin.H{
		"orderList": orderList,
	})
}

// 更新訂單狀態(admin)，只允許狀態轉移表內的轉移
func UpdateOrderStatusHandler(c *gin.Context, db *gorm.DB) {
	orderID := c.Param("orderID")

	var statusReq struct {
		Status         string  `json:"status" binding:"required"`
		TrackingNumber *string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&statusReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	if !IsValidOrderStatus(statusReq.Status) {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "不合法的訂單狀態")
		return
	}

	var order models.Order
	err := db.First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單失敗", err)
		return
	}

	if !CanTransitionOrderStatus(order.Status, statusReq.Status) {
		respondFail(c, http.StatusBadRequest, CodeInvalidStatusTransition,
			fmt.Sprintf("訂單狀態不可由%s轉為%s", order.Status, statusReq.Status))
		return
	}

	order.Status = statusReq.Status
	if statusReq.TrackingNumber != nil {
		order.TrackingNumber = *statusReq.TrackingNumber
	}

	if err := db.Save(&order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新訂單狀態失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功更新訂單狀態", gin.H{
		"OrderID": order.ID,
		"Status":  order.Status,
	})
}

// 查詢營運統計(admin)：營收、各狀態訂單數、銷量前十商品
func GetAnalyticsHandler(c *gin.Context, db *gorm.DB) {
	//已付款訂單的總營收
	var revenue struct {
		Total uint
	}
	err := db.
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("payment_status = ?", models.PaymentStatusPaid).
		Scan(&revenue).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢營收失敗", err)
		return
	}

	//各狀態的訂單數
	var statusCounts []struct {
		Status string
		Count  int64
	}
	err = db.
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&statusCounts).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單統計失敗", err)
		return
	}

	ordersByStatus := gin.H{}
	for _, statusCount := range statusCounts {
		ordersByStatus[statusCount.Status] = statusCount.Count
	}

	//銷量前十的商品
	var topProducts []struct {
		ProductID uint
		Name      string
		Sold      uint
	}
	err = db.
		Model(&models.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("sold DESC").
		Limit(10).
		Find(&topProducts).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢熱銷商品失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功查詢營運統計", gin.H{
		"revenue":        revenue.Total,
		"ordersByStatus": ordersByStatus,
		"topProducts":    topProducts,
	})
}
