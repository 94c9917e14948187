package handlers

import (
	"agromart/models"
	"encoding/json"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"log"
	"net/http"
	"strconv"
)

const productsCacheKey = "products"

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// 更新Redis中的單一商品資料
func UpdateProductToRedis(c *gin.Context, rdb *redis.Client, product *models.Product) (error, string) {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return err, "無法序列化商品資料"
	}

	score := strconv.Itoa(int(product.ID))
	err = rdb.ZRemRangeByScore(c, productsCacheKey, score, score).Err()
	if err != nil {
		return err, "無法將商品資料從Redis刪除"
	}

	err = rdb.ZAdd(c, productsCacheKey, redis.Z{
		Score:  float64(product.ID),
		Member: productJSON,
	}).Err()
	if err != nil {
		return err, "無法將商品資料加入Redis"
	}

	return nil, ""
}

// 查詢商品列表
func GetProductListHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	limit := c.DefaultQuery("limit", "10")
	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "查詢數量輸入錯誤", err)
		return
	}
	//限制最高查詢數量為50
	if limitInt > 50 {
		limitInt = 50
	}

	offset := c.DefaultQuery("offset", "0")
	offsetInt, err := strconv.Atoi(offset)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "offset輸入錯誤", err)
		return
	}

	//嘗試從Redis讀取商品列表，如失敗則從資料庫讀取並儲存至Redis
	redisProducts, err := rdb.ZRange(c, productsCacheKey, int64(offsetInt), int64(offsetInt+limitInt-1)).Result()
	if err != nil || rdb.ZCard(c, productsCacheKey).Val() == 0 {
		var products []models.Product
		err = db.Preload("Categories").Find(&products).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "無法讀取商品列表", err)
			return
		}

		rdb.Del(c, productsCacheKey)

		for _, product := range products {
			productJSON, err := json.Marshal(product)
			if err != nil {
				log.Printf("無法序列化商品資料: %v\n", err)
				continue
			}

			err = rdb.ZAdd(c, productsCacheKey, redis.Z{
				Score:  float64(product.ID),
				Member: productJSON,
			}).Err()
			if err != nil {
				log.Printf("無法將商品資料加入Redis: %v\n", err)
				continue
			}
		}

		//再次嘗試從Redis讀取商品列表
		redisProducts, err = rdb.ZRange(c, productsCacheKey, int64(offsetInt), int64(offsetInt+limitInt-1)).Result()
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "無法從Redis讀取商品列表", err)
			return
		}
	}

	var productsData []gin.H
	for _, redisProduct := range redisProducts {
		var productUnmarshal models.Product
		err = json.Unmarshal([]byte(redisProduct), &productUnmarshal)
		if err != nil {
			log.Printf("無法反序列化商品資料: %v\n", err)
			continue
		}

		productsData = append(productsData, gin.H{
			"ID":            productUnmarshal.ID,
			"Name":          productUnmarshal.Name,
			"Slug":          productUnmarshal.Slug,
			"Price":         productUnmarshal.Price,
			"OriginalPrice": productUnmarshal.OriginalPrice,
			"Stock":         productUnmarshal.Stock,
			"Rating":        productUnmarshal.Rating,
			"ReviewCount":   productUnmarshal.ReviewCount,
			"ImageURL":      productUnmarshal.ImageURL,
		})
	}

	respondOK(c, http.StatusOK, "成功讀取商品列表", gin.H{
		"products":   productsData,
		"totalCount": rdb.ZCard(c, productsCacheKey).Val(),
	})
}

// 搜尋完整包含標籤的所有商品
func GetProductsFromCategoriesHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	limit := c.DefaultQuery("limit", "10")
	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "查詢數量輸入錯誤", err)
		return
	}
	//限制最高查詢數量為50
	if limitInt > 50 {
		limitInt = 50
	}

	offset := c.DefaultQuery("offset", "0")
	offsetInt, err := strconv.Atoi(offset)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "offset輸入錯誤", err)
		return
	}

	var categoriesReq []struct {
		CategoryID uint `json:"categoryID" binding:"required"`
	}
	err = c.ShouldBindJSON(&categoriesReq)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	redisProducts, err := rdb.ZRange(c, productsCacheKey, 0, -1).Result()
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法取得商品列表", err)
		return
	}

	//遍歷從Redis讀出的商品列表，找出含有所有標籤的商品
	var productsData []gin.H
	for _, redisProduct := range redisProducts {
		var productUnmarshal models.Product
		err = json.Unmarshal([]byte(redisProduct), &productUnmarshal)
		if err != nil {
			log.Printf("無法反序列化商品資料: %v\n", err)
			continue
		}

		hasAllTags := true

		for _, categoryReq := range categoriesReq {
			found := false
			for _, productCategory := range productUnmarshal.Categories {
				if productCategory.ID == categoryReq.CategoryID {
					found = true
					break
				}
			}
			if !found {
				hasAllTags = false
				break
			}
		}

		if hasAllTags {
			categoriesData := make([]gin.H, len(productUnmarshal.Categories))
			for i, category := range productUnmarshal.Categories {
				categoriesData[i] = gin.H{
					"name": category.Name,
					"ID":   category.ID,
				}
			}
			productsData = append(productsData, gin.H{
				"ID":         productUnmarshal.ID,
				"name":       productUnmarshal.Name,
				"slug":       productUnmarshal.Slug,
				"price":      productUnmarshal.Price,
				"stock":      productUnmarshal.Stock,
				"imageURL":   productUnmarshal.ImageURL,
				"Categories": categoriesData,
			})
		}
	}

	totalCount := len(productsData)

	//預防offset跟limit超出搜尋結果切片
	if offsetInt >= totalCount {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "offset超過商品數量")
		return
	}

	respondOK(c, http.StatusOK, "成功讀取商品列表", gin.H{
		"products":   productsData[offsetInt:min(offsetInt+limitInt, totalCount)],
		"totalCount": totalCount,
	})
}

// 查詢商品詳細資料
func GetProductDataHandler(c *gin.Context, db *gorm.DB) {
	productID := c.Param("productID")

	var product struct {
		ID            uint
		Name          string
		Slug          string
		Price         uint
		OriginalPrice uint
		Stock         uint
		Description   string
		ImageURL      string
		Rating        float64
		ReviewCount   uint
	}
	err := db.Model(&models.Product{}).Where("id = ?", productID).First(&product).Error
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

// 查詢商品標籤列表
func GetCategoryListHandler(c *gin.Context, db *gorm.DB) {
	var categories []struct {
		Id   uint
		Name string
		Icon string
	}
	err := db.
		Model(&models.Category{}).
		Select("Id", "Name", "Icon").
		Find(&categories).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法讀取商品標籤列表", err)
		return
	}

	respondOK(c, http.StatusOK, "成功讀取商品標籤列表", gin.H{
		"categories": categories,
	})
}
