package handlers

import (
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 查詢收件地址列表
func GetAddressListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var addresses []models.Address
	err := db.Where("user_id = ?", userID).Find(&addresses).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢地址列表失敗", err)
		return
	}

	var addressList []gin.H
	for _, address := range addresses {
		addressList = append(addressList, gin.H{
			"AddressID":  address.ID,
			"Recipient":  address.Recipient,
			"Phone":      address.Phone,
			"Line":       address.Line,
			"City":       address.City,
			"PostalCode": address.PostalCode,
			"IsDefault":  address.IsDefault,
		})
	}

	respondOK(c, http.StatusOK, "成功查詢地址列表", gin.H{
		"addresses": addressList,
	})
}

// 清除此使用者其他地址的預設標記，同一使用者只能有一個預設地址
func clearDefaultAddress(tx *gorm.DB, userID interface{}) error {
	return tx.
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).
		Error
}

// 新增收件地址
func CreateAddressHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var addressReq struct {
		Recipient  string `json:"recipient" binding:"required"`
		Phone      string `json:"phone" binding:"required"`
		Line       string `json:"line" binding:"required"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postalCode"`
		IsDefault  bool   `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&addressReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	if addressReq.IsDefault {
		if err := clearDefaultAddress(tx, userID); err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternalError, "更新預設地址失敗", err)
			return
		}
	}

	address := models.Address{
		UserID:     userID.(uint),
		Recipient:  addressReq.Recipient,
		Phone:      addressReq.Phone,
		Line:       addressReq.Line,
		City:       addressReq.City,
		PostalCode: addressReq.PostalCode,
		IsDefault:  addressReq.IsDefault,
	}
	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "新增地址失敗", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusCreated, "成功新增地址", gin.H{
		"AddressID": address.ID,
	})
}

// 修改收件地址
func UpdateAddressHandler(c *gin.Context, db *gorm.DB) {
	addressID := c.Param("addressID")
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var addressReq struct {
		Recipient  *string `json:"recipient"`
		Phone      *string `json:"phone"`
		Line       *string `json:"line"`
		City       *string `json:"city"`
		PostalCode *string `json:"postalCode"`
		IsDefault  *bool   `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&addressReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var address models.Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此地址")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢地址失敗", err)
		return
	}

	if addressReq.Recipient != nil {
		address.Recipient = *addressReq.Recipient
	}
	if addressReq.Phone != nil {
		address.Phone = *addressReq.Phone
	}
	if addressReq.Line != nil {
		address.Line = *addressReq.Line
	}
	if addressReq.City != nil {
		address.City = *addressReq.City
	}
	if addressReq.PostalCode != nil {
		address.PostalCode = *addressReq.PostalCode
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "開啟資料庫事務失敗", tx.Error)
		return
	}

	if addressReq.IsDefault != nil {
		if *addressReq.IsDefault {
			if err := clearDefaultAddress(tx, userID); err != nil {
				tx.Rollback()
				respondError(c, http.StatusInternalServerError, CodeInternalError, "更新預設地址失敗", err)
				return
			}
		}
		address.IsDefault = *addressReq.IsDefault
	}

	if err := tx.Save(&address).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "修改地址失敗", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternalError, "提交事務失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功修改地址", nil)
}

// 刪除收件地址
func DeleteAddressHandler(c *gin.Context, db *gorm.DB) {
	addressID := c.Param("addressID")
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	result := db.Delete(&models.Address{}, "id = ? AND user_id = ?", addressID, userID)
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "刪除地址失敗", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此地址")
		return
	}

	respondOK(c, http.StatusOK, "成功刪除地址", nil)
}
