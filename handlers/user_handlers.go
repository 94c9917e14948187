package handlers

import (
	"agromart/jwt"
	"agromart/models"
	"errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"net/http"
	"regexp"
	"time"
	"unicode"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// 檢查使用者名稱是否合法
func ValidateUsername(username string) bool {
	if len(username) < 8 || len(username) > 20 {
		return false
	}
	pattern := "^[a-zA-Z0-9_-]+$"
	matched, _ := regexp.MatchString(pattern, username)
	return matched
}

// 檢查信箱是否合法
func ValidateEmail(email string) bool {
	pattern := "^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$"
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// 檢查密碼是否合法
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper   = false
		isLower   = false
		isNumber  = false
		isSpecial = false
		isSpace   = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		case unicode.IsPunct(s) || unicode.IsSymbol(s):
			isSpecial = true
		default:
		}
	}

	return isUpper && isLower && isNumber && isSpecial && !isSpace
}

// 檢查使用者名稱是否重複
func IsUserNameExists(db *gorm.DB, username string) (bool, error) {
	var user models.User
	err := db.First(&user, "Username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil //使用者名稱沒重複，不代表錯誤
		}
		return false, err //有錯誤
	}
	return true, nil //使用者名稱重複
}

// 檢查Email是否重複
func IsUserEmailExists(db *gorm.DB, email string) (bool, error) {
	var user models.User
	err := db.First(&user, "Email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil //信箱沒重複，不代表錯誤
		}
		return false, err //有錯誤
	}
	return true, nil //信箱重複
}

// 發行並儲存一組access與refresh token
func issueTokenPair(db *gorm.DB, userID uint, role string) (string, string, error) {
	accessExpTime := time.Now().Add(accessTokenTTL)
	accessToken, err := jwt.GenerateToken(userID, role, models.TokenKindAccess, accessExpTime.Unix())
	if err != nil {
		return "", "", err
	}

	refreshExpTime := time.Now().Add(refreshTokenTTL)
	refreshToken, err := jwt.GenerateToken(userID, role, models.TokenKindRefresh, refreshExpTime.Unix())
	if err != nil {
		return "", "", err
	}

	tokens := []models.LoginToken{
		{
			Token:          accessToken,
			Kind:           models.TokenKindAccess,
			ExpirationTime: accessExpTime,
			UserID:         userID,
			Role:           role,
		},
		{
			Token:          refreshToken,
			Kind:           models.TokenKindRefresh,
			ExpirationTime: refreshExpTime,
			UserID:         userID,
			Role:           role,
		},
	}
	if err := db.Create(&tokens).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// 註冊使用者帳戶
func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var newUser models.User
	if err := c.BindJSON(&newUser); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	//檢查使用者名稱是否合法
	if !ValidateUsername(newUser.Username) {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "註冊失敗:不合法的使用者名稱")
		return
	}

	//檢查信箱是否合法
	if !ValidateEmail(newUser.Email) {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "註冊失敗:不合法的信箱")
		return
	}

	//檢查密碼是否合法
	if !ValidatePassword(newUser.Password) {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "註冊失敗:不合法的密碼")
		return
	}

	//檢查使用者名稱是否重複
	result, err := IsUserNameExists(db, newUser.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "註冊失敗:檢查使用者名稱失敗", err)
		return
	}
	if result {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "註冊失敗:使用者名稱已被使用")
		return
	}

	//檢查Email是否重複
	result, err = IsUserEmailExists(db, newUser.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "註冊失敗:檢查信箱失敗", err)
		return
	}
	if result {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "註冊失敗:信箱已被使用")
		return
	}

	//將密碼Hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newUser.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法生成Hashed密碼", err)
		return
	}

	newUser.Password = string(hashedPassword)
	newUser.Role = "user"

	//將newUser儲存到資料庫
	if err := db.Create(&newUser).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "無法儲存使用者資料至資料庫", err)
		return
	}

	//成功註冊
	respondOK(c, http.StatusCreated, "使用者已成功註冊", gin.H{
		"username": newUser.Username,
	})
}

func LoginHandler(c *gin.Context, db *gorm.DB) {
	//檢查是否已經登入
	if _, ok := c.Get("UserID"); ok {
		respondOK(c, http.StatusOK, "已經登入", nil)
		return
	}

	//從請求擷取帳號和密碼
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	//檢查是否有此帳號
	var user models.User
	err := db.First(&user, "Username = ?", loginReq.Username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusBadRequest, CodeValidationError, "找不到此帳號")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "資料庫錯誤", err)
		return
	}

	//檢查密碼是否正確
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password))
	if err != nil {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "密碼錯誤")
		return
	}

	//發行access與refresh token
	accessToken, refreshToken, err := issueTokenPair(db, user.ID, user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "生成JWT Token錯誤", err)
		return
	}

	//成功登入 回傳Token和成功訊息
	c.Header("Authorization", "Bearer "+accessToken)
	respondOK(c, http.StatusOK, "成功登入", gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// 以refresh token換發新的access token，同時輪替refresh token
func RefreshTokenHandler(c *gin.Context, db *gorm.DB) {
	var refreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&refreshReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	userID, role, err := jwt.VerifyToken(&refreshReq.RefreshToken, models.TokenKindRefresh, db)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			respondFail(c, http.StatusUnauthorized, CodeTokenExpired, "Refresh token已過期")
			return
		}
		respondFail(c, http.StatusUnauthorized, CodeTokenInvalid, "Refresh token不合法")
		return
	}

	//舊的refresh token作廢
	err = db.Delete(&models.LoginToken{}, "token = ? AND kind = ?", refreshReq.RefreshToken, models.TokenKindRefresh).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "註銷舊Token失敗", err)
		return
	}

	accessToken, refreshToken, err := issueTokenPair(db, userID, role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "生成JWT Token錯誤", err)
		return
	}

	c.Header("Authorization", "Bearer "+accessToken)
	respondOK(c, http.StatusOK, "成功換發Token", gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token, exists := c.Get("Token")
	if !exists {
		respondFail(c, http.StatusBadRequest, CodeUnauthorized, "無法取得Token")
		return
	}

	userID, _ := c.Get("UserID")

	//刪除access token與此使用者的refresh token
	result := db.Delete(&models.LoginToken{}, "Token = ? OR (user_id = ? AND kind = ?)", token, userID, models.TokenKindRefresh)
	err := result.Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "資料庫錯誤", err)
		return
	}
	if result.RowsAffected == 0 {
		respondFail(c, http.StatusBadRequest, CodeResourceNotFound, "找不到此token或已登出")
		return
	}

	c.Header("Authorization", "")
	respondOK(c, http.StatusOK, "成功登出", nil)
}

// 查詢使用者資料
func GetUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	//嘗試查詢使用者資料
	var user models.User
	err := db.First(&user, "id = ?", userID).Error
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeResourceNotFound, "查詢使用者資料失敗", err)
		return
	}

	//成功查詢使用者資料
	respondOK(c, http.StatusOK, "成功查詢使用者資料", gin.H{
		"user": gin.H{
			"ID":       user.ID,
			"Username": user.Username,
			"Email":    user.Email,
			"Name":     user.Name,
			"Phone":    user.Phone,
			"Role":     user.Role,
		},
	})
}

// 變更使用者資料
func UpdateUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var user models.User
	err := db.First(&user, "id = ?", userID).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "發生錯誤:無法取得使用者資料", err)
		return
	}

	var newUserData struct {
		Email       string  `json:"email"`
		OldPassword string  `json:"oldPassword"`
		NewPassword string  `json:"newPassword"`
		Name        *string `json:"name"`
		Phone       *string `json:"phone"`
	}
	err = c.ShouldBindJSON(&newUserData)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newUserData.OldPassword))
	if err != nil {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "舊密碼錯誤")
		return
	}

	if newUserData.NewPassword != "" {
		if !ValidatePassword(newUserData.NewPassword) {
			respondFail(c, http.StatusBadRequest, CodeValidationError, "不合法的新密碼")
			return
		}
		//將密碼Hash
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newUserData.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "無法生成Hashed密碼", err)
			return
		}
		user.Password = string(hashedPassword)
	}

	if newUserData.Email != "" {
		if !ValidateEmail(newUserData.Email) {
			respondFail(c, http.StatusBadRequest, CodeValidationError, "不合法的Email")
			return
		}
		user.Email = newUserData.Email
	}

	//如果使用者有提供資料則覆蓋(包含空字串)
	if newUserData.Name != nil {
		user.Name = *newUserData.Name
	}
	if newUserData.Phone != nil {
		user.Phone = *newUserData.Phone
	}

	result := db.Where("id = ?", userID).Save(&user)
	err = result.Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "修改使用者資料失敗", err)
		return
	}

	if result.RowsAffected == 0 {
		respondOK(c, http.StatusOK, "沒有變更資料", nil)
		return
	}

	respondOK(c, http.StatusOK, "成功修改使用者資料", nil)
}
