package jwt

import (
	"agromart/models"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"log"
	"os"
)

var (
	ErrTokenInvalid = errors.New("token不合法")
	ErrTokenExpired = errors.New("token已過期")
	ErrWrongKind    = errors.New("token種類錯誤")
)

// 依Token種類讀取對應的HMAC密鑰
func secretFor(kind string) []byte {
	if kind == models.TokenKindRefresh {
		return []byte(os.Getenv("JWT_REFRESH_SECRET"))
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

// 生成JWT Token
func GenerateToken(userID uint, role string, kind string, expTime int64) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userID"] = userID
	claims["role"] = role
	claims["kind"] = kind
	claims["exp"] = expTime

	tokenString, err := token.SignedString(secretFor(kind))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// 解析JWT Token並檢查簽章、有效期限及種類
func ParseToken(tokenString string, kind string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secretFor(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrTokenExpired
		}
		return 0, "", ErrTokenInvalid
	}

	if !token.Valid {
		return 0, "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrTokenInvalid
	}

	if claims["kind"] != kind {
		return 0, "", ErrWrongKind
	}

	userIDClaim, ok := claims["userID"].(float64)
	if !ok {
		return 0, "", ErrTokenInvalid
	}
	roleClaim, ok := claims["role"].(string)
	if !ok {
		return 0, "", ErrTokenInvalid
	}

	return uint(userIDClaim), roleClaim, nil
}

// 驗證JWT Token並回傳UserID，同時從資料庫檢查Token是否已被註銷
func VerifyToken(tokenString *string, kind string, db *gorm.DB) (uint, string, error) {
	userID, role, err := ParseToken(*tokenString, kind)
	if err != nil {
		return 0, "", err
	}

	//從資料庫檢查Token是否刪除
	var loginToken models.LoginToken
	err = db.Where("token = ? AND kind = ?", *tokenString, kind).First(&loginToken).Error
	if err != nil {
		log.Println(err)
		return 0, "", err
	}

	return userID, role, nil
}
