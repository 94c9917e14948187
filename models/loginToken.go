package models

import (
	"gorm.io/gorm"
	"time"
)

// Token種類
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

type LoginToken struct {
	gorm.Model
	Token          string `gorm:"index"`
	Kind           string `gorm:"not null"`
	ExpirationTime time.Time
	UserID         uint
	Role           string
}
