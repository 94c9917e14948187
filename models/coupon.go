package models

import (
	"gorm.io/gorm"
	"time"
)

const (
	CouponTypePercent = "percent"
	CouponTypeFixed   = "fixed"
)

type Coupon struct {
	gorm.Model
	Code       string `gorm:"unique;not null"`
	Type       string `gorm:"not null"` //percent或fixed
	Value      uint   `gorm:"not null"`
	MinOrder   uint
	ValidFrom  time.Time
	ValidUntil time.Time
	UsageLimit uint //0表示無使用上限
	UsedCount  uint
	Active     bool `gorm:"default:true"`
}
