package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	ProductID        uint `gorm:"uniqueIndex:idx_product_user;not null"`
	Product          Product
	UserID           uint `gorm:"uniqueIndex:idx_product_user;not null"`
	User             User
	Rating           uint `gorm:"not null"`
	Comment          string
	HelpfulCount     uint
	VerifiedPurchase bool
}
