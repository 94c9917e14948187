package models

import "gorm.io/gorm"

type Vendor struct {
	gorm.Model
	BusinessName string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	Password     string `gorm:"not null"`
	Verified     bool   `gorm:"default:false"`
	Products     []Product
}
