package models

import "gorm.io/gorm"

type Address struct {
	gorm.Model
	UserID     uint   `gorm:"not null"`
	Recipient  string `gorm:"not null"`
	Phone      string `gorm:"not null"`
	Line       string `gorm:"not null"`
	City       string `gorm:"not null"`
	PostalCode string
	IsDefault  bool `gorm:"default:false"`
}
