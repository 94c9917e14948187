package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Slug          string `gorm:"unique;not null"`
	Price         uint   `gorm:"not null"`
	OriginalPrice uint   //0表示無原價(未打折)
	Stock         uint   `gorm:"not null"`
	Description   string
	ImageURL      string
	Rating        float64
	ReviewCount   uint
	VendorID      uint
	Categories    []Category `gorm:"many2many:category_products;"`
}
