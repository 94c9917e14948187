package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Description string
	Icon        string
	Products    []Product `gorm:"many2many:category_products;"`
}
