package models

import "gorm.io/gorm"

type BlogPost struct {
	gorm.Model
	Title     string `gorm:"not null"`
	Slug      string `gorm:"unique;not null"`
	Content   string `gorm:"not null"`
	Tags      string //以逗號分隔
	AuthorID  uint
	Published bool `gorm:"default:false"`
}
