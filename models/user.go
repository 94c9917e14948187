package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null"`
	Email       string `gorm:"unique;not null"`
	Password    string `gorm:"not null"`
	Name        string
	Phone       string
	Role        string
	Carts       []Cart
	Orders      []Order
	LoginTokens []LoginToken
	Reviews     []Review
	Addresses   []Address
	Tickets     []SupportTicket
}
