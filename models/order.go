package models

import "gorm.io/gorm"

// 訂單狀態
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 付款狀態
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type Order struct {
	gorm.Model
	UserID          uint `gorm:"foreignKey:UserID"`
	User            User
	OrderItems      []OrderItem
	Subtotal        uint `gorm:"not null"`
	Discount        uint
	Total           uint `gorm:"not null"`
	CouponCode      string
	ShippingMethod  string `gorm:"not null"`
	PaymentMethod   string `gorm:"not null"`
	Name            string `gorm:"not null"`
	Address         string `gorm:"not null"`
	Phone           string `gorm:"not null"`
	Status          string `gorm:"not null"`
	PaymentStatus   string `gorm:"not null"`
	PaymentIntentID string
	TrackingNumber  string
}
