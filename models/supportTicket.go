package models

import "gorm.io/gorm"

// 客服工單狀態
const (
	TicketStatusOpen     = "open"
	TicketStatusPending  = "pending"
	TicketStatusResolved = "resolved"
)

type SupportTicket struct {
	gorm.Model
	UserID   uint `gorm:"not null"`
	User     User
	Subject  string `gorm:"not null"`
	Body     string `gorm:"not null"`
	Status   string `gorm:"not null"`
	Priority string
	Assignee string
	Comments []TicketComment `gorm:"foreignKey:TicketID"`
}

type TicketComment struct {
	gorm.Model
	TicketID uint   `gorm:"not null"`
	UserID   uint   `gorm:"not null"`
	Body     string `gorm:"not null"`
}
