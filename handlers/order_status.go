package handlers

import "agromart/models"

// 訂單狀態轉移表，不在表內的轉移一律視為不合法
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusRefunded},
	models.OrderStatusDelivered:  {models.OrderStatusRefunded},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

// 檢查訂單狀態轉移是否合法
func CanTransitionOrderStatus(from string, to string) bool {
	allowed, ok := orderStatusTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// 檢查是否為合法的訂單狀態名稱
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}
