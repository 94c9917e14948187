package handlers

import (
	"agromart/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusHappyPath(t *testing.T) {
	path := []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransitionOrderStatus(path[i], path[i+1]),
			"%s -> %s 應為合法轉移", path[i], path[i+1])
	}
}

func TestOrderStatusIllegalTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed},
		{models.OrderStatusRefunded, models.OrderStatusPending},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
	}
	for _, testCase := range cases {
		assert.False(t, CanTransitionOrderStatus(testCase.from, testCase.to),
			"%s -> %s 應為不合法轉移", testCase.from, testCase.to)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	//未出貨前皆可取消
	assert.True(t, CanTransitionOrderStatus(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.True(t, CanTransitionOrderStatus(models.OrderStatusConfirmed, models.OrderStatusCancelled))
	assert.True(t, CanTransitionOrderStatus(models.OrderStatusProcessing, models.OrderStatusCancelled))
}

func TestOrderStatusTerminalStates(t *testing.T) {
	for _, to := range []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	} {
		assert.False(t, CanTransitionOrderStatus(models.OrderStatusCancelled, to))
		assert.False(t, CanTransitionOrderStatus(models.OrderStatusRefunded, to))
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(models.OrderStatusPending))
	assert.True(t, IsValidOrderStatus(models.OrderStatusRefunded))
	assert.False(t, IsValidOrderStatus("unknown"))
	assert.False(t, IsValidOrderStatus(""))
}
