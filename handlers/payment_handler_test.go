package handlers

import (
	"testing"

	"agromart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUnpaidOrder(t *testing.T, db *gorm.DB, paymentIntentID string) models.Order {
	t.Helper()

	order := models.Order{
		UserID:          1,
		Subtotal:        500,
		Total:           500,
		ShippingMethod:  "home",
		PaymentMethod:   "card",
		Name:            "王小明",
		Address:         "台北市信義區",
		Phone:           "0912345678",
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		PaymentIntentID: paymentIntentID,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

// 事件沒有訂單ID也沒有付款意圖ID時必須被拒絕，不能動到任何訂單
func TestProcessWebhookEventRejectsMissingOrderRef(t *testing.T) {
	db := newTestDB(t)
	order := seedUnpaidOrder(t, db, "")

	event := webhookEvent{ID: "evt_1", Type: "payment_intent.succeeded"}
	err := processWebhookEvent(db, &event)
	assert.ErrorIs(t, err, errEventNoOrderRef)

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, got.PaymentStatus)
}

func TestProcessWebhookEventSucceededByOrderID(t *testing.T) {
	db := newTestDB(t)
	order := seedUnpaidOrder(t, db, "")

	event := webhookEvent{ID: "evt_2", Type: "payment_intent.succeeded"}
	event.Data.OrderID = order.ID
	require.NoError(t, processWebhookEvent(db, &event))

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
}

func TestProcessWebhookEventSucceededByPaymentIntentID(t *testing.T) {
	db := newTestDB(t)
	order := seedUnpaidOrder(t, db, "pi_test_123")

	event := webhookEvent{ID: "evt_3", Type: "payment_intent.succeeded"}
	event.Data.PaymentIntentID = "pi_test_123"
	require.NoError(t, processWebhookEvent(db, &event))

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
}

func TestProcessWebhookEventPaymentFailed(t *testing.T) {
	db := newTestDB(t)
	order := seedUnpaidOrder(t, db, "")

	event := webhookEvent{ID: "evt_4", Type: "payment_intent.payment_failed"}
	event.Data.OrderID = order.ID
	require.NoError(t, processWebhookEvent(db, &event))

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, models.PaymentStatusFailed, got.PaymentStatus)
}
