package handlers

import (
	"agromart/models"
	"agromart/payment"
	"encoding/json"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
	"github.com/stripe/stripe-go/v78/refund"
	"gorm.io/gorm"
	"io"
	"log"
	"net/http"
	"os"
)

// Webhook簽章標頭
const signatureHeader = "Agro-Signature"

// 金流方送來的Webhook事件
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		OrderID         uint   `json:"orderID"`
		PaymentIntentID string `json:"paymentIntentID"`
	} `json:"data"`
}

// 建立付款意圖並回傳client secret
func CreatePaymentIntentHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var intentReq struct {
		OrderID uint `json:"orderID" binding:"required"`
	}
	if err := c.ShouldBindJSON(&intentReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var order models.Order
	err := db.Where("id = ? AND user_id = ?", intentReq.OrderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單失敗", err)
		return
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "此訂單已付款")
		return
	}

	stripe.Key = os.Getenv("PAYMENT_STRIPE_SECRET_KEY")
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.Total)),
		Currency: stripe.String(string(stripe.CurrencyTWD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "建立付款意圖失敗", err)
		return
	}

	err = db.Model(&order).Update("payment_intent_id", pi.ID).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "儲存付款意圖ID失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功建立付款意圖", gin.H{
		"clientSecret":    pi.ClientSecret,
		"paymentIntentID": pi.ID,
	})
}

// 事件內容未指出任何訂單
var errEventNoOrderRef = errors.New("事件缺少訂單識別資訊")

// 依事件種類更新訂單付款狀態
func processWebhookEvent(db *gorm.DB, event *webhookEvent) error {
	//沒有訂單ID也沒有付款意圖ID的事件無法對應訂單，直接拒絕
	if event.Data.OrderID == 0 && event.Data.PaymentIntentID == "" {
		return errEventNoOrderRef
	}

	var order models.Order
	query := db
	if event.Data.OrderID != 0 {
		query = query.Where("id = ?", event.Data.OrderID)
	} else {
		query = query.Where("payment_intent_id = ?", event.Data.PaymentIntentID)
	}
	if err := query.First(&order).Error; err != nil {
		return err
	}

	switch event.Type {
	case "payment_intent.succeeded":
		order.PaymentStatus = models.PaymentStatusPaid
		if CanTransitionOrderStatus(order.Status, models.OrderStatusConfirmed) {
			order.Status = models.OrderStatusConfirmed
		}
	case "payment_intent.payment_failed":
		order.PaymentStatus = models.PaymentStatusFailed
	case "charge.refunded":
		order.PaymentStatus = models.PaymentStatusRefunded
		if CanTransitionOrderStatus(order.Status, models.OrderStatusRefunded) {
			order.Status = models.OrderStatusRefunded
		}
	default:
		//未知事件種類不影響訂單，視為成功以免金流方不斷重送
		log.Printf("忽略未知的Webhook事件種類: %s\n", event.Type)
		return nil
	}

	return db.Save(&order).Error
}

// 接收金流方Webhook：驗證簽章、以Redis key去重，再更新訂單狀態
func PaymentWebhookHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "讀取請求內容失敗", err)
		return
	}

	secret := os.Getenv("PAYMENT_STRIPE_WEBHOOK_SECRET")
	err = payment.VerifySignature(body, c.GetHeader(signatureHeader), secret, payment.DefaultTolerance)
	if err != nil {
		log.Printf("Webhook簽章驗證失敗: %v\n", err)
		respondError(c, http.StatusBadRequest, CodeValidationError, "簽章驗證失敗", err)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "解析事件內容失敗", err)
		return
	}
	if event.ID == "" {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "事件缺少ID")
		return
	}

	//先搶事件key，搶不到表示已處理過
	reserved, err := payment.ReserveEvent(c, rdb, event.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "檢查事件是否處理過失敗", err)
		return
	}
	if !reserved {
		respondOK(c, http.StatusOK, "事件已處理過", gin.H{
			"code":    CodeAlreadyProcessed,
			"eventID": event.ID,
		})
		return
	}

	if err := processWebhookEvent(db, &event); err != nil {
		//處理失敗時釋放事件key，讓金流方重送時能再次處理
		if releaseErr := payment.ReleaseEvent(c, rdb, event.ID); releaseErr != nil {
			log.Printf("釋放事件key失敗: %v\n", releaseErr)
		}
		if errors.Is(err, errEventNoOrderRef) {
			respondFail(c, http.StatusBadRequest, CodeValidationError, "事件缺少訂單識別資訊")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "處理Webhook事件失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功處理Webhook事件", gin.H{
		"eventID": event.ID,
	})
}

// 模擬付款結果(開發用)，直接更新訂單付款狀態
func SimulatePaymentHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		respondFail(c, http.StatusInternalServerError, CodeInternalError, "無法取得使用者ID")
		return
	}

	var simulateReq struct {
		OrderID uint  `json:"orderID" binding:"required"`
		Success *bool `json:"success" binding:"required"`
	}
	if err := c.ShouldBindJSON(&simulateReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "綁定請求資料錯誤", err)
		return
	}

	var order models.Order
	err := db.Where("id = ? AND user_id = ?", simulateReq.OrderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單失敗", err)
		return
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "此訂單已付款")
		return
	}

	if *simulateReq.Success {
		order.PaymentStatus = models.PaymentStatusPaid
		if CanTransitionOrderStatus(order.Status, models.OrderStatusConfirmed) {
			order.Status = models.OrderStatusConfirmed
		}
	} else {
		order.PaymentStatus = models.PaymentStatusFailed
	}

	if err := db.Save(&order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新付款狀態失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功模擬付款結果", gin.H{
		"OrderID":       order.ID,
		"Status":        order.Status,
		"PaymentStatus": order.PaymentStatus,
	})
}

// 退款(admin)，狀態轉移合法時透過金流方退款並標記訂單
func RefundOrderHandler(c *gin.Context, db *gorm.DB) {
	orderID := c.Param("orderID")

	var order models.Order
	err := db.First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, CodeResourceNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "查詢訂單失敗", err)
		return
	}

	if order.PaymentStatus != models.PaymentStatusPaid {
		respondFail(c, http.StatusBadRequest, CodeValidationError, "此訂單尚未付款，無法退款")
		return
	}
	if !CanTransitionOrderStatus(order.Status, models.OrderStatusRefunded) {
		respondFail(c, http.StatusBadRequest, CodeInvalidStatusTransition, "此訂單狀態無法退款")
		return
	}

	//有付款意圖ID時透過金流方退款
	if order.PaymentIntentID != "" {
		stripe.Key = os.Getenv("PAYMENT_STRIPE_SECRET_KEY")
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(order.PaymentIntentID),
		}
		if _, err := refund.New(params); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "金流方退款失敗", err)
			return
		}
	}

	order.Status = models.OrderStatusRefunded
	order.PaymentStatus = models.PaymentStatusRefunded
	if err := db.Save(&order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "更新訂單狀態失敗", err)
		return
	}

	respondOK(c, http.StatusOK, "成功退款", gin.H{
		"OrderID":       order.ID,
		"Status":        order.Status,
		"PaymentStatus": order.PaymentStatus,
	})
}
