package middleware

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"log"
	"net/http"
	"strconv"
	"time"
)

// 單一路由的限流設定
type RateLimitConfig struct {
	Name   string //Redis key的路由名稱
	Window time.Duration
	Max    int64
}

// 常用路由的限流設定
var (
	RateLimitLogin    = RateLimitConfig{Name: "login", Window: time.Minute, Max: 10}
	RateLimitRegister = RateLimitConfig{Name: "register", Window: time.Minute, Max: 5}
	RateLimitCheckout = RateLimitConfig{Name: "checkout", Window: time.Minute, Max: 10}
	RateLimitWebhook  = RateLimitConfig{Name: "webhook", Window: time.Minute, Max: 120}
	RateLimitReview   = RateLimitConfig{Name: "review", Window: time.Minute, Max: 5}
	RateLimitDefault  = RateLimitConfig{Name: "default", Window: time.Minute, Max: 60}
)

// 限流計數器的Redis key，已登入使用UserID，未登入使用IP
func RateLimitKey(config RateLimitConfig, userID interface{}, loggedIn bool, ip string) string {
	if loggedIn {
		return fmt.Sprintf("ratelimit:%s:user:%v", config.Name, userID)
	}
	return fmt.Sprintf("ratelimit:%s:ip:%s", config.Name, ip)
}

// 固定時間窗限流，超過上限則回傳429，admin不受限制
func RateLimitMiddleware(rdb *redis.Client, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, exists := c.Get("Role"); exists && role == adminRole {
			c.Next()
			return
		}

		userID, loggedIn := c.Get("UserID")
		key := RateLimitKey(config, userID, loggedIn, c.ClientIP())

		count, err := rdb.Incr(c, key).Result()
		if err != nil {
			//Redis異常時放行，避免限流器癱瘓整個服務
			log.Printf("限流計數失敗: %v\n", err)
			c.Next()
			return
		}

		//第一次計數時設定時間窗
		if count == 1 {
			rdb.Expire(c, key, config.Window)
		}

		if count > config.Max {
			ttl, err := rdb.TTL(c, key).Result()
			if err != nil || ttl < 0 {
				ttl = config.Window
			}
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"code":    "RATE_LIMIT_EXCEEDED",
				"error":   "請求太頻繁，請稍後再試",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
