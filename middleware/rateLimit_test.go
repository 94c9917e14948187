package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitKeyLoggedIn(t *testing.T) {
	key := RateLimitKey(RateLimitLogin, uint(42), true, "10.0.0.1")
	assert.Equal(t, "ratelimit:login:user:42", key)
}

func TestRateLimitKeyAnonymousUsesIP(t *testing.T) {
	key := RateLimitKey(RateLimitCheckout, nil, false, "10.0.0.1")
	assert.Equal(t, "ratelimit:checkout:ip:10.0.0.1", key)
}

func TestRateLimitKeySeparatesRoutes(t *testing.T) {
	//同一使用者在不同路由各自計數
	loginKey := RateLimitKey(RateLimitLogin, uint(1), true, "")
	registerKey := RateLimitKey(RateLimitRegister, uint(1), true, "")
	assert.NotEqual(t, loginKey, registerKey)
}
