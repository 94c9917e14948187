package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// 簽章時間戳的容許誤差
const DefaultTolerance = 300 * time.Second

var (
	ErrSignatureFormat  = errors.New("簽章標頭格式錯誤")
	ErrTimestampStale   = errors.New("簽章時間戳超出容許範圍")
	ErrSignatureNoMatch = errors.New("簽章不符")
)

// 解析形如 t=<unix>,v1=<hex> 的簽章標頭
func parseSignatureHeader(header string) (int64, string, error) {
	var timestamp int64
	var signature string

	for _, segment := range strings.Split(header, ",") {
		parts := strings.SplitN(segment, "=", 2)
		if len(parts) != 2 {
			return 0, "", ErrSignatureFormat
		}
		switch parts[0] {
		case "t":
			t, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, "", ErrSignatureFormat
			}
			timestamp = t
		case "v1":
			signature = parts[1]
		}
	}

	if timestamp == 0 || signature == "" {
		return 0, "", ErrSignatureFormat
	}

	return timestamp, signature, nil
}

// 計算 timestamp.payload 的HMAC-SHA256簽章
func ComputeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// 驗證Webhook簽章：檢查標頭格式、時間戳新鮮度，並以常數時間比較HMAC
func VerifySignature(payload []byte, header string, secret string, tolerance time.Duration) error {
	return verifySignatureAt(payload, header, secret, tolerance, time.Now())
}

func verifySignatureAt(payload []byte, header string, secret string, tolerance time.Duration, now time.Time) error {
	timestamp, signature, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	diff := now.Unix() - timestamp
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(tolerance.Seconds()) {
		return ErrTimestampStale
	}

	expected := ComputeSignature(timestamp, payload, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureNoMatch
	}

	return nil
}
