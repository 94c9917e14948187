package payment

import (
	"context"
	"github.com/redis/go-redis/v9"
	"time"
)

// 已處理事件的標記保留時間
const eventKeyTTL = 24 * time.Hour

func eventKey(eventID string) string {
	return "webhook:" + eventID
}

// 以SETNX預留事件處理權，回傳false表示事件已處理過(或正在處理)
// 先搶key再處理，避免同一事件兩次併發送達時被處理兩次
func ReserveEvent(ctx context.Context, rdb *redis.Client, eventID string) (bool, error) {
	return rdb.SetNX(ctx, eventKey(eventID), "1", eventKeyTTL).Result()
}

// 處理失敗時釋放預留，讓金流方的重送機制能再次嘗試
func ReleaseEvent(ctx context.Context, rdb *redis.Client, eventID string) error {
	return rdb.Del(ctx, eventKey(eventID)).Err()
}
