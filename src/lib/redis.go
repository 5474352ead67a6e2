package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// WebhookEventSeen reports whether a provider event id is already in the
// idempotency ledger. Providers retry and may deliver out of order, so
// handlers skip anything already recorded.
func WebhookEventSeen(eventId string) bool {
	rd := GetRedisClient()
	if rd == nil {
		return false
	}
	key := fmt.Sprintf("webhook:event:%s", eventId)
	n, err := rd.Exists(context.Background(), key).Result()
	if err != nil {
		log.Printf("[redis] Error reading idempotency key %s: %s\n", key, err.Error())
		return false
	}
	return n > 0
}

// MarkWebhookEvent records an event id after its handler succeeds, so a
// provider retry of a failed delivery is still processed.
func MarkWebhookEvent(eventId string) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	key := fmt.Sprintf("webhook:event:%s", eventId)
	if err := rd.SetNX(context.Background(), key, "1", 72*time.Hour).Err(); err != nil {
		log.Printf("[redis] Error writing idempotency key %s: %s\n", key, err.Error())
	}
}
