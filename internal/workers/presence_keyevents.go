package workers

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"planivo-backend/internal/cache"
)

const presenceKeyPrefix = "plv:presence:"

// StartPresenceKeyeventWorker subscribes to Redis key expiration events
// and flips presence status to offline when a heartbeat key lapses.
// Returns true when the subscription is active; requires the Redis
// server to have notify-keyspace-events include "Ex".
func StartPresenceKeyeventWorker(ctx context.Context, cacheClient cache.Client) bool {
	pubsub, err := cacheClient.SubscribeExpired()
	if err != nil {
		log.Printf("WARN Redis keyevent subscribe failed: %v", err)
		return false
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok || msg == nil {
					return
				}
				handleExpired(cacheClient, msg)
			}
		}
	}()

	log.Println("INFO Redis keyevent worker started")
	return true
}

func handleExpired(cacheClient cache.Client, msg *redis.Message) {
	key := msg.Payload
	if !strings.HasPrefix(key, presenceKeyPrefix) {
		return
	}
	userID := strings.TrimPrefix(key, presenceKeyPrefix)
	if strings.HasPrefix(userID, "status:") {
		return
	}

	if err := cacheClient.SetPresenceStatus(userID, "offline"); err != nil {
		log.Printf("WARN presence offline write failed for %s: %v", userID, err)
	}
}
