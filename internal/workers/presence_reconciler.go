package workers

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"planivo-backend/internal/cache"
)

// StartPresenceReconciler periodically flips users offline when their
// presence key has lapsed. Fallback for deployments where Redis keyspace
// notifications are disabled.
func StartPresenceReconciler(ctx context.Context, cacheClient cache.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reconcilePresenceOnce(cacheClient)
			}
		}
	}()
	log.Println("INFO Presence reconciler started")
}

func reconcilePresenceOnce(cacheClient cache.Client) {
	userIDs, err := cacheClient.OnlineUsers()
	if err != nil {
		log.Printf("WARN Presence reconciler list online users error: %v", err)
		return
	}

	for _, userID := range userIDs {
		_, err := cacheClient.GetPresence(userID)
		if err == redis.Nil {
			if err := cacheClient.SetPresenceStatus(userID, "offline"); err != nil {
				log.Printf("WARN Presence reconciler mark offline error for %s: %v", userID, err)
			}
			continue
		}
		if err != nil {
			log.Printf("WARN Presence reconciler cache error for %s: %v", userID, err)
		}
	}
}
