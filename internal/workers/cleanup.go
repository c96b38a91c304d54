package workers

import (
	"context"
	"log"
	"time"

	"planivo-backend/internal/storage"
)

const (
	auditRetention   = 90 * 24 * time.Hour
	archiveRetention = 180 * 24 * time.Hour
	cleanupInterval  = time.Hour
)

// StartCleanupWorker runs the hourly retention pass: expired or
// exhausted share tokens, audit logs past retention, and archived
// schedules nobody can see anymore.
func StartCleanupWorker(ctx context.Context, store *storage.Storage) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanupOnce(ctx, store)
			}
		}
	}()
	log.Println("INFO cleanup worker started")
}

func cleanupOnce(ctx context.Context, store *storage.Storage) {
	if n, err := store.PurgeShareTokens(ctx); err != nil {
		log.Printf("WARN cleanup share tokens: %v", err)
	} else if n > 0 {
		log.Printf("INFO cleanup removed %d dead share tokens", n)
	}

	if n, err := store.PruneAuditLogs(ctx, time.Now().Add(-auditRetention)); err != nil {
		log.Printf("WARN cleanup audit logs: %v", err)
	} else if n > 0 {
		log.Printf("INFO cleanup pruned %d audit logs", n)
	}

	if n, err := store.PurgeArchivedSchedules(ctx, time.Now().Add(-archiveRetention)); err != nil {
		log.Printf("WARN cleanup archived schedules: %v", err)
	} else if n > 0 {
		log.Printf("INFO cleanup purged %d archived schedules", n)
	}
}
