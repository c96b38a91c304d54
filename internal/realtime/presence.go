package realtime

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/cache"
	"planivo-backend/internal/models"
)

const presenceTTL = 60 * time.Second

// PresenceWatcher mirrors the PRESENCE KV bucket into Redis so HTTP
// handlers can answer online/offline queries without touching NATS.
// Browser clients write heartbeats to their own key; the bucket's TTL
// handles clients that vanish without a graceful delete.
type PresenceWatcher struct {
	kv      nats.KeyValue
	cache   cache.Client
	watcher nats.KeyWatcher
}

func NewPresenceWatcher(kv nats.KeyValue, cache cache.Client) *PresenceWatcher {
	return &PresenceWatcher{kv: kv, cache: cache}
}

func (w *PresenceWatcher) Start(ctx context.Context) error {
	watcher, err := w.kv.WatchAll()
	if err != nil {
		return err
	}
	w.watcher = watcher

	go w.watchLoop(ctx)

	log.Println("INFO presence watcher started")
	return nil
}

func (w *PresenceWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-w.watcher.Updates():
			if entry == nil {
				continue
			}
			w.handleEntry(entry)
		}
	}
}

func (w *PresenceWatcher) handleEntry(entry nats.KeyValueEntry) {
	userID := entry.Key()

	switch entry.Operation() {
	case nats.KeyValuePut:
		var hb models.PresenceHeartbeat
		if err := msgpack.Unmarshal(entry.Value(), &hb); err != nil {
			log.Printf("ERROR presence unmarshal for %s: %v", userID, err)
			return
		}
		if hb.TS == 0 {
			hb.TS = time.Now().UnixMilli()
		}

		if err := w.cache.SetPresence(userID, hb.TS, presenceTTL); err != nil {
			log.Printf("ERROR presence write for %s: %v", userID, err)
			return
		}
		if err := w.cache.SetPresenceStatus(userID, "online"); err != nil {
			log.Printf("ERROR presence status write for %s: %v", userID, err)
		}

	case nats.KeyValueDelete:
		if err := w.cache.SetPresenceStatus(userID, "offline"); err != nil {
			log.Printf("ERROR presence status write for %s: %v", userID, err)
			return
		}
		log.Printf("INFO user offline (graceful): %s", userID)

	case nats.KeyValuePurge:
		log.Printf("INFO presence key purged: %s", userID)
	}
}

func (w *PresenceWatcher) Stop() error {
	if w.watcher != nil {
		return w.watcher.Stop()
	}
	return nil
}
