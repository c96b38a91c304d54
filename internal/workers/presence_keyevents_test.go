package workers

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type statusRecorder struct {
	statuses map[string]string
	present  map[string]int64
}

func (s *statusRecorder) IncrWithTTL(string, time.Duration) (int64, error) { return 0, nil }
func (s *statusRecorder) SetPresence(string, int64, time.Duration) error { return nil }

func (s *statusRecorder) GetPresence(userID string) (int64, error) {
	if ts, ok := s.present[userID]; ok {
		return ts, nil
	}
	return 0, redis.Nil
}

func (s *statusRecorder) OnlineUsers() ([]string, error) {
	users := make([]string, 0)
	for userID, status := range s.statuses {
		if status == "online" {
			users = append(users, userID)
		}
	}
	return users, nil
}

func (s *statusRecorder) SetPresenceStatus(userID, status string) error {
	s.statuses[userID] = status
	return nil
}
func (s *statusRecorder) GetPresenceStatus(userID string) (string, error) {
	return s.statuses[userID], nil
}

func (s *statusRecorder) SetPublicSchedule(string, []byte, time.Duration) error { return nil }
func (s *statusRecorder) GetPublicSchedule(string) ([]byte, error) { return nil, redis.Nil }
func (s *statusRecorder) InvalidatePublicSchedule(string) error { return nil }
func (s *statusRecorder) SubscribeExpired() (*redis.PubSub, error) { return nil, redis.Nil }
func (s *statusRecorder) Close() error { return nil }

func TestHandleExpired(t *testing.T) {
	rec := &statusRecorder{statuses: make(map[string]string)}

	handleExpired(rec, &redis.Message{Payload: "plv:presence:user-1"})
	assert.Equal(t, "offline", rec.statuses["user-1"])
}

func TestHandleExpiredIgnoresOtherKeys(t *testing.T) {
	rec := &statusRecorder{statuses: make(map[string]string)}

	handleExpired(rec, &redis.Message{Payload: "rl:login:192.0.2.1"})
	handleExpired(rec, &redis.Message{Payload: "plv:presence:status:user-1"})
	assert.Empty(t, rec.statuses)
}
