package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// fakeCache counts increments in memory; TTLs are ignored.
type fakeCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int64)}
}

func (f *fakeCache) IncrWithTTL(key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCache) SetPresence(string, int64, time.Duration) error { return nil }
func (f *fakeCache) GetPresence(string) (int64, error) { return 0, redis.Nil }
func (f *fakeCache) SetPresenceStatus(string, string) error { return nil }
func (f *fakeCache) GetPresenceStatus(string) (string, error) { return "", redis.Nil }
func (f *fakeCache) OnlineUsers() ([]string, error) { return nil, nil }

func (f *fakeCache) SetPublicSchedule(string, []byte, time.Duration) error { return nil }
func (f *fakeCache) GetPublicSchedule(string) ([]byte, error) { return nil, redis.Nil }
func (f *fakeCache) InvalidatePublicSchedule(string) error { return nil }

func (f *fakeCache) SubscribeExpired() (*redis.PubSub, error) { return nil, redis.Nil }
func (f *fakeCache) Close() error { return nil }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitLogin(t *testing.T) {
	handler := RateLimitLogin(newFakeCache())(okHandler())

	for i := 0; i < loginLimit; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4567"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:4567"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP is unaffected.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.RemoteAddr = "198.51.100.2:4567"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitPublicScheduleTokenBucket(t *testing.T) {
	cacheClient := newFakeCache()
	handler := RateLimitPublicSchedule(cacheClient)(okHandler())

	// Exceed the per-token budget while rotating IPs, so only the
	// token-prefix bucket can trip.
	token := "plv_st_abcd0123456789"
	tripped := false
	for i := 0; i < publicTokenLimit+1; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/public/schedules/"+token, nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", i/250, i%250))
		req.RemoteAddr = "192.0.2.1:1"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			tripped = true
			break
		}
	}
	assert.True(t, tripped, "token prefix budget never tripped")
	assert.Contains(t, cacheClient.counts, "rl:public:token:"+token[:shareTokenPrefixes])
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "192.0.2.10", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")
	assert.Equal(t, "203.0.113.50", clientIP(req))
}
