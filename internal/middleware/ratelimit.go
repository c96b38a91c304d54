package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"planivo-backend/internal/cache"
)

const (
	loginLimit         = 5
	loginWindow        = time.Minute
	publicIPLimit      = 30
	publicIPWindow     = time.Minute
	publicTokenLimit   = 120
	publicTokenWindow  = time.Hour
	webhookLimit       = 60
	webhookWindow      = time.Minute
	shareTokenPrefixes = 12
)

func RateLimitLogin(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:login:" + ip
			count, err := cacheClient.IncrWithTTL(key, loginWindow)
			if err == nil && count > loginLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPublicSchedule limits share-token lookups both per client IP
// and per token prefix, so a leaked link cannot be hammered from many IPs.
func RateLimitPublicSchedule(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			count, err := cacheClient.IncrWithTTL("rl:public:ip:"+ip, publicIPWindow)
			if err == nil && count > publicIPLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/public/schedules"), "/")
			if token != "" {
				prefix := token
				if len(prefix) > shareTokenPrefixes {
					prefix = prefix[:shareTokenPrefixes]
				}
				count, err := cacheClient.IncrWithTTL("rl:public:token:"+prefix, publicTokenWindow)
				if err == nil && count > publicTokenLimit {
					http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitWebhook(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			count, err := cacheClient.IncrWithTTL("rl:webhook:"+ip, webhookWindow)
			if err == nil && count > webhookLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
