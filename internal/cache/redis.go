package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presencePrefix       = "plv:presence:"
	publicSchedulePrefix = "plv:public_schedule:"
)

type Client interface {
	IncrWithTTL(key string, window time.Duration) (int64, error)
	SetPresence(userID string, tsMs int64, ttl time.Duration) error
	GetPresence(userID string) (int64, error)
	SetPresenceStatus(userID string, status string) error
	GetPresenceStatus(userID string) (string, error)
	OnlineUsers() ([]string, error)
	SetPublicSchedule(tokenPrefix string, payload []byte, ttl time.Duration) error
	GetPublicSchedule(tokenPrefix string) ([]byte, error)
	InvalidatePublicSchedule(tokenPrefix string) error
	SubscribeExpired() (*redis.PubSub, error)
	Close() error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisClient(redisURL string) (*RedisCache, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb}, nil
}

func (c *RedisCache) IncrWithTTL(key string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *RedisCache) SetPresence(userID string, tsMs int64, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Set(ctx, presencePrefix+userID, tsMs, ttl).Err()
}

func (c *RedisCache) GetPresence(userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := c.rdb.Get(ctx, presencePrefix+userID).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (c *RedisCache) SetPresenceStatus(userID string, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Set(ctx, presencePrefix+"status:"+userID, status, 0).Err()
}

func (c *RedisCache) GetPresenceStatus(userID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Get(ctx, presencePrefix+"status:"+userID).Result()
}

// OnlineUsers returns the ids of users whose status key reads "online".
func (c *RedisCache) OnlineUsers() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	statusPrefix := presencePrefix + "status:"
	users := make([]string, 0)

	iter := c.rdb.Scan(ctx, 0, statusPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		status, err := c.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		if status == "online" {
			users = append(users, strings.TrimPrefix(key, statusPrefix))
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *RedisCache) SetPublicSchedule(tokenPrefix string, payload []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Set(ctx, publicSchedulePrefix+tokenPrefix, payload, ttl).Err()
}

func (c *RedisCache) GetPublicSchedule(tokenPrefix string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Get(ctx, publicSchedulePrefix+tokenPrefix).Bytes()
}

func (c *RedisCache) InvalidatePublicSchedule(tokenPrefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Del(ctx, publicSchedulePrefix+tokenPrefix).Err()
}

// SubscribeExpired subscribes to keyspace expiry notifications. Used by
// the presence worker; requires notify-keyspace-events to include "Ex".
func (c *RedisCache) SubscribeExpired() (*redis.PubSub, error) {
	channel := fmt.Sprintf("__keyevent@%d__:expired", c.rdb.Options().DB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pubsub := c.rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	return pubsub, nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
