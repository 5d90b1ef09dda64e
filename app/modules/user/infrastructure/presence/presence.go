package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:user:"

// Store records which users have been seen recently.
type Store interface {
	// Touch marks the user online for the store's TTL.
	Touch(ctx context.Context, userID int64) error
	// Online reports which of userIDs are currently online. Missing ids are offline.
	Online(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

// RedisStore keeps one expiring key per online user.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a presence store over client.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Connect parses url, pings the server and returns a store.
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) Touch(ctx context.Context, userID int64) error {
	if err := s.client.Set(ctx, key(userID), time.Now().UTC().Unix(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to touch presence: %w", err)
	}
	return nil
}

func (s *RedisStore) Online(ctx context.Context, userIDs []int64) (map[int64]bool, error) {
	online := make(map[int64]bool, len(userIDs))
	if len(userIDs) == 0 {
		return online, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return online, fmt.Errorf("failed to read presence: %w", err)
	}
	for i, v := range values {
		if v != nil {
			online[userIDs[i]] = true
		}
	}
	return online, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NoopStore reports every user offline.
type NoopStore struct{}

func (NoopStore) Touch(context.Context, int64) error { return nil }

func (NoopStore) Online(_ context.Context, _ []int64) (map[int64]bool, error) {
	return map[int64]bool{}, nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = NoopStore{}
)
