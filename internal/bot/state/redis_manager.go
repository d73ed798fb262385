package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/qadha-helper/internal/logger"
)

// Inactive dialogs expire after a day.
const stateTTL = 24 * time.Hour

// RedisManager manages user states using Redis
type RedisManager struct {
	client *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(ctx context.Context, opts RedisOptions) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{
		client: client,
	}, nil
}

func stateKey(userID int64) string {
	return fmt.Sprintf("qadha:user:%d:state", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("qadha:user:%d:temp", userID)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	if err := m.client.Set(context.Background(), stateKey(userID), state, stateTTL).Err(); err != nil {
		logger.Warn("Failed to save user state", "telegram_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	state, err := m.client.Get(context.Background(), stateKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read user state", "telegram_id", userID, "error", err)
		}
		return None
	}
	return state
}

func (m *RedisManager) ClearUserState(userID int64) {
	m.client.Del(context.Background(), stateKey(userID))
}

// SetTempData stores one field of the user's temp hash and refreshes its TTL.
func (m *RedisManager) SetTempData(userID int64, key string, value string) {
	ctx := context.Background()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Failed to save temp data", "telegram_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	value, err := m.client.HGet(context.Background(), tempKey(userID), key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	m.client.Del(context.Background(), tempKey(userID))
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
