package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/infrastructure/config"
)

// RedisCartStore implements cart.Store using Redis. Each cart is stored as a
// single JSON value keyed by session ID, with a sliding TTL so abandoned
// carts expire on their own.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store with its own Redis client
func NewRedisCartStore(redisCfg config.RedisConfig, sessionCfg config.SessionConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, sessionCfg.KeyPrefix, sessionCfg.TTL), nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = "quickshop:cart:"
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get loads a session's cart. A session with no stored cart gets a fresh
// empty one; a missing key is not an error.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if sessionID == "" {
		return nil, cart.ErrEmptySession
	}

	data, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.NewCart(sessionID)
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// Put saves a cart and refreshes its TTL
func (s *RedisCartStore) Put(ctx context.Context, c *cart.Cart) error {
	if c == nil || c.SessionID == "" {
		return cart.ErrEmptySession
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+c.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes a session's cart. Deleting an absent cart is not an error.
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return cart.ErrEmptySession
	}

	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisCartStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisCartStore implements cart.Store
var _ cart.Store = (*RedisCartStore)(nil)
