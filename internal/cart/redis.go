package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/types"
)

const cartKeyPrefix = "cart:"

// RedisStore persists carts as JSON blobs in Redis, one key per
// session, with the TTL refreshed on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects and pings the Redis server.
func NewRedisStore(cfg config.CartConfig, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "redis_cart"),
	}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Backend: "redis", Op: "load_cart", Err: err}
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &types.StorageError{Backend: "redis", Op: "load_cart", Err: err}
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return &types.StorageError{Backend: "redis", Op: "save_cart", Err: err}
	}
	if err := s.client.Set(ctx, cartKeyPrefix+cart.SessionID, raw, s.ttl).Err(); err != nil {
		return &types.StorageError{Backend: "redis", Op: "save_cart", Err: err}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return &types.StorageError{Backend: "redis", Op: "delete_cart", Err: err}
	}
	return nil
}

func (s *RedisStore) Close() error {
	s.logger.Info("redis cart store closing")
	return s.client.Close()
}

// NewStore creates the configured cart store backend.
func NewStore(cfg config.CartConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case "memory":
		return NewMemoryStore(cfg.TTL), nil
	case "redis":
		return NewRedisStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported cart store: %s", cfg.Store)
	}
}
