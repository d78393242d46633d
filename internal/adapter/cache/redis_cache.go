package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

var _ port.Cache = (*RedisCache)(nil)

// RedisCache keeps the last published book per market so reconnecting
// clients can be served without entering the engine.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

func key(marketID string) string { return "book:" + marketID }

func (c *RedisCache) SetBook(ctx context.Context, marketID string, book *domain.PublishedBook) error {
	b, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(marketID), b, c.ttl).Err()
}

func (c *RedisCache) Book(ctx context.Context, marketID string) (*domain.PublishedBook, error) {
	b, err := c.client.Get(ctx, key(marketID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var book domain.PublishedBook
	if err := json.Unmarshal(b, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *RedisCache) Close() error { return c.client.Close() }
