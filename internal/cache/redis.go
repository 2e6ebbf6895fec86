package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightreservation/config"
	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

type RedisCache struct {
	client     redis.Cmdable
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns nil without error on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.FlightSummary, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightSummary
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.FlightSummary) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// ClaimRequest marks an idempotency key as in progress. When the key is already taken it
// reports the stored value: the booking id of a finished request or "" while still pending.
func (c *RedisCache) ClaimRequest(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	ok, err := c.client.SetNX(ctx, requestKey(key), pendingMarker, ttl).Result()
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, "", nil
	}

	existing, err := c.client.Get(ctx, requestKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			return c.ClaimRequest(ctx, key, ttl)
		}
		return false, "", err
	}
	if existing == pendingMarker {
		return false, "", nil
	}
	return false, existing, nil
}

// CompleteRequest records the booking created for key.
func (c *RedisCache) CompleteRequest(ctx context.Context, key, bookingID string, ttl time.Duration) error {
	return c.client.Set(ctx, requestKey(key), bookingID, ttl).Err()
}

func (c *RedisCache) ReleaseRequest(ctx context.Context, key string) error {
	return c.client.Del(ctx, requestKey(key)).Err()
}

func (c *RedisCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func flightsKey() string {
	return "cache:flights"
}

func requestKey(key string) string {
	return "idempotency:booking:" + key
}
