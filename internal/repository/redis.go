package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safarinova/internal/config"
	"safarinova/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisClaimsCache struct {
	client *redis.Client
}

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	return redis.NewClient(options)
}

func NewRedisClaimsCache(client *redis.Client) *RedisClaimsCache {
	return &RedisClaimsCache{client: client}
}

func (r *RedisClaimsCache) GetClaims(ctx context.Context, fingerprint string) (*models.Claims, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := claimsKey(fingerprint)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claims from redis: %w", err)
	}

	var claims models.Claims
	if err := json.Unmarshal([]byte(val), &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}
	return &claims, nil
}

func (r *RedisClaimsCache) SetClaims(ctx context.Context, fingerprint string, claims *models.Claims, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %w", err)
	}
	if err := r.client.Set(ctx, claimsKey(fingerprint), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set claims in redis: %w", err)
	}
	return nil
}

func claimsKey(fingerprint string) string {
	return fmt.Sprintf("claims:%s", fingerprint)
}
