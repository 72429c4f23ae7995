package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finbridge/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent; callers fall through to the
// database.
var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Issuer caching. The cached value is the full tree, so quote traffic is
// served without touching postgres between catalog edits.

func (s *CacheService) CacheIssuer(ctx context.Context, issuer *models.Issuer) error {
	if issuer == nil {
		return errors.New("cannot cache nil issuer")
	}
	return s.Set(ctx, s.GenerateKey("issuer", "code", issuer.Code), issuer)
}

func (s *CacheService) GetIssuer(ctx context.Context, code string) (*models.Issuer, error) {
	var issuer models.Issuer
	if err := s.Get(ctx, s.GenerateKey("issuer", "code", code), &issuer); err != nil {
		return nil, err
	}
	return &issuer, nil
}

func (s *CacheService) InvalidateIssuer(ctx context.Context, code string) error {
	return s.Delete(ctx, s.GenerateKey("issuer", "code", code))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
