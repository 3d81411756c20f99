// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/getcardo/cardo/internal/platform/constants"
)

// cardCacheTTL bounds staleness of the public card read path. Writes
// invalidate eagerly, so the TTL only matters for out-of-band changes
// made directly in the database.
const cardCacheTTL = 10 * time.Minute

// RedisCache implements the Cache interface on top of Redis.
//
// Cards are stored as JSON under two keys, one per lookup dimension, so a
// hit on either the ID or the slug route skips Postgres entirely.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed card cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (cache *RedisCache) get(context context.Context, key string) (*Card, error) {
	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_card_cache_get_failed: %w", err)
	}

	card := &Card{}
	if err := json.Unmarshal(payload, card); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, nil
	}
	return card, nil
}

// GetByID returns the cached card for an ID, or (nil, nil) on a miss.
func (cache *RedisCache) GetByID(context context.Context, id string) (*Card, error) {
	return cache.get(context, constants.RedisPrefixCardByID+id)
}

// GetBySlug returns the cached card for a slug, or (nil, nil) on a miss.
func (cache *RedisCache) GetBySlug(context context.Context, slug string) (*Card, error) {
	return cache.get(context, constants.RedisPrefixCardBySlug+slug)
}

// Set stores the card under both its ID and slug keys with the shared TTL.
func (cache *RedisCache) Set(context context.Context, card *Card) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("redis_card_cache_marshal_failed: %w", err)
	}

	pipe := cache.client.Pipeline()
	pipe.Set(context, constants.RedisPrefixCardByID+card.ID, payload, cardCacheTTL)
	pipe.Set(context, constants.RedisPrefixCardBySlug+card.Slug, payload, cardCacheTTL)
	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_card_cache_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops both keys for a card after any write.
func (cache *RedisCache) Invalidate(context context.Context, id, slug string) error {
	err := cache.client.Del(context,
		constants.RedisPrefixCardByID+id,
		constants.RedisPrefixCardBySlug+slug,
	).Err()
	if err != nil {
		return fmt.Errorf("redis_card_cache_invalidate_failed: %w", err)
	}
	return nil
}
