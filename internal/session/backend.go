// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

// ValkeyBackend stores sessions in Valkey.
type ValkeyBackend struct {
	client *redis.Client
}

// NewValkeyBackend wraps a connected Valkey client.
func NewValkeyBackend(client *redis.Client) *ValkeyBackend {
	return &ValkeyBackend{client: client}
}

func (b *ValkeyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	return val, err
}

func (b *ValkeyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *ValkeyBackend) Del(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

// MemoryBackend keeps sessions in a bounded in-process cache. Sessions do
// not survive a restart and are not shared between instances.
type MemoryBackend struct {
	cache *freecache.Cache
}

// NewMemoryBackend allocates a cache of sizeBytes.
func NewMemoryBackend(sizeBytes int) *MemoryBackend {
	return &MemoryBackend{cache: freecache.NewCache(sizeBytes)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	val, err := b.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrMiss
	}
	return val, err
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return b.cache.Set([]byte(key), value, int(ttl.Seconds()))
}

func (b *MemoryBackend) Del(_ context.Context, key string) error {
	b.cache.Del([]byte(key))
	return nil
}
