// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// profile.go caches the assembled Profile in Valkey so public page renders
// skip the two row-store reads. Every editor write invalidates it.

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"biolink/internal/models"
)

const (
	// profileKey is the Valkey key holding the cached profile.
	profileKey = "profile:current"

	// DefaultProfileTTL is how long an assembled profile stays cached.
	DefaultProfileTTL = 5 * time.Minute
)

// ProfileCache stores the assembled profile as JSON in Valkey.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a profile cache backed by the given Valkey client.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl == 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile, or false on miss or error.
func (pc *ProfileCache) Get(ctx context.Context) (*models.Profile, bool) {
	val, err := pc.client.Get(ctx, profileKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("profile cache get error", "error", err)
		return nil, false
	}

	var p models.Profile
	if err := json.Unmarshal(val, &p); err != nil {
		slog.Warn("profile cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("profile cache hit")
	return &p, true
}

// Set stores the profile with the configured TTL.
func (pc *ProfileCache) Set(ctx context.Context, p *models.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Warn("profile cache encode error", "error", err)
		return
	}
	if err := pc.client.Set(ctx, profileKey, data, pc.ttl).Err(); err != nil {
		slog.Warn("profile cache set error", "error", err)
	}
}

// Invalidate drops the cached profile.
func (pc *ProfileCache) Invalidate(ctx context.Context) {
	if err := pc.client.Del(ctx, profileKey).Err(); err != nil {
		slog.Warn("profile cache invalidate error", "error", err)
	}
	slog.Debug("profile cache invalidated")
}
