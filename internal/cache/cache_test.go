// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"biolink/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, profileKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "", 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestProfileCacheSetGetInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewProfileCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx); ok {
		t.Fatal("expected cache miss")
	}

	want := &models.Profile{
		Name:    "Ada",
		Links:   []models.Link{{ID: 1, Title: "Blog", URL: "https://a.example", Status: models.LinkStatusActive}},
		Socials: models.Socials{"github": "https://github.com/ada"},
		Theme:   "NOIR",
	}
	pc.Set(ctx, want)

	got, ok := pc.Get(ctx)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Name != "Ada" || len(got.Links) != 1 || got.Socials["github"] == "" || got.Theme != "NOIR" {
		t.Errorf("profile mismatch: %+v", got)
	}

	pc.Invalidate(ctx)
	if _, ok := pc.Get(ctx); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestNewProfileCacheDefaultTTL(t *testing.T) {
	pc := NewProfileCache(nil, 0)
	if pc.ttl != DefaultProfileTTL {
		t.Errorf("expected DefaultProfileTTL (%v), got %v", DefaultProfileTTL, pc.ttl)
	}
}
