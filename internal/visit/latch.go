// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package visit

import (
	"github.com/coocood/freecache"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Latch lets the recording routine run at most once per page load.
// Acquire returns true only for the first call with a given token.
type Latch interface {
	Acquire(token string) bool
}

// OnceLatch is a single boolean gate. It ignores the token and opens once
// for the lifetime of the value; use one per page load.
type OnceLatch struct {
	fired atomic.Bool
}

// Acquire returns true on the first call only.
func (l *OnceLatch) Acquire(string) bool {
	return l.fired.CompareAndSwap(false, true)
}

// CacheLatch remembers page-load tokens in a bounded in-process cache so a
// token is accepted once, however many beacons carry it. Tokens must be
// UUIDs issued when the page was rendered.
type CacheLatch struct {
	cache *freecache.Cache
	ttl   int
}

// NewCacheLatch returns a latch holding up to sizeBytes of tokens, each
// remembered for ttlSeconds.
func NewCacheLatch(sizeBytes, ttlSeconds int) *CacheLatch {
	return &CacheLatch{cache: freecache.NewCache(sizeBytes), ttl: ttlSeconds}
}

// Acquire returns true the first time a well-formed token is seen.
func (l *CacheLatch) Acquire(token string) bool {
	id, err := uuid.Parse(token)
	if err != nil {
		return false
	}
	prev, err := l.cache.GetOrSet(id[:], []byte{1}, l.ttl)
	return err == nil && prev == nil
}
