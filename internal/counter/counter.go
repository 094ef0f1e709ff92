// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package counter implements the best-effort read-then-write increments
// used for analytics keys, reactions and link clicks.
//
// Increments are deliberately not atomic: the current value is read, then
// count+1 is written back. Two concurrent increments of the same key can
// lose one update. Callers treat counters as approximate.
package counter

import (
	"context"
	"fmt"
)

// Store reads and writes keyed counts. A missing key reads as zero.
type Store interface {
	Get(ctx context.Context, key string) (int64, error)
	Upsert(ctx context.Context, key string, count int64) error
}

// LinkStore reads and writes the click count of a single link.
type LinkStore interface {
	VisitCount(ctx context.Context, id int64) (int64, error)
	SetVisitCount(ctx context.Context, id int64, count int64) error
}

// Increment adds one to key and returns the value written.
func Increment(ctx context.Context, s Store, key string) (int64, error) {
	cur, err := s.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", key, err)
	}
	next := cur + 1
	if err := s.Upsert(ctx, key, next); err != nil {
		return 0, fmt.Errorf("write counter %s: %w", key, err)
	}
	return next, nil
}

// IncrementLink adds one to a link's visit count and returns the value written.
func IncrementLink(ctx context.Context, s LinkStore, id int64) (int64, error) {
	cur, err := s.VisitCount(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("read link %d clicks: %w", id, err)
	}
	next := cur + 1
	if err := s.SetVisitCount(ctx, id, next); err != nil {
		return 0, fmt.Errorf("write link %d clicks: %w", id, err)
	}
	return next, nil
}
