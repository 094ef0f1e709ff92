// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"biolink/internal/models"
)

// TableClearer deletes every row of a counter table.
type TableClearer interface {
	DeleteAll(ctx context.Context) error
}

// LinkZeroer lists links and overwrites their click counters.
type LinkZeroer interface {
	List(ctx context.Context) ([]models.Link, error)
	SetVisitCount(ctx context.Context, id int64, count int64) error
}

// Invalidator drops cached copies of data that embed link counters.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Resetter wipes collected analytics.
type Resetter struct {
	analytics TableClearer
	reactions TableClearer
	links     LinkZeroer
	cache     Invalidator
}

// NewResetter creates a Resetter. cache may be nil; when set it is
// invalidated once link counters have been touched.
func NewResetter(analytics, reactions TableClearer, links LinkZeroer, cache Invalidator) *Resetter {
	return &Resetter{analytics: analytics, reactions: reactions, links: links, cache: cache}
}

// ResetAll deletes all analytics rows, then all reaction rows, then zeroes
// every link counter with one write per link. The link writes run
// concurrently and all of them are awaited. Nothing is rolled back: a
// failure leaves whatever was already written.
func (r *Resetter) ResetAll(ctx context.Context) error {
	if err := r.analytics.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset analytics: %w", err)
	}
	if err := r.reactions.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset reactions: %w", err)
	}

	links, err := r.links.List(ctx)
	if err != nil {
		return fmt.Errorf("reset links: %w", err)
	}
	if r.cache != nil {
		defer r.cache.Invalidate(ctx)
	}

	var g errgroup.Group
	for _, l := range links {
		id := l.ID
		g.Go(func() error {
			if err := r.links.SetVisitCount(ctx, id, 0); err != nil {
				return fmt.Errorf("reset link %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("analytics reset", "links", len(links))
	return nil
}

// Purge deletes the analytics table only. Reactions and link counters are
// kept.
func (r *Resetter) Purge(ctx context.Context) error {
	if err := r.analytics.DeleteAll(ctx); err != nil {
		return fmt.Errorf("purge analytics: %w", err)
	}
	slog.Info("analytics purged")
	return nil
}
