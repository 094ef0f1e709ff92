// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package analytics

import (
	"context"
	"fmt"

	"biolink/internal/models"
)

// CounterReader reads a single counter.
type CounterReader interface {
	Get(ctx context.Context, key string) (int64, error)
}

// CounterSummer sums a counter table.
type CounterSummer interface {
	Sum(ctx context.Context) (int64, error)
}

// Counter counts rows.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ClickSummer sums link click counters.
type ClickSummer interface {
	SumVisits(ctx context.Context) (int64, error)
}

// GatewayTotals reads the four traffic totals from the row store.
type GatewayTotals struct {
	Analytics CounterReader
	Comments  Counter
	Reactions CounterSummer
	Links     ClickSummer
}

// Totals implements TotalsSource.
func (g GatewayTotals) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	var err error

	if t.Visits, err = g.Analytics.Get(ctx, models.KeyTotalVisits); err != nil {
		return Totals{}, fmt.Errorf("fetch total visits: %w", err)
	}
	if t.Comments, err = g.Comments.Count(ctx); err != nil {
		return Totals{}, fmt.Errorf("fetch comment count: %w", err)
	}
	if t.Reactions, err = g.Reactions.Sum(ctx); err != nil {
		return Totals{}, fmt.Errorf("fetch reaction total: %w", err)
	}
	if t.Clicks, err = g.Links.SumVisits(ctx); err != nil {
		return Totals{}, fmt.Errorf("fetch link clicks: %w", err)
	}
	return t, nil
}
