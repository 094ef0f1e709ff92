// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package analytics derives dashboard statistics from the raw counter
// table, maintains the rolling traffic window, builds the text report and
// performs counter resets.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"biolink/internal/models"
)

// Placeholder shown when a leaderboard has no rows yet.
const Placeholder = "No data yet"

const (
	topReferrers = 5
	topLinks     = 5
)

// Share is one row of a distribution: a bucket name, its count and its
// rounded percentage of the bucket family's total.
type Share struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

// LinkBar is one bar of the top-clicked links chart. Width is a
// percentage of the most clicked link.
type LinkBar struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Count int64   `json:"count"`
	Width float64 `json:"width"`
}

// Stats is everything the analytics tab shows.
type Stats struct {
	TotalVisits int64     `json:"total_visits"`
	Referrers   []Share   `json:"referrers"`
	Platforms   []string  `json:"platforms"`
	Browsers    []Share   `json:"browsers"`
	Resolutions []Share   `json:"resolutions"`
	TopLinks    []LinkBar `json:"top_links"`
}

// TopLink returns the most clicked link, if any.
func (s Stats) TopLink() (LinkBar, bool) {
	if len(s.TopLinks) == 0 {
		return LinkBar{}, false
	}
	return s.TopLinks[0], true
}

// CounterLister lists analytics counters.
type CounterLister interface {
	List(ctx context.Context) ([]models.Counter, error)
}

// LinkLister lists links.
type LinkLister interface {
	List(ctx context.Context) ([]models.Link, error)
}

// Load fetches the counter table and links, then derives Stats.
func Load(ctx context.Context, counters CounterLister, links LinkLister) (Stats, error) {
	cs, err := counters.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load analytics counters: %w", err)
	}
	ls, err := links.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load analytics links: %w", err)
	}
	return Derive(cs, ls), nil
}

// Derive computes Stats. Sorts are stable, so equal counts keep the order
// in which the row store returned them.
func Derive(counters []models.Counter, links []models.Link) Stats {
	s := Stats{
		Referrers:   distribution(counters, models.PrefixReferrer, topReferrers),
		Browsers:    distribution(counters, models.PrefixBrowser, 0),
		Resolutions: distribution(counters, models.PrefixResolution, 0),
		TopLinks:    linkBars(links),
	}

	for _, c := range counters {
		if c.Key == models.KeyTotalVisits {
			s.TotalVisits = c.Count
			break
		}
	}

	if len(s.Referrers) == 0 {
		s.Referrers = []Share{{Name: Placeholder}}
	}

	for _, p := range distribution(counters, models.PrefixPlatform, 0) {
		s.Platforms = append(s.Platforms, fmt.Sprintf("%s (%d)", p.Name, p.Count))
	}
	if len(s.Platforms) == 0 {
		s.Platforms = []string{Placeholder}
	}

	return s
}

// distribution filters counters by prefix, strips it, sorts descending and
// keeps the first limit rows (0 keeps all). Percentages are relative to
// the filtered family's total, not to the kept rows or the whole table.
func distribution(counters []models.Counter, prefix string, limit int) []Share {
	var shares []Share
	var total int64
	for _, c := range counters {
		if !c.HasPrefix(prefix) {
			continue
		}
		shares = append(shares, Share{Name: c.Name(prefix), Count: c.Count})
		total += c.Count
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	if limit > 0 && len(shares) > limit {
		shares = shares[:limit]
	}

	for i := range shares {
		if total > 0 {
			shares[i].Percent = int(math.Round(float64(shares[i].Count) * 100 / float64(total)))
		}
	}
	return shares
}

func linkBars(links []models.Link) []LinkBar {
	sorted := make([]models.Link, len(links))
	copy(sorted, links)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VisitCount > sorted[j].VisitCount
	})

	var top int64
	for _, l := range links {
		top = max(top, l.VisitCount)
	}
	denom := float64(max(1, top))

	if len(sorted) > topLinks {
		sorted = sorted[:topLinks]
	}
	bars := make([]LinkBar, 0, len(sorted))
	for _, l := range sorted {
		bars = append(bars, LinkBar{
			ID:    l.ID,
			Title: l.Title,
			Count: l.VisitCount,
			Width: float64(l.VisitCount) / denom * 100,
		})
	}
	return bars
}
