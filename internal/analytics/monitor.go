// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// DefaultPollInterval is how often the traffic window is advanced while
// the dashboard is open.
const DefaultPollInterval = 3 * time.Second

// TotalsSource fetches the four absolute totals for one poll.
type TotalsSource interface {
	Totals(ctx context.Context) (Totals, error)
}

// Monitor polls a TotalsSource on a ticker and feeds a Series. Each Start
// begins a new generation; a poll result is applied only if its generation
// is still current, so results landing after Stop are dropped.
type Monitor struct {
	src      TotalsSource
	interval time.Duration

	generation atomic.Uint64

	mu     sync.Mutex
	series *Series
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a stopped Monitor.
func NewMonitor(src TotalsSource, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{src: src, interval: interval, series: NewSeries()}
}

// Start resets the window and begins polling. The first poll runs
// immediately and only records the baseline. Calling Start on a running
// Monitor restarts it.
func (m *Monitor) Start(ctx context.Context) {
	m.Stop()

	gen := m.generation.Inc()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.mu.Lock()
	m.series = NewSeries()
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	go m.run(ctx, gen, done)
}

// Stop ends polling and waits for the loop to exit. In-flight fetches are
// cancelled and their results discarded.
func (m *Monitor) Stop() {
	m.generation.Inc()

	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Running reports whether a poll loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Samples returns a snapshot of the traffic window, oldest first.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series.Samples()
}

func (m *Monitor) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(ctx, gen)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx, gen)
		}
	}
}

func (m *Monitor) poll(ctx context.Context, gen uint64) {
	totals, err := m.src.Totals(ctx)
	if m.generation.Load() != gen {
		return
	}
	if err != nil {
		slog.Warn("traffic poll failed", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation.Load() != gen {
		return
	}
	m.series.Observe(totals)
}
