// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package visit

import (
	"context"
	"log/slog"
	"time"

	"biolink/internal/counter"
	"biolink/internal/metrics"
	"biolink/internal/models"
	"biolink/internal/prefs"
)

// Recording steps, used in logs and as the metrics label.
const (
	StepTotal      = "total"
	StepReferrer   = "referrer"
	StepPlatform   = "platform"
	StepResolution = "resolution"
	StepBrowser    = "browser"
)

// Outcome describes what Record did.
type Outcome int

const (
	// Recorded means the visit was counted (possibly with failed steps).
	Recorded Outcome = iota
	// Duplicate means the page-load latch was already taken.
	Duplicate
	// NotDue means the visitor is still inside the cooldown window.
	NotDue
)

// Result is returned by Record. Failed lists the steps whose counter write
// failed; the remaining steps still ran.
type Result struct {
	Outcome Outcome
	Failed  []string
}

// Recorder counts visits into the analytics table.
type Recorder struct {
	counters counter.Store
	latch    Latch
	cooldown time.Duration
	now      func() time.Time
	metrics  metrics.Recorder
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(r *Recorder) { r.cooldown = d }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(r *Recorder) { r.metrics = m }
}

// NewRecorder creates a Recorder writing to counters and gated by latch.
func NewRecorder(counters counter.Store, latch Latch, opts ...Option) *Recorder {
	r := &Recorder{
		counters: counters,
		latch:    latch,
		cooldown: DefaultCooldown,
		now:      time.Now,
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record counts the visit described by b if it is due for the visitor
// behind p. The last-visit timestamp is persisted right after the total is
// incremented so a failure in a later step does not cause re-counting on
// the next load. Every counter write is independent; failures are logged
// and skipped.
func (r *Recorder) Record(ctx context.Context, b Beacon, p prefs.Store) Result {
	if !r.latch.Acquire(b.Token) {
		return Result{Outcome: Duplicate}
	}

	now := r.now()
	var last *time.Time
	if t, ok := p.LastVisit(); ok {
		last = &t
	}
	if !IsDue(last, now, r.cooldown) {
		return Result{Outcome: NotDue}
	}

	res := Result{Outcome: Recorded}
	r.step(ctx, &res, StepTotal, models.KeyTotalVisits)

	p.SetLastVisit(now)

	r.step(ctx, &res, StepReferrer, models.CounterKey(models.PrefixReferrer, ClassifyReferrer(b.Referrer)))
	r.step(ctx, &res, StepPlatform, models.CounterKey(models.PrefixPlatform, ClassifyPlatform(b.UserAgent, b.Platform)))
	r.step(ctx, &res, StepResolution, models.CounterKey(models.PrefixResolution, ClassifyResolution(b.ViewportWidth())))
	r.step(ctx, &res, StepBrowser, models.CounterKey(models.PrefixBrowser, ClassifyBrowser(b.UserAgent)))

	r.metrics.IncVisitsRecorded()
	return res
}

func (r *Recorder) step(ctx context.Context, res *Result, name, key string) {
	if _, err := counter.Increment(ctx, r.counters, key); err != nil {
		slog.Warn("visit step failed", "step", name, "key", key, "error", err)
		r.metrics.IncVisitStepFailures(name)
		res.Failed = append(res.Failed, name)
	}
}
