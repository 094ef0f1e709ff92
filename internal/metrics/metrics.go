// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus instrumentation for HTTP traffic and
// the best-effort analytics writes. When metrics are disabled a no-op
// implementation is used so callers never need nil checks.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the instrumentation surface used by the rest of the app.
type Recorder interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, d time.Duration)
	IncVisitsRecorded()
	IncVisitStepFailures(step string)
	IncLinkClicks()
	IncReactions(emoji string)
}

// Prometheus implements Recorder on a dedicated registry.
type Prometheus struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	visitsRecorded   prometheus.Counter
	visitStepFailure *prometheus.CounterVec
	linkClicks       prometheus.Counter
	reactions        *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Prometheus{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biolink_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biolink_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		visitsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biolink_visits_recorded_total",
			Help: "Visits that passed the cooldown and were recorded",
		}),
		visitStepFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biolink_visit_step_failures_total",
			Help: "Failed counter writes while recording a visit, by step",
		}, []string{"step"}),
		linkClicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biolink_link_clicks_total",
			Help: "Outbound link clicks",
		}),
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biolink_reactions_total",
			Help: "Reactions received, by emoji",
		}, []string{"emoji"}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.visitsRecorded,
		m.visitStepFailure,
		m.linkClicks,
		m.reactions,
	)
	return m
}

func (m *Prometheus) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
}

func (m *Prometheus) ObserveRequestDuration(route string, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Prometheus) IncVisitsRecorded() {
	m.visitsRecorded.Inc()
}

func (m *Prometheus) IncVisitStepFailures(step string) {
	m.visitStepFailure.WithLabelValues(step).Inc()
}

func (m *Prometheus) IncLinkClicks() {
	m.linkClicks.Inc()
}

func (m *Prometheus) IncReactions(emoji string) {
	m.reactions.WithLabelValues(emoji).Inc()
}

// Gatherer returns the registry backing this recorder.
func (m *Prometheus) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop discards everything.
type Noop struct{}

func (Noop) IncRequestsTotal(string, int)                 {}
func (Noop) ObserveRequestDuration(string, time.Duration) {}
func (Noop) IncVisitsRecorded()                           {}
func (Noop) IncVisitStepFailures(string)                  {}
func (Noop) IncLinkClicks()                               {}
func (Noop) IncReactions(string)                          {}
