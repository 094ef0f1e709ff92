// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"biolink/internal/analytics"
)

// DefaultIdleTimeout closes dashboards whose tab stopped polling.
const DefaultIdleTimeout = 2 * time.Minute

// Manager keeps one dashboard Session per admin session ID.
type Manager struct {
	fetch    Fetcher
	totals   analytics.TotalsSource
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty registry. Each session gets its own monitor
// polling totals every interval.
func NewManager(fetch Fetcher, totals analytics.TotalsSource, interval time.Duration) *Manager {
	return &Manager{
		fetch:    fetch,
		totals:   totals,
		interval: interval,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session for id, creating it if needed, and opens it.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = NewSession(m.fetch, analytics.NewMonitor(m.totals, m.interval))
		m.sessions[id] = s
	}
	m.mu.Unlock()

	return s, s.Open(ctx)
}

// Get returns the open session for id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	s := m.sessions[id]
	m.mu.Unlock()

	if s == nil {
		return nil
	}
	if _, open := s.idleSince(); !open {
		return nil
	}
	return s
}

// Close closes and forgets the session for id.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than maxIdle and returns how many
// were closed.
func (m *Manager) Reap(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		last, open := s.idleSince()
		if !open || last.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run reaps idle sessions until ctx is done, then closes all of them.
func (m *Manager) Run(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		maxIdle = DefaultIdleTimeout
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			if n := m.Reap(maxIdle); n > 0 {
				slog.Info("closed idle dashboards", "count", n)
			}
		}
	}
}
