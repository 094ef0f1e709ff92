// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dashboard implements the admin dashboard session: a small state
// machine (closed, or open on one of four tabs) that owns the cached stats,
// the comment list and the traffic monitor while the dashboard is open.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"biolink/internal/analytics"
	"biolink/internal/models"
)

// Tab is one of the dashboard views.
type Tab string

const (
	TabAnalytics Tab = "analytics"
	TabProfile   Tab = "profile"
	TabLinks     Tab = "links"
	TabComments  Tab = "comments"
)

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabAnalytics, TabProfile, TabLinks, TabComments:
		return true
	}
	return false
}

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("dashboard closed")

// Fetcher is the row-store access the dashboard needs.
type Fetcher interface {
	Stats(ctx context.Context) (analytics.Stats, error)
	Comments(ctx context.Context) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// View is a read-only snapshot of a session.
type View struct {
	Open     bool
	Tab      Tab
	Stats    analytics.Stats
	Comments []models.Comment
	Traffic  []analytics.Sample
}

// Session is one admin's dashboard. All methods are safe for concurrent
// use. Fetch results that arrive after Close, or after a newer Open, are
// discarded.
type Session struct {
	fetch   Fetcher
	monitor *analytics.Monitor

	mu       sync.Mutex
	open     bool
	gen      uint64
	tab      Tab
	stats    analytics.Stats
	comments []models.Comment
	lastSeen time.Time
}

// NewSession creates a closed session.
func NewSession(fetch Fetcher, monitor *analytics.Monitor) *Session {
	return &Session{fetch: fetch, monitor: monitor}
}

// Open moves the session to the analytics tab, fetches stats and comments
// and starts the traffic monitor. Fetch errors are returned but the
// session stays open with whatever data could be loaded.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.open = true
	s.tab = TabAnalytics
	s.stats = analytics.Stats{}
	s.comments = nil
	s.lastSeen = time.Now()
	s.mu.Unlock()

	s.monitor.Start(context.WithoutCancel(ctx))

	stats, statsErr := s.fetch.Stats(ctx)
	comments, commentsErr := s.fetch.Comments(ctx)

	s.mu.Lock()
	if !s.current(gen) {
		closed := !s.open
		s.mu.Unlock()
		if closed {
			// Close may have run before the monitor started.
			s.monitor.Stop()
		}
		return ErrClosed
	}
	if statsErr == nil {
		s.stats = stats
	}
	if commentsErr == nil {
		s.comments = comments
	}
	s.mu.Unlock()
	return errors.Join(statsErr, commentsErr)
}

// SwitchTab changes the visible tab without refetching.
func (s *Session) SwitchTab(t Tab) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tab %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrClosed
	}
	s.tab = t
	s.lastSeen = time.Now()
	return nil
}

// DeleteComment removes a comment and refetches only the comment list.
func (s *Session) DeleteComment(ctx context.Context, id uuid.UUID) error {
	gen, ok := s.generation()
	if !ok {
		return ErrClosed
	}

	if err := s.fetch.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	comments, err := s.fetch.Comments(ctx)
	if err != nil {
		return fmt.Errorf("refetch comments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current(gen) {
		s.comments = comments
	}
	return nil
}

// ReloadStats refetches the analytics stats, e.g. after a reset.
func (s *Session) ReloadStats(ctx context.Context) error {
	gen, ok := s.generation()
	if !ok {
		return ErrClosed
	}

	stats, err := s.fetch.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reload stats: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current(gen) {
		s.stats = stats
	}
	return nil
}

// Close stops the monitor. No further row-store calls are made on behalf
// of this session until it is opened again.
func (s *Session) Close() {
	s.mu.Lock()
	s.open = false
	s.gen++
	s.mu.Unlock()

	s.monitor.Stop()
}

// Touch marks the session as in use.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		Open:     s.open,
		Tab:      s.tab,
		Stats:    s.stats,
		Comments: append([]models.Comment(nil), s.comments...),
	}
	s.mu.Unlock()

	v.Traffic = s.monitor.Samples()
	return v
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.open
}

func (s *Session) generation() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, s.open
}

// current must be called with mu held.
func (s *Session) current(gen uint64) bool {
	return s.open && s.gen == gen
}
