// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prefs is the visitor-side preference store. It holds exactly two
// values: the last selected theme and the last counted visit.
package prefs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"biolink/internal/theme"
)

const (
	// ThemeCookie stores the theme tag.
	ThemeCookie = "bl_theme"

	// LastVisitCookie stores the millisecond epoch of the last counted visit.
	LastVisitCookie = "bl_last_visit"

	// maxAge keeps preferences for a year.
	maxAge = 365 * 24 * time.Hour
)

// Store reads and writes visitor preferences.
type Store interface {
	Theme() string
	SetTheme(t theme.Theme)
	LastVisit() (time.Time, bool)
	SetLastVisit(at time.Time)
}

// CookieStore keeps preferences in browser cookies. It is bound to a single
// request/response pair; writes are visible to later reads on the same
// instance.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	mu     sync.Mutex
	values map[string]string
}

// NewCookieStore wraps the request cookies. When secure is true, cookies are
// marked HTTPS-only.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure, values: make(map[string]string)}
}

func (s *CookieStore) get(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[name]; ok {
		return v
	}
	c, err := s.r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieStore) set(name, value string) {
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()

	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

// Theme returns the stored theme tag, or "" if none was saved.
func (s *CookieStore) Theme() string {
	return s.get(ThemeCookie)
}

// SetTheme persists the theme tag.
func (s *CookieStore) SetTheme(t theme.Theme) {
	s.set(ThemeCookie, string(t))
}

// LastVisit returns the last counted visit. Missing or malformed values
// report false.
func (s *CookieStore) LastVisit() (time.Time, bool) {
	return parseMillis(s.get(LastVisitCookie))
}

// SetLastVisit persists the visit time as a millisecond epoch string.
func (s *CookieStore) SetLastVisit(at time.Time) {
	s.set(LastVisitCookie, formatMillis(at))
}

// Memory is an in-process Store used by tests and the CLI.
type Memory struct {
	mu        sync.Mutex
	theme     string
	lastVisit string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *Memory) SetTheme(t theme.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = string(t)
}

func (m *Memory) LastVisit() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return parseMillis(m.lastVisit)
}

func (m *Memory) SetLastVisit(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastVisit = formatMillis(at)
}

func parseMillis(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func formatMillis(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10)
}
