// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site holds the per-request application state: the active theme,
// the loaded profile and whether the admin gate is open. State is built
// once per request by Bootstrap and changed only through the functions in
// this package.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"biolink/internal/adminauth"
	"biolink/internal/models"
	"biolink/internal/prefs"
	"biolink/internal/theme"
)

// ProfileSource loads the current profile.
type ProfileSource interface {
	Load(ctx context.Context) (*models.Profile, error)
}

// ThemeWriter persists the site-wide theme.
type ThemeWriter interface {
	SetTheme(ctx context.Context, t theme.Theme) error
}

// State is the application state for one request.
type State struct {
	Theme   theme.Theme
	Profile *models.Profile

	// Admin is true once the passcode gate has been passed.
	Admin bool

	// Offline is set when the profile could not be loaded; Profile is then
	// an empty placeholder.
	Offline bool
}

// Bootstrap resolves the initial theme from the visitor's stored
// preference or the calendar, persists it, then loads the profile. A valid
// theme persisted in the profile overrides the local one and is written
// back to prefs. When loading fails the local theme is kept.
func Bootstrap(ctx context.Context, p prefs.Store, src ProfileSource, now time.Time) *State {
	s := &State{Theme: theme.Resolve(p.Theme(), now)}
	p.SetTheme(s.Theme)

	profile, err := src.Load(ctx)
	if err != nil {
		slog.Warn("profile load failed, keeping local theme", "theme", s.Theme, "error", err)
		s.Profile = &models.Profile{Links: []models.Link{}, Socials: models.Socials{}}
		s.Offline = true
		return s
	}
	s.Profile = profile

	if t, ok := theme.Parse(profile.Theme); ok && t != s.Theme {
		s.Theme = t
		p.SetTheme(t)
	}
	return s
}

// ChangeTheme switches the theme locally, then persists it site-wide. The
// local change sticks even if the remote write fails.
func ChangeTheme(ctx context.Context, s *State, p prefs.Store, w ThemeWriter, t theme.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("change theme: unknown theme %q", t)
	}
	s.Theme = t
	p.SetTheme(t)

	if err := w.SetTheme(ctx, t); err != nil {
		return fmt.Errorf("change theme: %w", err)
	}
	if s.Profile != nil {
		s.Profile.Theme = t.String()
	}
	return nil
}

// Refresh reloads the profile into s. A valid theme persisted in the
// profile replaces s.Theme. On failure s is left unchanged.
func Refresh(ctx context.Context, s *State, src ProfileSource) error {
	profile, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("refresh profile: %w", err)
	}
	s.Profile = profile
	s.Offline = false
	if t, ok := theme.Parse(profile.Theme); ok {
		s.Theme = t
	}
	return nil
}

// Login submits code to the passcode prompt and opens the admin gate on
// success. A closed prompt or wrong code leaves s.Admin unchanged.
func Login(s *State, prompt *adminauth.Prompt, code string) adminauth.Outcome {
	outcome := prompt.Submit(code)
	if outcome == adminauth.Granted {
		s.Admin = true
	}
	return outcome
}
