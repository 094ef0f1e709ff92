// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package profile assembles the public Profile from the row store and
// applies admin edits to it. Every write is followed by a fresh load; no
// local state is merged optimistically.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"biolink/internal/markdown"
	"biolink/internal/models"
)

// ConfigReader reads the flat profile configuration.
type ConfigReader interface {
	All(ctx context.Context) (map[string]string, error)
}

// LinkReader lists links in display order.
type LinkReader interface {
	List(ctx context.Context) ([]models.Link, error)
}

// Cache holds the last assembled profile.
type Cache interface {
	Get(ctx context.Context) (*models.Profile, bool)
	Set(ctx context.Context, p *models.Profile)
	Invalidate(ctx context.Context)
}

// Loader builds Profiles from the profile_config and links tables.
type Loader struct {
	config ConfigReader
	links  LinkReader
	cache  Cache
}

// NewLoader creates a Loader. cache may be nil.
func NewLoader(config ConfigReader, links LinkReader, cache Cache) *Loader {
	if cache == nil {
		cache = noCache{}
	}
	return &Loader{config: config, links: links, cache: cache}
}

// Load returns the current profile, from cache when possible.
func (l *Loader) Load(ctx context.Context) (*models.Profile, error) {
	if p, ok := l.cache.Get(ctx); ok {
		return p, nil
	}

	config, err := l.config.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile config: %w", err)
	}
	links, err := l.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile links: %w", err)
	}

	p := Assemble(config, links)
	l.cache.Set(ctx, p)
	return p, nil
}

// Invalidate drops any cached profile so the next Load hits the row store.
func (l *Loader) Invalidate(ctx context.Context) {
	l.cache.Invalidate(ctx)
}

// Assemble builds a Profile from raw config rows and links. A malformed
// socials value is logged and replaced by an empty map.
func Assemble(config map[string]string, links []models.Link) *models.Profile {
	p := &models.Profile{
		Name:     config[models.ConfigName],
		Title:    config[models.ConfigTitle],
		Bio:      config[models.ConfigBio],
		Avatar:   config[models.ConfigAvatar],
		Status:   config[models.ConfigStatus],
		Activity: config[models.ConfigActivity],
		Theme:    config[models.ConfigTheme],
		Links:    links,
		Socials:  parseSocials(config[models.ConfigSocials]),
	}
	if p.Links == nil {
		p.Links = []models.Link{}
	}

	if p.Bio != "" {
		html, err := markdown.ToHTML(p.Bio)
		if err != nil {
			slog.Warn("render bio markdown", "error", err)
		} else {
			p.BioHTML = html
		}
	}
	return p
}

func parseSocials(raw string) models.Socials {
	socials := models.Socials{}
	if raw == "" {
		return socials
	}
	if err := json.Unmarshal([]byte(raw), &socials); err != nil {
		slog.Warn("malformed socials json, using empty map", "error", err)
		return models.Socials{}
	}
	return socials
}

type noCache struct{}

func (noCache) Get(context.Context) (*models.Profile, bool) { return nil, false }
func (noCache) Set(context.Context, *models.Profile)        {}
func (noCache) Invalidate(context.Context)                  {}
