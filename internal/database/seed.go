// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Seed populates an empty database with a placeholder profile and a few
// links so a fresh development instance renders something. It is a no-op
// once any profile_config row exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profile_config").Scan(&count); err != nil {
		return fmt.Errorf("seed check profile: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	config := [][2]string{
		{"name", "Ada Example"},
		{"title", "Systems tinkerer"},
		{"bio", "Building small things on the **internet**."},
		{"avatar", ""},
		{"status", "online"},
		{"activity", "shipping side projects"},
		{"socials", `{"github":"https://github.com/example","mastodon":"https://mastodon.social/@example"}`},
	}
	for _, kv := range config {
		if _, err := tx.Exec(
			`INSERT INTO profile_config (key, value, updated_at) VALUES ($1, $2, $3)`,
			kv[0], kv[1], now,
		); err != nil {
			return fmt.Errorf("seed insert config %s: %w", kv[0], err)
		}
	}

	links := []struct {
		title, url, status, category string
	}{
		{"Blog", "https://example.com/blog", "active", "writing"},
		{"Projects", "https://example.com/projects", "active", "code"},
		{"Vault", "https://example.com/vault", "encrypted", "private"},
		{"Old site", "https://old.example.com", "offline", "archive"},
	}
	for i, l := range links {
		if _, err := tx.Exec(
			`INSERT INTO links (title, url, status, category, visit_count, position) VALUES ($1, $2, $3, $4, 0, $5)`,
			l.title, l.url, l.status, l.category, i,
		); err != nil {
			return fmt.Errorf("seed insert link %s: %w", l.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with placeholder profile", "links", len(links))
	return nil
}
