// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const upsertConfigSQL = `
	INSERT INTO profile_config (key, value, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (key)
	DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// ProfileConfigStore manages the flat key/value profile configuration.
type ProfileConfigStore struct {
	db *sql.DB
}

// NewProfileConfigStore returns a new ProfileConfigStore backed by the given database.
func NewProfileConfigStore(db *sql.DB) *ProfileConfigStore {
	return &ProfileConfigStore{db: db}
}

// All returns every config row as a map.
func (s *ProfileConfigStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM profile_config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list profile config: %w", err)
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan profile config: %w", err)
		}
		config[k] = v
	}
	return config, rows.Err()
}

// Get returns a single value by key, or the fallback if not found or empty.
func (s *ProfileConfigStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM profile_config WHERE key = $1`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get profile config %s: %w", key, err)
	}
	if val == "" {
		return fallback, nil
	}
	return val, nil
}

// Set upserts a single key.
func (s *ProfileConfigStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertConfigSQL, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("set profile config %s: %w", key, err)
	}
	return nil
}

// SetMany upserts multiple keys in a single transaction.
func (s *ProfileConfigStore) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile config tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertConfigSQL)
	if err != nil {
		return fmt.Errorf("prepare profile config upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, v, now); err != nil {
			return fmt.Errorf("set profile config %s: %w", k, err)
		}
	}

	return tx.Commit()
}
