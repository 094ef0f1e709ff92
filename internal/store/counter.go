// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"biolink/internal/models"
)

// CounterStore manages a two-column key/count table. The analytics and
// reactions tables share this shape and differ only in the key column.
type CounterStore struct {
	db *sql.DB

	listSQL   string
	getSQL    string
	upsertSQL string
	deleteSQL string
	sumSQL    string
}

// NewCounterStore builds a store for table with the given key column.
// Both identifiers are compile-time constants, never user input.
func NewCounterStore(db *sql.DB, table, keyColumn string) *CounterStore {
	return &CounterStore{
		db:      db,
		listSQL: fmt.Sprintf(`SELECT %[2]s, count FROM %[1]s ORDER BY %[2]s`, table, keyColumn),
		getSQL:  fmt.Sprintf(`SELECT count FROM %s WHERE %s = $1`, table, keyColumn),
		upsertSQL: fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, count) VALUES ($1, $2)
			ON CONFLICT (%[2]s) DO UPDATE SET count = EXCLUDED.count`, table, keyColumn),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s`, table),
		sumSQL:    fmt.Sprintf(`SELECT COALESCE(SUM(count), 0) FROM %s`, table),
	}
}

// NewAnalyticsStore returns the store for the analytics(key, count) table.
func NewAnalyticsStore(db *sql.DB) *CounterStore {
	return NewCounterStore(db, "analytics", "key")
}

// NewReactionStore returns the store for the reactions(emoji, count) table.
func NewReactionStore(db *sql.DB) *CounterStore {
	return NewCounterStore(db, "reactions", "emoji")
}

// List returns every counter row ordered by key.
func (s *CounterStore) List(ctx context.Context) ([]models.Counter, error) {
	rows, err := s.db.QueryContext(ctx, s.listSQL)
	if err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	defer rows.Close()

	var counters []models.Counter
	for rows.Next() {
		var c models.Counter
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters = append(counters, c)
	}
	return counters, rows.Err()
}

// Get returns the count for key. A missing row reads as zero.
func (s *CounterStore) Get(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", key, err)
	}
	return n, nil
}

// Upsert writes count for key, inserting the row if needed.
func (s *CounterStore) Upsert(ctx context.Context, key string, count int64) error {
	if _, err := s.db.ExecContext(ctx, s.upsertSQL, key, count); err != nil {
		return fmt.Errorf("upsert counter %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes every row from the table.
func (s *CounterStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.deleteSQL); err != nil {
		return fmt.Errorf("delete counters: %w", err)
	}
	return nil
}

// Sum returns the total of all counts in the table.
func (s *CounterStore) Sum(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, s.sumSQL).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum counters: %w", err)
	}
	return total, nil
}
