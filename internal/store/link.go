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

const linkColumns = `id, title, url, status, category, visit_count, position`

// LinkStore handles the ordered link list.
type LinkStore struct {
	db *sql.DB
}

// NewLinkStore creates a new LinkStore with the given database connection.
func NewLinkStore(db *sql.DB) *LinkStore {
	return &LinkStore{db: db}
}

func scanLink(row interface{ Scan(...any) error }, l *models.Link) error {
	return row.Scan(&l.ID, &l.Title, &l.URL, &l.Status, &l.Category, &l.VisitCount, &l.Position)
}

// List returns all links in display order.
func (s *LinkStore) List(ctx context.Context) ([]models.Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM links ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var l models.Link
		if err := scanLink(rows, &l); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// FindByID retrieves a link. Returns nil if not found.
func (s *LinkStore) FindByID(ctx context.Context, id int64) (*models.Link, error) {
	l := &models.Link{}
	err := scanLink(s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id), l)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find link by id: %w", err)
	}
	return l, nil
}

// Create inserts a link and sets its row-store assigned ID.
func (s *LinkStore) Create(ctx context.Context, l *models.Link) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO links (title, url, status, category, visit_count, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		l.Title, l.URL, l.Status, l.Category, l.VisitCount, l.Position,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

// Update writes the editable fields of an existing link. The visit count
// is left alone; use SetVisitCount for that.
func (s *LinkStore) Update(ctx context.Context, l *models.Link) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE links SET title = $1, url = $2, status = $3, category = $4, position = $5
		WHERE id = $6`,
		l.Title, l.URL, l.Status, l.Category, l.Position, l.ID,
	)
	if err != nil {
		return fmt.Errorf("update link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a link by ID.
func (s *LinkStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// VisitCount returns the stored click count of a link, zero if the link
// does not exist.
func (s *LinkStore) VisitCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT visit_count FROM links WHERE id = $1`, id).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get link visit count: %w", err)
	}
	return n, nil
}

// SetVisitCount overwrites the click count of one link.
func (s *LinkStore) SetVisitCount(ctx context.Context, id int64, count int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE links SET visit_count = $1 WHERE id = $2`, count, id); err != nil {
		return fmt.Errorf("set link visit count: %w", err)
	}
	return nil
}

// SumVisits returns the total click count across all links.
func (s *LinkStore) SumVisits(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(visit_count), 0) FROM links`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum link visits: %w", err)
	}
	return total, nil
}
