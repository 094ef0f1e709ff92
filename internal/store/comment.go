// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"biolink/internal/models"
)

// CommentStore handles the visitor guestbook.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// List returns comments newest first, capped at limit (0 means no cap).
func (s *CommentStore) List(ctx context.Context, limit int) ([]models.Comment, error) {
	query := `SELECT id, name, content, created_at FROM comments ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = time.UnixMilli(createdAt)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a comment, assigning its ID and timestamp when unset.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, name, content, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID.String(), c.Name, c.Content, c.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id.String()); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// Count returns the number of stored comments.
func (s *CommentStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}
