// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"context"

	"github.com/google/uuid"

	"biolink/internal/analytics"
	"biolink/internal/models"
)

// commentLimit caps the comment list shown in the dashboard.
const commentLimit = 200

// CommentStore lists and deletes comments.
type CommentStore interface {
	List(ctx context.Context, limit int) ([]models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GatewayFetcher implements Fetcher on top of the row store.
type GatewayFetcher struct {
	Counters  analytics.CounterLister
	Links     analytics.LinkLister
	Guestbook CommentStore
}

func (g GatewayFetcher) Stats(ctx context.Context) (analytics.Stats, error) {
	return analytics.Load(ctx, g.Counters, g.Links)
}

func (g GatewayFetcher) Comments(ctx context.Context) ([]models.Comment, error) {
	return g.Guestbook.List(ctx, commentLimit)
}

func (g GatewayFetcher) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return g.Guestbook.Delete(ctx, id)
}
