package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biolink/internal/models"
)

func TestLinkStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewLinkStore(testDB(t))

	second := &models.Link{Title: "Second", URL: "https://b.example", Status: models.LinkStatusActive, Position: 1}
	first := &models.Link{Title: "First", URL: "https://a.example", Status: models.LinkStatusOffline, Category: "old", Position: 0}
	require.NoError(t, s.Create(ctx, second))
	require.NoError(t, s.Create(ctx, first))
	assert.True(t, second.IsPersisted())
	assert.NotEqual(t, first.ID, second.ID)

	links, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "First", links[0].Title)
	assert.Equal(t, models.LinkStatusOffline, links[0].Status)
	assert.Equal(t, "Second", links[1].Title)

	first.Title = "Renamed"
	require.NoError(t, s.Update(ctx, first))
	got, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)

	require.NoError(t, s.Delete(ctx, first.ID))
	got, err = s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, s.Update(ctx, first), ErrNotFound)
}

func TestLinkStoreVisitCounts(t *testing.T) {
	ctx := context.Background()
	s := NewLinkStore(testDB(t))

	a := &models.Link{Title: "A", URL: "https://a.example", Status: models.LinkStatusActive}
	b := &models.Link{Title: "B", URL: "https://b.example", Status: models.LinkStatusActive}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	total, err := s.SumVisits(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, s.SetVisitCount(ctx, a.ID, 7))
	require.NoError(t, s.SetVisitCount(ctx, b.ID, 3))

	n, err := s.VisitCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = s.VisitCount(ctx, 9999)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err = s.SumVisits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	// Update leaves the counter untouched.
	a.Title = "A2"
	require.NoError(t, s.Update(ctx, a))
	n, err = s.VisitCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
