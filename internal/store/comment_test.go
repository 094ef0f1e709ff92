package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biolink/internal/models"
)

func TestCommentStore(t *testing.T) {
	ctx := context.Background()
	s := NewCommentStore(testDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := &models.Comment{Name: "a", Content: "first", CreatedAt: base}
	newer := &models.Comment{Name: "b", Content: "second", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, s.Create(ctx, older))
	require.NoError(t, s.Create(ctx, newer))
	assert.NotEqual(t, uuid.Nil, older.ID)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.True(t, list[0].CreatedAt.Equal(newer.CreatedAt))

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.Delete(ctx, older.ID))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
