package repository

import (
	"context"
	"testing"
	"time"

	"sportpulse/internal/cache"
	"sportpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	mr := withRedis(t)
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	empty, err := repo.ListByPost(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.True(t, mr.Exists(cache.PostCommentsKey("p-1")))

	require.NoError(t, repo.Create(ctx, &models.Comment{Comment: "nice", Author: "ann", PostID: "p-1", CreatedAt: base}))
	assert.False(t, mr.Exists(cache.PostCommentsKey("p-1")), "create invalidates the cached list")

	require.NoError(t, repo.Create(ctx, &models.Comment{Comment: "great", Author: "cat", PostID: "p-1", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &models.Comment{Comment: "elsewhere", Author: "cat", PostID: "p-2", CreatedAt: base}))

	comments, err := repo.ListByPost(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "great", comments[0].Comment)
	assert.Equal(t, "nice", comments[1].Comment)
	assert.NotEmpty(t, comments[0].ID)
}
