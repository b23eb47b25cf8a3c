package service

import (
	"context"
	"strings"
	"testing"

	"sportpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var saved *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		saved = p
		p.ID = "p-1"
		return nil
	}
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: "u-1",
		Username: "bob1",
		Title:    "  Morning run ",
		Text:     "5k easy",
		Category: "Running",
		ImgURL:   "/uploads/a.jpg",
	})
	require.NoError(t, err)
	assert.Same(t, saved, post)
	assert.Equal(t, "Morning run", post.Title)
	assert.Equal(t, "running", post.Category)
	assert.Equal(t, "u-1", post.AuthorID)
	assert.NotNil(t, post.Comments)
}

func TestPostService_CreatePostValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{name: "no title", in: CreatePostInput{Text: "x"}},
		{name: "no text", in: CreatePostInput{Title: "x"}},
		{name: "long title", in: CreatePostInput{Title: strings.Repeat("a", 201), Text: "x"}},
		{name: "long category", in: CreatePostInput{Title: "t", Text: "x", Category: strings.Repeat("c", 51)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewPostService(noopPostRepo())
			_, err := svc.CreatePost(context.Background(), tt.in)
			assertAppError(t, err, models.CodeValidation)
		})
	}
}

func TestPostService_DefaultCategory(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "  ", "All"} {
		assert.Equal(t, models.DefaultCategory, normalizeCategory(in))
	}
}

func TestPostService_ListPostsClampsLimit(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var gotLimit, gotOffset int
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}
	svc := NewPostService(repo)

	_, err := svc.ListPosts(context.Background(), ListPostsInput{Limit: 1000, Offset: -4})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, gotLimit)
	assert.Zero(t, gotOffset)

	_, err = svc.ListPosts(context.Background(), ListPostsInput{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestPostService_GetPostCountsView(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	views := 0
	repo.incrementViewsFn = func(_ context.Context, _ string) error {
		views++
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return &models.Post{ID: id, Views: views}, nil
	}
	svc := NewPostService(repo)

	post, err := svc.GetPost(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, post.Views)

	repo.incrementViewsFn = func(_ context.Context, id string) error { return models.NewNotFoundError("Post", id) }
	_, err = svc.GetPost(context.Background(), "missing")
	assertAppError(t, err, models.CodeNotFound)
}

func TestPostService_OwnerChecks(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: "owner", Title: "t", Text: "x", Category: "general"}, nil
	}
	deleted := ""
	repo.deleteFn = func(_ context.Context, id string) error {
		deleted = id
		return nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: "intruder", PostID: "p-1", Title: "hacked"})
	assertAppError(t, err, models.CodeForbidden)

	_, err = svc.DeletePost(ctx, "intruder", "p-1")
	assertAppError(t, err, models.CodeForbidden)
	assert.Empty(t, deleted)

	updated, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: "owner", PostID: "p-1", Title: "New title", Category: "Cycling"})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "x", updated.Text)
	assert.Equal(t, "cycling", updated.Category)

	removed, err := svc.DeletePost(ctx, "owner", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", removed.ID)
	assert.Equal(t, "p-1", deleted)
}
