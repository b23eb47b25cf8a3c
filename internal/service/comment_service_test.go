package service

import (
	"context"
	"testing"

	"sportpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.existsFn = func(_ context.Context, id string) (bool, error) { return id == "p-1", nil }
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID string) ([]*models.Comment, error) {
		return []*models.Comment{{ID: "c-1", PostID: postID, Comment: "nice"}}, nil
	}
	svc := NewCommentService(comments, posts)

	got, err := svc.ListComments(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nice", got[0].Comment)

	_, err = svc.ListComments(context.Background(), "missing")
	assertAppError(t, err, models.CodeNotFound)
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	var saved *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		saved = c
		return nil
	}
	svc := NewCommentService(comments, noopPostRepo())

	c, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:   "u-1",
		Username: "bob1",
		PostID:   "p-1",
		Comment:  "  Great pace! ",
	})
	require.NoError(t, err)
	assert.Same(t, saved, c)
	assert.Equal(t, "Great pace!", c.Comment)
	assert.Equal(t, "bob1", c.Author)
	assert.Equal(t, "p-1", c.PostID)

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{PostID: "p-1", Comment: "   "})
	assertAppError(t, err, models.CodeValidation)
}
