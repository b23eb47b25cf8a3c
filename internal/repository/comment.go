package repository

import (
	"context"

	"sportpulse/internal/cache"
	"sportpulse/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostComments(ctx, comment.PostID)
	return nil
}

// ListByPost returns a post's comments, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := cache.Aside(ctx, cache.PostCommentsKey(postID), &comments, cache.PostCommentsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("post_id = ?", postID).
			Order("created_at DESC").
			Find(&comments).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
