package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"sportpulse/internal/models"
	"sportpulse/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID   string
	Username string
	PostID   string
	Comment  string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, models.NewValidationError("Comment is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Comment:  text,
		Author:   in.Username,
		AuthorID: in.UserID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) requirePost(ctx context.Context, postID string) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}
