package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"sportpulse/internal/models"
	"sportpulse/internal/observability"
	"sportpulse/internal/repository"
)

const (
	maxTitleLen    = 200
	maxTextLen     = 50000
	maxCategoryLen = 50
	// MaxListLimit caps the page size of post listings.
	MaxListLimit = 100
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	AuthorID string
	Username string
	Title    string
	Text     string
	Category string
	ImgURL   string
}

// UpdatePostInput carries the editable fields; empty fields keep their value.
type UpdatePostInput struct {
	UserID   string
	PostID   string
	Title    string
	Text     string
	Category string
	ImgURL   string
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	text := strings.TrimSpace(in.Text)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := checkPostLengths(title, text, in.Category); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		Text:     text,
		Category: normalizeCategory(in.Category),
		ImgURL:   in.ImgURL,
		AuthorID: in.AuthorID,
		Username: in.Username,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}
	observability.PostEvents.WithLabelValues("created").Inc()
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, userID)
}

// GetPost counts a view and returns the post with its comments.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if t := strings.TrimSpace(in.Title); t != "" {
		post.Title = t
	}
	if t := strings.TrimSpace(in.Text); t != "" {
		post.Text = t
	}
	if strings.TrimSpace(in.Category) != "" {
		post.Category = normalizeCategory(in.Category)
	}
	if in.ImgURL != "" {
		post.ImgURL = in.ImgURL
	}
	if err := checkPostLengths(post.Title, post.Text, post.Category); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	observability.PostEvents.WithLabelValues("updated").Inc()
	return post, nil
}

// DeletePost soft-deletes an owned post and returns it so callers can release its image.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}
	observability.PostEvents.WithLabelValues("deleted").Inc()
	return post, nil
}

func checkPostLengths(title, text, category string) error {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return models.NewValidationError("Text too long (max 50000 characters)")
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return models.NewValidationError("Category too long (max 50 characters)")
	}
	return nil
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" || c == "all" {
		return models.DefaultCategory
	}
	return c
}
