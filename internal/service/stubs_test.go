package service

import (
	"context"
	"errors"
	"testing"

	"sportpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, string, func(*models.User) error) (*models.User, error)
	updateRoleFn    func(context.Context, string, models.Role) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
	return s.updateFn(ctx, id, mutate)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = "new-user"
			return nil
		},
		updateFn: func(_ context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
			u := &models.User{ID: id}
			if err := mutate(u); err != nil {
				return nil, err
			}
			return u, nil
		},
		updateRoleFn: func(_ context.Context, _ string, _ models.Role) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, string) (*models.Post, error)
	existsFn         func(context.Context, string) (bool, error)
	listFn           func(context.Context, int, int) ([]*models.Post, error)
	listByAuthorFn   func(context.Context, string) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, string) error
	incrementViewsFn func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id string) error {
	return s.incrementViewsFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:         func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:        func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		existsFn:         func(_ context.Context, _ string) (bool, error) { return true, nil },
		listFn:           func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:   func(_ context.Context, _ string) ([]*models.Post, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ string) error { return nil },
		incrementViewsFn: func(_ context.Context, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, string) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		listByPostFn: func(_ context.Context, _ string) ([]*models.Comment, error) { return []*models.Comment{}, nil },
	}
}

type tokenIssuerStub struct {
	issueFn func(string, string) (string, error)
}

func (s tokenIssuerStub) Issue(userID, username string) (string, error) {
	if s.issueFn == nil {
		return "token-" + userID, nil
	}
	return s.issueFn(userID, username)
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
