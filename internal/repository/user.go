// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"sportpulse/internal/cache"
	"sportpulse/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the Redis form of a user. ProfileCompletedAt stays out of API
// responses but the registration step is derived from it, so it is cached too.
type cachedUser struct {
	models.User
	ProfileCompletedAt *time.Time `json:"profileCompletedAt,omitempty"`
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var entry cachedUser

	err := cache.Aside(ctx, cache.UserKey(id), &entry, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry.User).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry.ProfileCompletedAt = entry.User.ProfileCompletedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	user := entry.User
	user.ProfileCompletedAt = entry.ProfileCompletedAt
	user.SyncStep()
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByUsername returns nil, nil when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	user.SyncStep()
	return nil
}

// Update loads the user uncached inside a transaction, applies mutate and
// saves the result. The cached copy drops hidden columns so it is never
// used as the base for a write.
func (r *userRepository) Update(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		if err := mutate(&user); err != nil {
			return err
		}
		if err := tx.Omit("Posts").Save(&user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("User already exists")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.SyncStep()
	cache.InvalidateUser(ctx, id)
	return &user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
