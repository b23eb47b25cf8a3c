package service

import (
	"context"
	"errors"
	"strings"

	"sportpulse/internal/models"
	"sportpulse/internal/observability"
	"sportpulse/internal/repository"
	"sportpulse/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hashCost int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Identifier string
	Password   string
}

// Session is a freshly issued token together with its user.
type Session struct {
	Token string
	User  *models.User
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Register")
	session, err := s.register(ctx, in)
	observability.EndSpan(span, err)
	recordAuth("register", err)
	return session, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := validation.NormalizeUsername(in.Username)
	email := validation.NormalizeEmail(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}
	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login looks the identifier up by email when it contains "@", by username otherwise.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Login")
	session, err := s.login(ctx, in)
	observability.EndSpan(span, err)
	recordAuth("login", err)
	return session, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (*Session, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, models.NewValidationError("Identifier and password are required")
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return s.issue(user)
}

// Refresh reloads the user behind a verified token and issues a new token.
func (s *AuthService) Refresh(ctx context.Context, userID string) (*Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.SyncStep()
	return &Session{Token: token, User: user}, nil
}

func recordAuth(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(codeOf(err))
	}
	observability.AuthEvents.WithLabelValues(event, outcome).Inc()
}

func codeOf(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return models.CodeInternal
}
