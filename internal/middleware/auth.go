// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sportpulse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience is the aud claim stamped on every session token.
const Audience = "sportpulse-client"

var (
	ErrMissingToken    = errors.New("authorization header required")
	ErrMalformedHeader = errors.New("invalid authorization header format")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies stateless session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with HS256.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID, username string) (string, error) {
	now := m.now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}

// ExtractToken reads the token from an Authorization header value.
// "Bearer <token>" is always accepted; a bare token only when allowRaw is set.
func ExtractToken(header string, allowRaw bool) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 2 && strings.EqualFold(parts[0], "Bearer"):
		return parts[1], nil
	case len(parts) == 1 && allowRaw:
		return parts[0], nil
	default:
		return "", ErrMalformedHeader
	}
}

// AuthRequired enforces a valid session token and stores the caller in locals
// ("userID", "username") and in the user context.
func AuthRequired(tm *TokenManager, allowRaw func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := allowRaw != nil && allowRaw()
		tokenString, err := ExtractToken(c.Get(fiber.HeaderAuthorization), raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(capitalize(err.Error())))
		}

		claims, err := tm.Parse(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("userID", claims.Subject)
		c.Locals("username", claims.Username)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.Subject))

		return c.Next()
	}
}

// UserID returns the authenticated caller set by AuthRequired.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("userID").(string)
	return id, ok && id != ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
