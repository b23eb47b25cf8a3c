package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func TestExtractToken(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		header   string
		allowRaw bool
		want     string
		wantErr  error
	}{
		{"bearer", "Bearer abc.def.ghi", false, "abc.def.ghi", nil},
		{"bearer lowercase", "bearer abc", false, "abc", nil},
		{"raw allowed", "abc.def.ghi", true, "abc.def.ghi", nil},
		{"raw rejected", "abc.def.ghi", false, "", ErrMalformedHeader},
		{"empty", "  ", true, "", ErrMissingToken},
		{"wrong scheme", "Basic abc", true, "", ErrMalformedHeader},
		{"too many parts", "Bearer a b", true, "", ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header, tt.allowRaw)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, "sportpulse-api", 30*24*time.Hour)

	token, err := tm.Issue("user-1", "bob1")
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "bob1", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_Rejects(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, "sportpulse-api", time.Hour)

	other := NewTokenManager("another-secret-that-is-long-enough-99", "sportpulse-api", time.Hour)
	foreign, err := other.Issue("user-1", "bob1")
	require.NoError(t, err)
	_, err = tm.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenManager(testSecret, "someone-else", time.Hour)
	tok, err := wrongIssuer.Issue("user-1", "bob1")
	require.NoError(t, err)
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager(testSecret, "sportpulse-api", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err = expired.Issue("user-1", "bob1")
	require.NoError(t, err)
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager(testSecret, "sportpulse-api", time.Hour)
	token, err := tm.Issue("user-7", "ann")
	require.NoError(t, err)

	newApp := func(allowRaw bool) *fiber.App {
		app := fiber.New()
		app.Get("/me", AuthRequired(tm, func() bool { return allowRaw }), func(c *fiber.Ctx) error {
			id, _ := UserID(c)
			return c.SendString(id)
		})
		return app
	}

	tests := []struct {
		name       string
		allowRaw   bool
		header     string
		wantStatus int
	}{
		{"bearer token", false, "Bearer " + token, http.StatusOK},
		{"raw token allowed", true, token, http.StatusOK},
		{"raw token rejected", false, token, http.StatusUnauthorized},
		{"missing header", true, "", http.StatusUnauthorized},
		{"garbage token", true, "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newApp(tt.allowRaw).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-7", string(body))
			}
		})
	}
}
