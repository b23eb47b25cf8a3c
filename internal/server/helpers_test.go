package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sportpulse/internal/config"
	"sportpulse/internal/service"
	"sportpulse/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "0",
		Env:             "test",
		DBDriver:        "sqlite",
		JWTSecret:       testSecret,
		JWTIssuer:       "sportpulse-api",
		TokenTTLHours:   1,
		AllowedOrigins:  "*",
		FeatureFlags:    "raw_token_auth=on",
		UploadDir:       t.TempDir(),
		MaxUploadSizeMB: 2,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *fiber.App) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	s, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), nil)
	require.NoError(t, err)
	s.authService = service.NewAuthService(s.userRepo, s.tokens).WithHashCost(bcrypt.MinCost)
	return s, s.NewApp()
}

type testResponse struct {
	Status int
	Body   []byte
}

func (r testResponse) decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dest), string(r.Body))
}

func (r testResponse) object(t *testing.T) map[string]any {
	t.Helper()
	out := map[string]any{}
	r.decode(t, &out)
	return out
}

func do(t *testing.T, app *fiber.App, req *http.Request) testResponse {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Status: resp.StatusCode, Body: body}
}

// doJSON sends body as JSON. auth is the raw Authorization header value.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, auth string) testResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return do(t, app, req)
}

func doMultipart(t *testing.T, app *fiber.App, method, path string, fields map[string]string, file *testutil.File, auth string) testResponse {
	t.Helper()
	body, contentType := testutil.MultipartBody(t, fields, file)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return do(t, app, req)
}

func bearer(token string) string {
	return "Bearer " + token
}

// registerUser creates an account and returns its token and ID.
func registerUser(t *testing.T, app *fiber.App, username string) (token, id string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"_id"`
		} `json:"user"`
	}
	resp.decode(t, &out)
	return out.Token, out.User.ID
}
