// Package client assembles the SportPulse client SDK: persistent storage, the
// API gateway, the auth state machine, the data store and the registration
// wizard. Everything is owned by the returned Client; there is no package state.
package client

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"sportpulse/pkg/client/api"
	"sportpulse/pkg/client/auth"
	"sportpulse/pkg/client/data"
	"sportpulse/pkg/client/storage"
	"sportpulse/pkg/client/wizard"
)

// StateFile is the file name used under Config.StateDir.
const StateFile = "state.json"

type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8375/api.
	BaseURL string
	// StateDir keeps the token and wizard snapshot on disk. Empty keeps them in memory.
	StateDir   string
	HTTPClient *http.Client
	AuthMode   api.AuthMode
	Logger     *slog.Logger

	CacheTTL        time.Duration
	CacheMaxEntries int
}

type Client struct {
	Storage storage.Store
	Tokens  *storage.TokenStore
	API     *api.Client
	Auth    *auth.Store
	Data    *data.Store
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.New("client: BaseURL must be an absolute URL")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var store storage.Store = storage.NewMemoryStore()
	if cfg.StateDir != "" {
		fs, err := storage.NewFileStore(filepath.Join(cfg.StateDir, StateFile))
		if err != nil {
			return nil, err
		}
		store = fs
	}

	tokens := storage.NewTokenStore(store)
	gateway := api.New(cfg.BaseURL, tokens,
		api.WithHTTPClient(cfg.HTTPClient),
		api.WithAuthMode(cfg.AuthMode),
		api.WithLogger(logger),
	)

	session := auth.NewStore(gateway, tokens, logger)
	session.OnLogout(func() error { return wizard.Forget(store) })

	return &Client{
		Storage: store,
		Tokens:  tokens,
		API:     gateway,
		Auth:    session,
		Data: data.NewStore(gateway, data.Options{
			CacheTTL:        cfg.CacheTTL,
			CacheMaxEntries: cfg.CacheMaxEntries,
			Logger:          logger,
		}),
	}, nil
}

// Wizard opens the registration wizard at the step in query ("pstep").
func (c *Client) Wizard(query url.Values) (*wizard.Wizard, error) {
	return wizard.New(c.Auth, c.Storage, query)
}
