// Package api is the HTTP gateway to the SportPulse REST API. Every request
// carries the session token; Do returns non-2xx responses as data and the
// endpoint methods turn them into typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// AuthMode selects the Authorization header format.
type AuthMode int

const (
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer AuthMode = iota
	// AuthRaw sends the bare token, for servers with raw_token_auth on.
	AuthRaw
)

// TokenSource supplies the current session token. An empty token sends no header.
type TokenSource interface {
	Token() string
}

// Response is a received HTTP response, whatever its status.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client talks to one API base URL, e.g. http://localhost:8375/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	mode       AuthMode
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithAuthMode(mode AuthMode) Option {
	return func(c *Client) { c.mode = mode }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a client. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the API root requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token := c.tokens.Token()
	if token == "" {
		return
	}
	if c.mode == AuthRaw {
		req.Header.Set("Authorization", token)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// Do sends a request to path (relative to the base URL). It only fails when no
// response was received; a non-2xx status is returned in the Response.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

// call sends an optional JSON body and decodes a 2xx JSON answer into out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return decodeResult(resp, out)
}

func decodeResult(resp *Response, out any) error {
	if !resp.OK() {
		return ResponseError(resp)
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}
