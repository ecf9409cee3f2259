// Package client talks to the gym management REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/pkg/config"
)

// Session is the caller-side view of a browser session that the client needs
// to authorise requests and react to rejected credentials.
type Session interface {
	ID() string
	Token() string
}

// UnauthorizedHandler is invoked when the backend rejects a session's
// credentials on any request other than login.
type UnauthorizedHandler func(ctx context.Context, sess Session)

type sessionKey struct{}

// WithSession attaches the calling session to ctx.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session attached to ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(Session)
	return sess, ok && sess != nil
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUnauthorizedHandler registers the 401 hook.
func WithUnauthorizedHandler(fn UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// Client is a JSON REST client bound to one backend base URL.
type Client struct {
	baseURL        string
	loginPath      string
	http           *http.Client
	logger         *zap.Logger
	onUnauthorized UnauthorizedHandler
}

// New constructs a backend client.
func New(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		loginPath: loginPath,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs a request against the backend. Non-2xx responses are returned
// as *APIError. A nil out discards the response body.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	sess, hasSession := SessionFrom(ctx)
	if hasSession {
		if token := sess.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, path, raw)
		if resp.StatusCode == http.StatusUnauthorized && !c.isLoginPath(path) && hasSession && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, sess)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) isLoginPath(path string) bool {
	return strings.Contains(path, c.loginPath)
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Body   models.APIErrorResponse
}

func newAPIError(status int, path string, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &apiErr.Body); err != nil || (apiErr.Body.Message == "" && len(apiErr.Body.Details) == 0) {
		apiErr.Body = models.APIErrorResponse{StatusCode: status, Path: path, Message: http.StatusText(status)}
	}
	if apiErr.Body.StatusCode == 0 {
		apiErr.Body.StatusCode = status
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Body.Message)
}

// FieldMessage reports the field-level error carried by the body, if any.
func (e *APIError) FieldMessage() (field, message string, ok bool) {
	if e.Body.Field == "" {
		return "", "", false
	}
	if len(e.Body.Details) > 0 {
		return e.Body.Field, strings.Join(e.Body.Details, ". "), true
	}
	return e.Body.Field, e.Body.Message, true
}

// GeneralMessage is the message suitable for a form-level error banner.
func (e *APIError) GeneralMessage() string {
	if len(e.Body.Details) > 0 {
		return strings.Join(e.Body.Details, "\n")
	}
	return e.Body.Message
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
