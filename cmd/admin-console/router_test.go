package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/pkg/config"
)

type consoleEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct{ Code string } `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeBackend struct {
	rejectUsers atomic.Bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/auth/login":
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"ana@gym.co","firstName":"Ana","lastName":"Lee","roles":["admin","coach"]},"accessToken":"opaque-token"}`))
	case r.URL.Path == "/users" && b.rejectUsers.Load():
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode":401,"message":"Unauthorized"}`))
	case r.URL.Path == "/users":
		if r.Header.Get("Authorization") != "Bearer opaque-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"email":"ana@gym.co","firstName":"Ana","lastName":"Lee","status":"active"}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type consoleClient struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (cc *consoleClient) do(method, path string, body interface{}, accept string) *httptest.ResponseRecorder {
	cc.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cc.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if cc.cookie != nil {
		req.AddCookie(cc.cookie)
	}
	w := httptest.NewRecorder()
	cc.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "gym_sid" {
			cc.cookie = cookie
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) consoleEnvelope {
	t.Helper()
	var env consoleEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newConsole(t *testing.T) (*consoleClient, *fakeBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Env:     config.EnvDevelopment,
		Backend: config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, LoginPath: "/auth/login"},
		Session: config.SessionConfig{Driver: config.SessionDriverMemory, CookieName: "gym_sid", TTL: time.Hour},
		Wizard:  config.WizardConfig{TTL: time.Hour},
		Routes:  config.RoutesConfig{Login: "/login", Unauthorized: "/unauthorized"},
	}
	backing, err := openStorage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(backing.close)

	deps := wire(cfg, zap.NewNop(), backing)
	return &consoleClient{t: t, router: newRouter(cfg, zap.NewNop(), deps)}, backend
}

func TestRouterHealth(t *testing.T) {
	cc, _ := newConsole(t)
	w := cc.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = cc.do(http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRedirectsAnonymousNavigation(t *testing.T) {
	cc, _ := newConsole(t)

	w := cc.do(http.MethodGet, "/gyms", nil, "text/html")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	require.NotNil(t, cc.cookie, "a session cookie is issued on first contact")

	w = cc.do(http.MethodGet, "/users", nil, "application/json")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode(t, w).Meta["redirect"])
}

func TestRouterRoleGating(t *testing.T) {
	cc, _ := newConsole(t)

	w := cc.do(http.MethodPost, "/auth/login", map[string]string{"email": "ana@gym.co", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = cc.do(http.MethodGet, "/auth/me", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"roles":["admin"]`)

	w = cc.do(http.MethodGet, "/users", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "ana@gym.co")

	w = cc.do(http.MethodGet, "/gyms", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/unauthorized", decode(t, w).Meta["redirect"])

	w = cc.do(http.MethodGet, "/gyms/wizard/abc", nil, "text/html")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))
}

func TestRouterBackendRejectionEndsSession(t *testing.T) {
	cc, backend := newConsole(t)

	w := cc.do(http.MethodPost, "/auth/login", map[string]string{"email": "ana@gym.co", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	backend.rejectUsers.Store(true)
	w = cc.do(http.MethodGet, "/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = cc.do(http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Eventually(t, func() bool {
		w := cc.do(http.MethodGet, "/notifications", nil, "")
		return w.Code == http.StatusOK && strings.Contains(w.Body.String(), "session-expired")
	}, time.Second, 20*time.Millisecond)
}

func TestRouterUnknownRoute(t *testing.T) {
	cc, _ := newConsole(t)
	w := cc.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}
