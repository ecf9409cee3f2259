package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/pkg/config"
)

type fakeSession struct {
	id    string
	token string
}

func (f fakeSession) ID() string    { return f.id }
func (f fakeSession) Token() string { return f.token }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.BackendConfig{BaseURL: srv.URL + "/"}, nil, opts...)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Gym{{ID: "g1", Name: "Iron"}})
	})

	ctx := WithSession(context.Background(), fakeSession{id: "s1", token: "tok"})
	var gyms []models.Gym
	require.NoError(t, c.Get(ctx, "/gyms", &gyms))
	assert.Equal(t, "Bearer tok", gotAuth)
	require.Len(t, gyms, 1)
	assert.Equal(t, "Iron", gyms[0].Name)
}

func TestClientOmitsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "/gyms/g1"))
	assert.Empty(t, gotAuth)
}

func TestClientSendsJSONBody(t *testing.T) {
	var got models.LoginRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Post(context.Background(), "/auth/login", models.LoginRequest{Email: "a@b.co", Password: "secret"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.Email)
}

func TestClientDecodesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.APIErrorResponse{
			StatusCode: http.StatusConflict,
			Message:    "Conflict",
			Details:    []string{"email already registered"},
			Field:      "ownerEmail",
		})
	})

	err := c.Post(context.Background(), "/gyms/with-owner", map[string]string{}, nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	field, msg, ok := apiErr.FieldMessage()
	assert.True(t, ok)
	assert.Equal(t, "ownerEmail", field)
	assert.Equal(t, "email already registered", msg)
	assert.Equal(t, "email already registered", apiErr.GeneralMessage())
}

func TestClientFallsBackOnUnstructuredError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	err := c.Get(context.Background(), "/gyms", nil)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Body.Message)
	_, _, hasField := apiErr.FieldMessage()
	assert.False(t, hasField)
}

func TestClientInvokesUnauthorizedHook(t *testing.T) {
	var calls []string
	hook := func(ctx context.Context, sess Session) {
		calls = append(calls, sess.ID())
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHandler(hook))

	ctx := WithSession(context.Background(), fakeSession{id: "s1", token: "stale"})
	err := c.Get(ctx, "/users", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"s1"}, calls)
}

func TestClientSkipsHookOnLogin(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHandler(func(context.Context, Session) { called = true }))

	ctx := WithSession(context.Background(), fakeSession{id: "s1"})
	err := c.Post(ctx, "/auth/login", models.LoginRequest{}, nil)
	require.Error(t, err)
	assert.False(t, called)
}

func TestClientTransportFailure(t *testing.T) {
	c := New(config.BackendConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	err := c.Get(context.Background(), "/gyms", nil)
	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok)
	assert.False(t, errors.Is(err, context.Canceled))
}
