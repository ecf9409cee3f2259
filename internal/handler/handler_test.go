package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/middleware"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/session"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct{ Code string } `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newStore(t *testing.T, roles ...string) *session.Store {
	t.Helper()
	store := session.NewStore("sess-1", session.NewMemoryStorage(), session.DefaultSlots, nil)
	require.NoError(t, store.Hydrate(context.Background()))
	if len(roles) > 0 {
		_, err := store.Login(context.Background(), models.AuthResponse{
			User:        models.BackendUser{ID: "u1", Email: "u@gym.co", Roles: roles},
			AccessToken: "token",
		})
		require.NoError(t, err)
	}
	return store
}

func newTestContext(method, target string, body interface{}, store *session.Store) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if store != nil {
		c.Set(middleware.ContextSessionKey, store)
	}
	return c, rec
}
