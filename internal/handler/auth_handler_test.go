package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/session"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

type fakeAuthService struct {
	identity  *models.Identity
	err       error
	loggedOut bool
}

func (f *fakeAuthService) Login(ctx context.Context, store *session.Store, req models.LoginRequest) (*models.Identity, error) {
	return f.identity, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, store *session.Store) error {
	f.loggedOut = true
	return f.err
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{identity: &models.Identity{ID: "u1"}})
	c, rec := newTestContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.co", Password: "pw"}, newStore(t))

	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"id":"u1"`)
}

func TestAuthHandlerLoginRejectsBadJSON(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})
	c, rec := newTestContext(http.MethodPost, "/auth/login", "not-an-object", newStore(t))

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{err: appErrors.ErrInvalidCredentials})
	c, rec := newTestContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.co", Password: "pw"}, newStore(t))

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandlerLoginWithoutSession(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})
	c, rec := newTestContext(http.MethodPost, "/auth/login", models.LoginRequest{}, nil)

	h.Login(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandlerLogout(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc)
	c, _ := newTestContext(http.MethodPost, "/auth/logout", nil, newStore(t, "admin"))

	h.Logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.True(t, svc.loggedOut)
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil, newStore(t, "admin"))
	h.Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"roles":["admin"]`)

	c, rec = newTestContext(http.MethodGet, "/auth/me", nil, newStore(t))
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	loading := session.NewStore("sess-2", session.NewMemoryStorage(), session.DefaultSlots, nil)
	c, rec = newTestContext(http.MethodGet, "/auth/me", nil, loading)
	h.Me(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
