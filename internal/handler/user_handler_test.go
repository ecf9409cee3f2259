package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/models"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

type fakeUserService struct {
	users    []models.User
	err      error
	gotID    int64
	assigned *models.AssignRoleRequest
}

func (f *fakeUserService) List(context.Context) ([]models.User, error) { return f.users, f.err }

func (f *fakeUserService) Get(_ context.Context, id int64) (*models.User, error) {
	f.gotID = id
	return &models.User{ID: id}, f.err
}

func (f *fakeUserService) Create(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
	return &models.User{ID: 1, Email: req.Email}, f.err
}

func (f *fakeUserService) CreateClient(_ context.Context, req models.CreateClientRequest) (*models.User, error) {
	return &models.User{ID: 2, Email: req.Email}, f.err
}

func (f *fakeUserService) Update(_ context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	f.gotID = id
	return &models.User{ID: id}, f.err
}

func (f *fakeUserService) AssignRole(_ context.Context, req models.AssignRoleRequest) error {
	f.assigned = &req
	return f.err
}

func TestUserHandlerListFilters(t *testing.T) {
	h := NewUserHandler(&fakeUserService{users: []models.User{
		{ID: 1, Email: "ana@gym.co", Status: models.UserStatusActive},
		{ID: 2, Email: "bob@gym.co", Status: models.UserStatusSuspended},
		{ID: 3, FirstName: "Anabel", Status: models.UserStatusSuspended},
	}})

	c, rec := newTestContext(http.MethodGet, "/users?search=ana&status=suspended", nil, nil)
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), env.Meta["total"])
	assert.Contains(t, string(env.Data), `"id":3`)
}

func TestUserHandlerGetParsesID(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/users/42", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.Get(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.gotID)

	c, rec = newTestContext(http.MethodGet, "/users/abc", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandlerCreate(t *testing.T) {
	h := NewUserHandler(&fakeUserService{})
	c, rec := newTestContext(http.MethodPost, "/users", models.CreateUserRequest{Email: "a@b.co"}, nil)
	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	h = NewUserHandler(&fakeUserService{err: appErrors.ErrConflict})
	c, rec = newTestContext(http.MethodPost, "/users/client", models.CreateClientRequest{}, nil)
	h.CreateClient(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandlerUpdate(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc)
	name := "Ana"
	c, rec := newTestContext(http.MethodPut, "/users/7", models.UpdateUserRequest{FirstName: &name}, nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
}

func TestUserHandlerAssignRole(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc)
	c, _ := newTestContext(http.MethodPost, "/users/assign-role", models.AssignRoleRequest{UserID: 1, GymID: 2, RoleID: 3}, nil)

	h.AssignRole(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	require.NotNil(t, svc.assigned)
	assert.Equal(t, int64(2), svc.assigned.GymID)
}
