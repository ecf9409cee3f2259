package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/client"
	"github.com/noah-isme/gym-admin-console/internal/models"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

func TestGymServiceList(t *testing.T) {
	backend := &fakeBackend{response: []models.Gym{{ID: "g1", Name: "Iron"}}}
	svc := NewGymService(backend, nil, nil, nil)

	gyms, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, gyms, 1)
	assert.Equal(t, backendCall{Method: http.MethodGet, Path: "/gyms"}, backend.lastCall())
}

func TestGymServiceListEmpty(t *testing.T) {
	svc := NewGymService(&fakeBackend{}, nil, nil, nil)
	gyms, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, gyms)
	assert.Empty(t, gyms)
}

func TestGymServiceGetEscapesID(t *testing.T) {
	backend := &fakeBackend{response: models.Gym{ID: "a/b"}}
	svc := NewGymService(backend, nil, nil, nil)

	_, err := svc.Get(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/gyms/a%2Fb", backend.lastCall().Path)

	_, err = svc.Get(context.Background(), "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGymServiceGetNotFound(t *testing.T) {
	backend := &fakeBackend{err: &client.APIError{Status: http.StatusNotFound, Body: models.APIErrorResponse{Message: "Gym not found"}}}
	svc := NewGymService(backend, nil, nil, nil)

	_, err := svc.Get(context.Background(), "g9")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Gym not found", appErr.Message)
}

func TestGymServiceCreateValidates(t *testing.T) {
	backend := &fakeBackend{response: models.Gym{ID: "g1"}}
	svc := NewGymService(backend, nil, NewMetricsService(), nil)

	_, err := svc.Create(context.Background(), models.CreateGymRequest{Name: "Iron"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, backend.calls)

	gym, err := svc.Create(context.Background(), models.CreateGymRequest{Name: "Iron", Address: "Main 1"})
	require.NoError(t, err)
	assert.Equal(t, "g1", gym.ID)
	assert.Equal(t, http.MethodPost, backend.lastCall().Method)
}

func TestGymServiceCreateWithOwnerKeepsAPIError(t *testing.T) {
	apiErr := &client.APIError{Status: http.StatusConflict}
	svc := NewGymService(&fakeBackend{err: apiErr}, nil, nil, nil)

	_, err := svc.CreateWithOwner(context.Background(), models.CreateGymWithOwnerRequest{Name: "Iron"})
	got, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Same(t, apiErr, got)
}

func TestGymServiceUpdateAndDelete(t *testing.T) {
	backend := &fakeBackend{response: models.Gym{ID: "g1", Name: "New"}}
	svc := NewGymService(backend, nil, nil, nil)

	name := "New"
	gym, err := svc.Update(context.Background(), "g1", models.UpdateGymRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", gym.Name)
	assert.Equal(t, http.MethodPatch, backend.lastCall().Method)

	require.NoError(t, svc.Delete(context.Background(), "g1"))
	assert.Equal(t, backendCall{Method: http.MethodDelete, Path: "/gyms/g1"}, backend.lastCall())
}
