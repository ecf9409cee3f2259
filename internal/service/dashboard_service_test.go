package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/models"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

type stubGymLister struct {
	gyms  []models.Gym
	err   error
	calls int
}

func (s *stubGymLister) List(context.Context) ([]models.Gym, error) {
	s.calls++
	return s.gyms, s.err
}

type stubUserLister struct {
	users []models.User
	err   error
}

func (s *stubUserLister) List(context.Context) ([]models.User, error) {
	return s.users, s.err
}

func TestDashboardSummaryAdmin(t *testing.T) {
	gyms := &stubGymLister{gyms: []models.Gym{{ID: "g1"}}}
	svc := NewDashboardService(gyms, &stubUserLister{users: []models.User{{ID: 1}, {ID: 2}}}, nil)

	summary, err := svc.Summary(context.Background(), &models.Identity{ID: "u1", Roles: []models.Role{models.RoleAdmin}})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UserCount)
	assert.Nil(t, summary.GymCount)
	assert.Zero(t, gyms.calls)
	assert.Equal(t, "u1", summary.Identity.ID)
}

func TestDashboardSummarySuperAdmin(t *testing.T) {
	gyms := &stubGymLister{gyms: []models.Gym{{ID: "g1"}, {ID: "g2"}}}
	svc := NewDashboardService(gyms, &stubUserLister{}, nil)

	summary, err := svc.Summary(context.Background(), &models.Identity{ID: "root", Roles: []models.Role{models.RoleSuperAdmin}})
	require.NoError(t, err)
	require.NotNil(t, summary.GymCount)
	assert.Equal(t, 2, *summary.GymCount)
}

func TestDashboardSummaryPropagatesErrors(t *testing.T) {
	svc := NewDashboardService(&stubGymLister{}, &stubUserLister{err: appErrors.ErrBackend}, nil)
	_, err := svc.Summary(context.Background(), &models.Identity{ID: "u1"})
	assert.Equal(t, appErrors.ErrBackend.Code, appErrors.FromError(err).Code)
}
