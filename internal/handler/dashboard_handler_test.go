package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gym-admin-console/internal/middleware"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/service"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

type fakeDashboardService struct {
	got *models.Identity
	err error
}

func (f *fakeDashboardService) Summary(_ context.Context, identity *models.Identity) (*service.DashboardSummary, error) {
	f.got = identity
	if f.err != nil {
		return nil, f.err
	}
	return &service.DashboardSummary{Identity: *identity, UserCount: 3}, nil
}

func TestDashboardHandlerSummary(t *testing.T) {
	svc := &fakeDashboardService{}
	h := NewDashboardHandler(svc)
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil, nil)
	c.Set(middleware.ContextIdentityKey, &models.Identity{ID: "u1"})

	h.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", svc.got.ID)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"user_count":3`)
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	h := NewDashboardHandler(&fakeDashboardService{err: appErrors.ErrBackend})
	c, rec := newTestContext(http.MethodGet, "/dashboard", nil, nil)
	c.Set(middleware.ContextIdentityKey, &models.Identity{ID: "u1"})

	h.Summary(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
