package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/models"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// GymService forwards gym management calls to the backend.
type GymService struct {
	backend   Backend
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewGymService constructs a GymService.
func NewGymService(backend Backend, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *GymService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GymService{backend: backend, validator: validate, metrics: metrics, logger: logger}
}

// List returns every gym.
func (s *GymService) List(ctx context.Context) ([]models.Gym, error) {
	defer s.observe("gyms.list", time.Now())
	var gyms []models.Gym
	if err := s.backend.Get(ctx, "/gyms", &gyms); err != nil {
		return nil, backendError(err, "failed to list gyms")
	}
	if gyms == nil {
		gyms = []models.Gym{}
	}
	return gyms, nil
}

// Get returns a single gym.
func (s *GymService) Get(ctx context.Context, id string) (*models.Gym, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gym id is required")
	}
	defer s.observe("gyms.get", time.Now())
	var gym models.Gym
	if err := s.backend.Get(ctx, gymPath(id), &gym); err != nil {
		return nil, backendError(err, "failed to load gym")
	}
	return &gym, nil
}

// Create registers a gym without an owner.
func (s *GymService) Create(ctx context.Context, req models.CreateGymRequest) (*models.Gym, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid gym payload")
	}
	defer s.observe("gyms.create", time.Now())
	var gym models.Gym
	if err := s.backend.Post(ctx, "/gyms", req, &gym); err != nil {
		return nil, backendError(err, "failed to create gym")
	}
	return &gym, nil
}

// CreateWithOwner registers a gym together with its owner account. The
// payload is validated by the caller's form.
func (s *GymService) CreateWithOwner(ctx context.Context, req models.CreateGymWithOwnerRequest) (*models.Gym, error) {
	defer s.observe("gyms.create_with_owner", time.Now())
	var gym models.Gym
	if err := s.backend.Post(ctx, "/gyms/with-owner", req, &gym); err != nil {
		return nil, err
	}
	return &gym, nil
}

// Update patches a gym.
func (s *GymService) Update(ctx context.Context, id string, req models.UpdateGymRequest) (*models.Gym, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gym id is required")
	}
	defer s.observe("gyms.update", time.Now())
	var gym models.Gym
	if err := s.backend.Patch(ctx, gymPath(id), req, &gym); err != nil {
		return nil, err
	}
	return &gym, nil
}

// Delete removes a gym.
func (s *GymService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "gym id is required")
	}
	defer s.observe("gyms.delete", time.Now())
	if err := s.backend.Delete(ctx, gymPath(id)); err != nil {
		return backendError(err, "failed to delete gym")
	}
	s.logger.Info("gym deleted", zap.String("gym_id", id))
	return nil
}

func (s *GymService) observe(op string, start time.Time) {
	s.metrics.ObserveBackendCall(op, time.Since(start))
}

func gymPath(id string) string {
	return fmt.Sprintf("/gyms/%s", url.PathEscape(id))
}
