package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/models"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// UserService forwards user management calls to the backend.
type UserService struct {
	backend   Backend
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(backend Backend, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{backend: backend, validator: validate, metrics: metrics, logger: logger}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	defer s.observe("users.list", time.Now())
	var users []models.User
	if err := s.backend.Get(ctx, "/users", &users); err != nil {
		return nil, backendError(err, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id must be positive")
	}
	defer s.observe("users.get", time.Now())
	var user models.User
	if err := s.backend.Get(ctx, userPath(id), &user); err != nil {
		return nil, backendError(err, "failed to load user")
	}
	return &user, nil
}

// Create registers a staff user.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid user payload")
	}
	defer s.observe("users.create", time.Now())
	var user models.User
	if err := s.backend.Post(ctx, "/users", req, &user); err != nil {
		return nil, backendError(err, "failed to create user")
	}
	return &user, nil
}

// CreateClient registers a member with their client profile.
func (s *UserService) CreateClient(ctx context.Context, req models.CreateClientRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid client payload")
	}
	defer s.observe("users.create_client", time.Now())
	var user models.User
	if err := s.backend.Post(ctx, "/users/client", req, &user); err != nil {
		return nil, backendError(err, "failed to register client")
	}
	return &user, nil
}

// Update replaces the mutable fields of a user.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id must be positive")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid user payload")
	}
	defer s.observe("users.update", time.Now())
	var user models.User
	if err := s.backend.Put(ctx, userPath(id), req, &user); err != nil {
		return nil, backendError(err, "failed to update user")
	}
	return &user, nil
}

// AssignRole grants a role to a user within a gym.
func (s *UserService) AssignRole(ctx context.Context, req models.AssignRoleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return invalidPayload(err, "invalid role assignment")
	}
	defer s.observe("users.assign_role", time.Now())
	if err := s.backend.Post(ctx, "/users/assign-role", req, nil); err != nil {
		return backendError(err, "failed to assign role")
	}
	s.logger.Info("role assigned",
		zap.Int64("user_id", req.UserID),
		zap.Int64("gym_id", req.GymID),
		zap.Int64("role_id", req.RoleID),
	)
	return nil
}

func (s *UserService) observe(op string, start time.Time) {
	s.metrics.ObserveBackendCall(op, time.Since(start))
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}
