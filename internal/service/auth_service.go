package service

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/client"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/session"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// AuthService signs browser sessions in and out against the backend.
type AuthService struct {
	backend   Backend
	validator *validator.Validate
	logger    *zap.Logger
	loginPath string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(backend Backend, validate *validator.Validate, logger *zap.Logger, loginPath string) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	return &AuthService{backend: backend, validator: validate, logger: logger, loginPath: loginPath}
}

// Login exchanges credentials for an identity and stores it on the session.
func (s *AuthService) Login(ctx context.Context, store *session.Store, req models.LoginRequest) (*models.Identity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid login payload")
	}

	var resp models.AuthResponse
	if err := s.backend.Post(ctx, s.loginPath, req, &resp); err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Status == http.StatusUnauthorized {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidCredentials.Code, appErrors.ErrInvalidCredentials.Status, appErrors.ErrInvalidCredentials.Message)
		}
		return nil, backendError(err, "login failed")
	}
	if resp.AccessToken == "" {
		return nil, appErrors.Clone(appErrors.ErrBackend, "login response carried no access token")
	}

	identity, err := store.Login(ctx, resp)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.logger.Info("session signed in",
		zap.String("session_id", store.ID()),
		zap.String("user_id", identity.ID),
	)
	return identity, nil
}

// Logout ends the session. Durable cleanup failures are logged; the
// in-memory identity is always dropped.
func (s *AuthService) Logout(ctx context.Context, store *session.Store) error {
	if err := store.Logout(ctx); err != nil {
		s.logger.Warn("failed to clear session slots on logout", zap.String("session_id", store.ID()), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}
