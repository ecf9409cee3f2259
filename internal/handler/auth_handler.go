package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/middleware"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/session"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

type authService interface {
	Login(ctx context.Context, store *session.Store, req models.LoginRequest) (*models.Identity, error)
	Logout(ctx context.Context, store *session.Store) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Sign in
// @Description Authenticate against the gym backend and bind the identity to the browser session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	identity, err := h.service.Login(c.Request.Context(), store, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, identity)
}

// Logout godoc
// @Summary Sign out
// @Description Forget the identity bound to the browser session
// @Tags Authentication
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Logout(c.Request.Context(), store); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current identity
// @Description Return the identity bound to the browser session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if store.Loading() {
		response.RetryLater(c, middleware.RetryAfterSeconds, appErrors.ErrSessionLoading)
		return
	}
	identity := store.Identity()
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, identity)
}
