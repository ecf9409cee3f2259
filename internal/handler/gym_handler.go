package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

type gymService interface {
	List(ctx context.Context) ([]models.Gym, error)
	Get(ctx context.Context, id string) (*models.Gym, error)
	Delete(ctx context.Context, id string) error
}

// GymHandler serves gym management endpoints.
type GymHandler struct {
	service gymService
}

// NewGymHandler constructs a gym handler.
func NewGymHandler(svc gymService) *GymHandler {
	return &GymHandler{service: svc}
}

// List godoc
// @Summary List gyms
// @Tags Gyms
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /gyms [get]
func (h *GymHandler) List(c *gin.Context) {
	gyms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gyms, map[string]interface{}{"total": len(gyms)})
}

// Get godoc
// @Summary Get gym
// @Tags Gyms
// @Produce json
// @Param id path string true "Gym ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /gyms/{id} [get]
func (h *GymHandler) Get(c *gin.Context) {
	gym, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gym)
}

// Delete godoc
// @Summary Delete gym
// @Tags Gyms
// @Param id path string true "Gym ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /gyms/{id} [delete]
func (h *GymHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
