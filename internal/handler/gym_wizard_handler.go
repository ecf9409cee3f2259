package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/service"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

type gymWizardService interface {
	Start(ctx context.Context, sessionID, gymID string) (*service.GymWizardView, error)
	Get(ctx context.Context, sessionID, id string) (*service.GymWizardView, error)
	UpdateValues(ctx context.Context, sessionID, id string, patch service.GymFormPatch) (*service.GymWizardView, error)
	Next(ctx context.Context, sessionID, id string) (*service.GymWizardView, error)
	Previous(ctx context.Context, sessionID, id string) (*service.GymWizardView, error)
	GoTo(ctx context.Context, sessionID, id string, index int) (*service.GymWizardView, error)
	Submit(ctx context.Context, sessionID, id string) (*service.GymWizardView, error)
	Discard(ctx context.Context, sessionID, id string) error
}

type startGymWizardRequest struct {
	GymID string `json:"gym_id"`
}

// GymWizardHandler drives the multi-step gym form.
type GymWizardHandler struct {
	service gymWizardService
}

// NewGymWizardHandler constructs the handler.
func NewGymWizardHandler(svc gymWizardService) *GymWizardHandler {
	return &GymWizardHandler{service: svc}
}

// Start godoc
// @Summary Open gym form
// @Description Start a create form, or an edit form when gym_id is given
// @Tags Gym Form
// @Accept json
// @Produce json
// @Param payload body startGymWizardRequest false "Gym to edit"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /gyms/wizard [post]
func (h *GymWizardHandler) Start(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req startGymWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload"))
			return
		}
	}
	if req.GymID == "" {
		req.GymID = c.Query("gym_id")
	}

	view, err := h.service.Start(c.Request.Context(), store.ID(), req.GymID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get godoc
// @Summary Current gym form state
// @Tags Gym Form
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /gyms/wizard/{id} [get]
func (h *GymWizardHandler) Get(c *gin.Context) {
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.Get(ctx, sessionID, id)
	})
}

// UpdateValues godoc
// @Summary Edit gym form values
// @Tags Gym Form
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param payload body service.GymFormPatch true "Changed fields"
// @Success 200 {object} response.Envelope
// @Router /gyms/wizard/{id}/values [patch]
func (h *GymWizardHandler) UpdateValues(c *gin.Context) {
	var patch service.GymFormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form values"))
		return
	}
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.UpdateValues(ctx, sessionID, id, patch)
	})
}

// Next godoc
// @Summary Advance gym form
// @Description Validate the current step and move forward; 422 when the step is invalid
// @Tags Gym Form
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /gyms/wizard/{id}/next [post]
func (h *GymWizardHandler) Next(c *gin.Context) {
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.Next(ctx, sessionID, id)
	})
}

// Previous godoc
// @Summary Step back in gym form
// @Tags Gym Form
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /gyms/wizard/{id}/previous [post]
func (h *GymWizardHandler) Previous(c *gin.Context) {
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.Previous(ctx, sessionID, id)
	})
}

// GoTo godoc
// @Summary Jump to a gym form step
// @Tags Gym Form
// @Produce json
// @Param id path string true "Form ID"
// @Param index path int true "0-based step index"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /gyms/wizard/{id}/steps/{index} [post]
func (h *GymWizardHandler) GoTo(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "step index must be an integer"))
		return
	}
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.GoTo(ctx, sessionID, id, index)
	})
}

// Submit godoc
// @Summary Submit gym form
// @Description Validate the last step and create or update the gym
// @Tags Gym Form
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /gyms/wizard/{id}/submit [post]
func (h *GymWizardHandler) Submit(c *gin.Context) {
	h.run(c, func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error) {
		return h.service.Submit(ctx, sessionID, id)
	})
}

// Discard godoc
// @Summary Abandon gym form
// @Tags Gym Form
// @Param id path string true "Form ID"
// @Success 204
// @Router /gyms/wizard/{id} [delete]
func (h *GymWizardHandler) Discard(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Discard(c.Request.Context(), store.ID(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *GymWizardHandler) run(c *gin.Context, op func(ctx context.Context, sessionID, id string) (*service.GymWizardView, error)) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := op(c.Request.Context(), store.ID(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, wizardStatus(view), view)
}

func wizardStatus(view *service.GymWizardView) int {
	switch {
	case view.Completed && view.Mode == service.GymWizardModeCreate:
		return http.StatusCreated
	case !view.Accepted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}
