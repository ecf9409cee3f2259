package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/service"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

type notificationService interface {
	Drain(sessionID string) []service.Notification
}

// NotificationHandler hands pending toasts to the browser.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// Drain godoc
// @Summary Pending notifications
// @Description Return and clear the notifications queued for the browser session
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) Drain(c *gin.Context) {
	store, err := storeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Drain(store.ID()))
}
