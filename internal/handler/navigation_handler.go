package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/pkg/response"
)

// Unauthorized godoc
// @Summary Access denied page
// @Description Target of guard redirects for signed-in users lacking a role
// @Tags Navigation
// @Produce json
// @Success 403 {object} response.Envelope
// @Router /unauthorized [get]
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusForbidden, response.Envelope{
		Meta: map[string]interface{}{"message": "you do not have permission to view this page"},
	})
}
