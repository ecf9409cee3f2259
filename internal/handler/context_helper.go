package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/middleware"
	"github.com/noah-isme/gym-admin-console/internal/session"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// storeFromContext returns the session store or an error suitable for the
// response when the session middleware did not run.
func storeFromContext(c *gin.Context) (*session.Store, error) {
	store, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, "session middleware not installed")
	}
	return store, nil
}
