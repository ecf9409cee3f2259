package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/client"
	"github.com/noah-isme/gym-admin-console/internal/session"
	"github.com/noah-isme/gym-admin-console/pkg/config"
)

// ContextSessionKey is the gin context key storing the browser session.
const ContextSessionKey = "session"

// Session resolves the browser session from its cookie, issuing a new id when
// the cookie is missing or malformed. The store is attached to the gin
// context and to the request context for backend calls. A store whose
// hydration failed is attached while still loading.
func Session(registry *session.Registry, cfg config.SessionConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "gym_sid"
	}
	maxAge := int(cfg.TTL.Seconds())

	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil {
			id = uuid.NewString()
		} else if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, maxAge, "/", "", cfg.CookieSecure, true)

		store, err := registry.Get(c.Request.Context(), id)
		if err == nil && store.IsAuthenticated() {
			if err := store.Sync(c.Request.Context()); err != nil {
				logger.Warn("session sync failed", zap.String("session_id", id), zap.Error(err))
			}
		}

		c.Set(ContextSessionKey, store)
		c.Request = c.Request.WithContext(client.WithSession(c.Request.Context(), store))
		c.Next()
	}
}

// SessionFromContext returns the store attached by Session.
func SessionFromContext(c *gin.Context) (*session.Store, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	store, ok := value.(*session.Store)
	return store, ok && store != nil
}
