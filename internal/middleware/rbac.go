package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-admin-console/internal/guard"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/service"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
	"github.com/noah-isme/gym-admin-console/pkg/response"
)

// RetryAfterSeconds is advertised while a session is still loading.
const RetryAfterSeconds = 1

// ContextIdentityKey is the gin context key storing the admitted identity.
const ContextIdentityKey = "identity"

// RequireRoles gates a route group on the session's roles. Browser
// navigations are redirected with 303 See Other; API calls get an error
// envelope naming the redirect target. A session that is still loading gets
// 503 with Retry-After so the client asks again.
func RequireRoles(g *guard.Guard, metrics *service.MetricsService, roles ...models.Role) gin.HandlerFunc {
	if g == nil {
		g = guard.New(guard.DefaultRoutes)
	}
	required := append([]models.Role(nil), roles...)

	return func(c *gin.Context) {
		subject := guard.Subject{}
		if store, ok := SessionFromContext(c); ok {
			subject.Loading = store.Loading()
			subject.Identity = store.Identity()
		}

		decision := g.Decide(subject, required)
		metrics.RecordGuardDecision(string(decision.Outcome))

		switch decision.Outcome {
		case guard.Allow:
			c.Set(ContextIdentityKey, subject.Identity)
			c.Next()
		case guard.Wait:
			response.RetryLater(c, RetryAfterSeconds, appErrors.ErrSessionLoading)
			c.Abort()
		case guard.RedirectLogin:
			redirect(c, decision.Target, appErrors.ErrUnauthorized)
		default:
			redirect(c, decision.Target, appErrors.ErrForbidden)
		}
	}
}

func redirect(c *gin.Context, target string, apiErr *appErrors.Error) {
	if wantsHTML(c.Request) {
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
		return
	}
	response.Error(c, apiErr, map[string]interface{}{"redirect": target})
	c.Abort()
}

// wantsHTML reports whether the request is a browser page navigation.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && r.Method == http.MethodGet
}

// IdentityFromContext returns the identity admitted by RequireRoles.
func IdentityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*models.Identity)
	return identity
}
