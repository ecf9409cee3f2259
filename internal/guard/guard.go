// Package guard decides whether a protected route may render for a session.
package guard

import "github.com/noah-isme/gym-admin-console/internal/models"

// Outcome is the kind of decision taken for a protected route.
type Outcome string

const (
	// Wait defers the decision while the session is still being established.
	Wait                 Outcome = "wait"
	RedirectLogin        Outcome = "redirect_login"
	RedirectUnauthorized Outcome = "redirect_unauthorized"
	Allow                Outcome = "allow"
)

// Routes names the redirect destinations.
type Routes struct {
	Login        string
	Unauthorized string
}

// DefaultRoutes are used when a zero Routes is supplied.
var DefaultRoutes = Routes{Login: "/login", Unauthorized: "/unauthorized"}

// Subject is the session state the guard looks at.
type Subject struct {
	Loading  bool
	Identity *models.Identity
}

// Decision is the navigation command produced for a request. Target is set
// for redirects only.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard evaluates subjects against required roles.
type Guard struct {
	routes Routes
}

// New returns a guard redirecting to routes; empty entries fall back to
// DefaultRoutes.
func New(routes Routes) *Guard {
	if routes.Login == "" {
		routes.Login = DefaultRoutes.Login
	}
	if routes.Unauthorized == "" {
		routes.Unauthorized = DefaultRoutes.Unauthorized
	}
	return &Guard{routes: routes}
}

// Routes returns the redirect destinations in use.
func (g *Guard) Routes() Routes {
	return g.routes
}

// Decide applies, in order: loading defers; no identity goes to login; the
// superadmin role always passes; otherwise a non-empty required set must
// share at least one role with the identity. An empty required set admits any
// authenticated identity.
func (g *Guard) Decide(subject Subject, required []models.Role) Decision {
	switch {
	case subject.Loading:
		return Decision{Outcome: Wait}
	case subject.Identity == nil:
		return Decision{Outcome: RedirectLogin, Target: g.routes.Login}
	case subject.Identity.HasRole(models.RoleSuperAdmin):
		return Decision{Outcome: Allow}
	case len(required) > 0 && !subject.Identity.HasAnyRole(required):
		return Decision{Outcome: RedirectUnauthorized, Target: g.routes.Unauthorized}
	default:
		return Decision{Outcome: Allow}
	}
}

// Decide evaluates subject with DefaultRoutes.
func Decide(subject Subject, required []models.Role) Decision {
	return New(DefaultRoutes).Decide(subject, required)
}
