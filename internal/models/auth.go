package models

// LoginRequest holds credentials forwarded to the backend login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity describes the authenticated staff user held by a session.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Roles     []Role `json:"roles"`
}

// HasRole reports whether the identity carries role.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity carries at least one of roles.
func (i *Identity) HasAnyRole(roles []Role) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// BackendUser is the identity as issued by the backend, before role filtering.
type BackendUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// AuthResponse is the backend payload returned by a successful login.
type AuthResponse struct {
	User        BackendUser `json:"user"`
	AccessToken string      `json:"accessToken"`
}
