package models

import (
	"strings"
	"time"
)

// UserStatus is the account state of a backend user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// ClientProfile carries the member-specific profile of a user.
type ClientProfile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	Birthdate  string    `json:"birthdate"`
	HealthInfo string    `json:"healthInfo,omitempty"`
	Goals      string    `json:"goals,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// User mirrors the backend user resource.
type User struct {
	ID               int64          `json:"id"`
	Email            string         `json:"email"`
	DocumentID       string         `json:"documentId"`
	UserName         string         `json:"userName"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	TwoFactorEnabled bool           `json:"twoFactorEnabled"`
	IsSuperAdmin     bool           `json:"isSuperAdmin"`
	Status           UserStatus     `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Client           *ClientProfile `json:"client,omitempty"`
}

// CreateUserRequest creates a staff user.
type CreateUserRequest struct {
	Email            string `json:"email" validate:"required,email"`
	DocumentID       string `json:"documentId" validate:"required"`
	UserName         string `json:"userName" validate:"required"`
	Password         string `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled,omitempty"`
}

// CreateClientRequest registers a member together with their profile.
type CreateClientRequest struct {
	CreateUserRequest
	PhotoURL   string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Birthdate  string `json:"birthdate" validate:"required,datetime=2006-01-02"`
	HealthInfo string `json:"healthInfo,omitempty"`
	Goals      string `json:"goals,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// UpdateUserRequest patches a user; nil fields are left untouched.
type UpdateUserRequest struct {
	Email            *string     `json:"email,omitempty" validate:"omitempty,email"`
	DocumentID       *string     `json:"documentId,omitempty"`
	UserName         *string     `json:"userName,omitempty"`
	FirstName        *string     `json:"firstName,omitempty"`
	LastName         *string     `json:"lastName,omitempty"`
	TwoFactorEnabled *bool       `json:"twoFactorEnabled,omitempty"`
	PhotoURL         *string     `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Birthdate        *string     `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	HealthInfo       *string     `json:"healthInfo,omitempty"`
	Goals            *string     `json:"goals,omitempty"`
	Notes            *string     `json:"notes,omitempty"`
	Status           *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
}

// AssignRoleRequest grants a role to a user within a gym.
type AssignRoleRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	GymID  int64 `json:"gymId" validate:"required,gt=0"`
	RoleID int64 `json:"roleId" validate:"required,gt=0"`
}

// UserFilter narrows a user listing. The backend returns every user, so the
// console applies the filter itself.
type UserFilter struct {
	Search string
	Status *UserStatus
}

// Matches reports whether u passes the filter.
func (f UserFilter) Matches(u User) bool {
	if f.Status != nil && u.Status != *f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, hay := range []string{u.Email, u.UserName, u.FirstName, u.LastName, u.DocumentID} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}
