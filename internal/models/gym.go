package models

import "time"

// GymStatus is the lifecycle state of a gym.
type GymStatus string

const (
	GymStatusActive  GymStatus = "active"
	GymStatusExpired GymStatus = "expired"
	GymStatusDeleted GymStatus = "deleted"
)

// Gym mirrors the backend gym resource.
type Gym struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Status    GymStatus  `json:"status"`
	Owner     *OwnerInfo `json:"owner,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// GymInfo is the gym section of the gym form.
type GymInfo struct {
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Status  GymStatus `json:"status,omitempty"`
}

// OwnerInfo is the owner section of the gym form.
type OwnerInfo struct {
	OwnerDocumentID string `json:"ownerDocumentId"`
	OwnerFirstName  string `json:"ownerFirstName"`
	OwnerLastName   string `json:"ownerLastName"`
	OwnerEmail      string `json:"ownerEmail"`
}

// GymFormValues is the merged value set edited by the gym wizard.
type GymFormValues struct {
	Name            string    `json:"name" validate:"required,max=100"`
	Address         string    `json:"address" validate:"required"`
	Status          GymStatus `json:"status,omitempty" validate:"omitempty,oneof=active expired deleted"`
	OwnerDocumentID string    `json:"ownerDocumentId" validate:"required"`
	OwnerFirstName  string    `json:"ownerFirstName" validate:"required"`
	OwnerLastName   string    `json:"ownerLastName" validate:"required"`
	OwnerEmail      string    `json:"ownerEmail" validate:"required,email"`
}

// CreateGymRequest creates a gym without an owner.
type CreateGymRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required"`
}

// CreateGymWithOwnerRequest creates a gym together with its owner account.
type CreateGymWithOwnerRequest struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	OwnerDocumentID string `json:"ownerDocumentId"`
	OwnerFirstName  string `json:"ownerFirstName"`
	OwnerLastName   string `json:"ownerLastName"`
	OwnerEmail      string `json:"ownerEmail"`
}

// UpdateGymRequest patches an existing gym.
type UpdateGymRequest struct {
	Name    *string    `json:"name,omitempty"`
	Address *string    `json:"address,omitempty"`
	Status  *GymStatus `json:"status,omitempty"`
}

// GymFormFromGym seeds form values from an existing gym for editing.
func GymFormFromGym(g *Gym) GymFormValues {
	if g == nil {
		return GymFormValues{Status: GymStatusActive}
	}
	values := GymFormValues{Name: g.Name, Address: g.Address, Status: g.Status}
	if g.Owner != nil {
		values.OwnerDocumentID = g.Owner.OwnerDocumentID
		values.OwnerFirstName = g.Owner.OwnerFirstName
		values.OwnerLastName = g.Owner.OwnerLastName
		values.OwnerEmail = g.Owner.OwnerEmail
	}
	return values
}

// CreatePayload converts the form into a create-with-owner request.
func (v GymFormValues) CreatePayload() CreateGymWithOwnerRequest {
	return CreateGymWithOwnerRequest{
		Name:            v.Name,
		Address:         v.Address,
		OwnerDocumentID: v.OwnerDocumentID,
		OwnerFirstName:  v.OwnerFirstName,
		OwnerLastName:   v.OwnerLastName,
		OwnerEmail:      v.OwnerEmail,
	}
}

// UpdatePayload converts the gym section of the form into a patch request.
func (v GymFormValues) UpdatePayload() UpdateGymRequest {
	req := UpdateGymRequest{Name: &v.Name, Address: &v.Address}
	if v.Status != "" {
		status := v.Status
		req.Status = &status
	}
	return req
}
