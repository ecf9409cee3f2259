package service

import (
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/wizard"
)

// GymStepProps are shared by every step of the gym form.
type GymStepProps struct {
	IsEdit bool `json:"is_edit"`
}

var gymStatusOptions = []string{
	string(models.GymStatusActive),
	string(models.GymStatusExpired),
	string(models.GymStatusDeleted),
}

// GymFormSteps returns the steps of the gym create/edit form.
func GymFormSteps() []wizard.Step[GymStepProps] {
	return []wizard.Step[GymStepProps]{
		{
			ID:               1,
			Name:             "Gym",
			Schema:           wizard.SchemaOf(models.GymInfo{}),
			FieldsToValidate: []string{"Name", "Address", "Status"},
			Render:           wizard.RenderFunc[GymStepProps](renderGymInfo),
		},
		{
			ID:               2,
			Name:             "Owner",
			Schema:           wizard.SchemaOf(models.OwnerInfo{}),
			FieldsToValidate: []string{"OwnerDocumentID", "OwnerFirstName", "OwnerLastName", "OwnerEmail"},
			Render:           wizard.RenderFunc[GymStepProps](renderOwnerInfo),
		},
	}
}

func renderGymInfo(props GymStepProps) wizard.View {
	fields := []wizard.FieldView{
		{Name: "Name", Label: "Gym name", Kind: "text", Placeholder: "e.g. Iron Gym"},
		{Name: "Address", Label: "Address", Kind: "text", Placeholder: "123 Main St, City"},
	}
	if props.IsEdit {
		fields = append(fields, wizard.FieldView{Name: "Status", Label: "Status", Kind: "select", Options: gymStatusOptions})
	}
	return wizard.View{Fields: fields}
}

func renderOwnerInfo(GymStepProps) wizard.View {
	return wizard.View{Fields: []wizard.FieldView{
		{Name: "OwnerDocumentID", Label: "Owner document number", Kind: "text"},
		{Name: "OwnerFirstName", Label: "Owner first name", Kind: "text"},
		{Name: "OwnerLastName", Label: "Owner last name", Kind: "text"},
		{Name: "OwnerEmail", Label: "Owner email", Kind: "email", Placeholder: "owner@example.com"},
	}}
}
