package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type embeddedSection struct {
	accountSection
	Phone  string
	hidden string
}

func TestSchemaOf(t *testing.T) {
	assert.Equal(t, FieldSet{"Name", "Email"}, SchemaOf(accountSection{}))
	assert.Equal(t, FieldSet{"Name", "Email"}, SchemaOf(&accountSection{}))
	assert.Equal(t, FieldSet{"accountSection.Name", "accountSection.Email", "Phone"}, SchemaOf(embeddedSection{}))
	assert.Empty(t, SchemaOf(42))
	assert.Empty(t, SchemaOf(nil))
}

type ContactDetails struct {
	Email string `validate:"required,email"`
}

type contactStep struct {
	ContactDetails
	Nickname string `validate:"required"`
}

func TestSchemaOfEmbeddedSectionIsValidated(t *testing.T) {
	fields := SchemaOf(contactStep{})
	assert.Equal(t, FieldSet{"ContactDetails.Email", "Nickname"}, fields)

	form := NewForm(&contactStep{Nickname: "ana"}, nil)
	assert.False(t, form.Trigger(context.Background(), fields))
	assert.Equal(t, map[string]string{"ContactDetails.Email": "is required"}, form.Errors())

	form.Update(func(v *contactStep) { v.Email = "ana@example.com" })
	assert.True(t, form.Trigger(context.Background(), fields))
	assert.Empty(t, form.Errors())
}

func TestStepFieldsFallBackToSchema(t *testing.T) {
	step := Step[props]{Schema: FieldSet{"A", "B"}}
	assert.Equal(t, []string{"A", "B"}, step.Fields())

	step.FieldsToValidate = []string{"B"}
	assert.Equal(t, []string{"B"}, step.Fields())

	assert.Nil(t, Step[props]{}.Fields())
}

func TestFieldSetReturnsCopy(t *testing.T) {
	set := FieldSet{"A"}
	fields := set.Fields()
	fields[0] = "Z"
	assert.Equal(t, FieldSet{"A"}, set)
}

type taggedValues struct {
	OwnerEmail string `json:"ownerEmail"`
	Nickname   string
	Skipped    string `json:"-"`
}

func TestFieldForJSON(t *testing.T) {
	field, ok := FieldForJSON(taggedValues{}, "ownerEmail")
	assert.True(t, ok)
	assert.Equal(t, "OwnerEmail", field)

	field, ok = FieldForJSON(&taggedValues{}, "nickname")
	assert.True(t, ok)
	assert.Equal(t, "Nickname", field)

	_, ok = FieldForJSON(taggedValues{}, "unknown")
	assert.False(t, ok)
	_, ok = FieldForJSON(taggedValues{}, "")
	assert.False(t, ok)
	_, ok = FieldForJSON("nope", "ownerEmail")
	assert.False(t, ok)
}
