package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type profileValues struct {
	Nick   string `validate:"required,min=3"`
	Status string `validate:"omitempty,oneof=active expired"`
	Site   string `validate:"omitempty,url"`
}

func TestTriggerReportsMessages(t *testing.T) {
	form := NewForm(&profileValues{Nick: "ab", Status: "gone", Site: "nope"}, nil)

	ok := form.Trigger(context.Background(), []string{"Nick", "Status", "Site"})

	assert.False(t, ok)
	errs := form.Errors()
	assert.Equal(t, "must be at least 3 characters", errs["Nick"])
	assert.Equal(t, "must be one of: active, expired", errs["Status"])
	assert.Equal(t, "must be a valid URL", errs["Site"])
}

func TestTriggerOnlyTouchesRequestedFields(t *testing.T) {
	form := NewForm(&profileValues{Nick: "abc", Status: "gone"}, nil)
	form.SetError("Site", "server rejected")

	assert.True(t, form.Trigger(context.Background(), []string{"Nick"}))
	assert.Equal(t, map[string]string{"Site": "server rejected"}, form.Errors())
}

func TestTriggerWithoutFieldsPasses(t *testing.T) {
	form := NewForm(&profileValues{}, nil)
	assert.True(t, form.Trigger(context.Background(), nil))
}

func TestNewFormAllocatesValues(t *testing.T) {
	form := NewForm[profileValues](nil, nil)
	form.Update(func(v *profileValues) { v.Nick = "zed" })
	assert.Equal(t, "zed", form.Values().Nick)
}

func TestErrorsReturnsCopy(t *testing.T) {
	form := NewForm(&profileValues{}, nil)
	form.SetError("Nick", "bad")
	errs := form.Errors()
	errs["Nick"] = "changed"
	assert.Equal(t, "bad", form.Errors()["Nick"])
	form.ClearErrors()
	assert.False(t, form.HasErrors())
}
