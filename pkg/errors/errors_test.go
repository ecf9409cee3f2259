package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Nil(t, FromError(nil))
}

func TestWithFieldsCopies(t *testing.T) {
	fields := map[string]string{"Email": "is required"}
	err := WithFields(ErrValidation, fields)
	fields["Email"] = "changed"

	assert.Equal(t, "is required", err.Fields["Email"])
	assert.Empty(t, ErrValidation.Fields)
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", Clone(ErrSessionLoading, ""))
	assert.True(t, HasCode(wrapped, ErrSessionLoading.Code))
	assert.False(t, HasCode(wrapped, ErrNotFound.Code))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrNotFound.Code))
}
