package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/gym-admin-console/internal/client"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// Backend is the subset of the REST client the services call.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Patch(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}

// backendError maps a backend failure onto the console's error vocabulary.
// The backend's own message is kept when it sent one.
func backendError(err error, message string) error {
	if err == nil {
		return nil
	}
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, message)
	}

	base := appErrors.ErrBackend
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = appErrors.ErrValidation
	case http.StatusUnauthorized:
		base = appErrors.ErrSessionExpired
	case http.StatusForbidden:
		base = appErrors.ErrForbidden
	case http.StatusNotFound:
		base = appErrors.ErrNotFound
	case http.StatusConflict:
		base = appErrors.ErrConflict
	}

	if msg := apiErr.GeneralMessage(); msg != "" {
		message = msg
	}
	return appErrors.Wrap(err, base.Code, base.Status, message)
}

// invalidPayload reports a request rejected by struct validation, naming
// every failing field.
func invalidPayload(err error, message string) error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return appErrors.WithFields(appErr, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return "is invalid"
	}
}
