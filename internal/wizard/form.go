package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FormErrorKey holds errors that are not tied to a single field.
const FormErrorKey = "_form"

// Validator checks a subset of fields of a value set. It returns per-field
// messages for invalid fields; a non-nil error means validation itself could
// not run.
type Validator[T any] interface {
	Validate(ctx context.Context, values *T, fields []string) (map[string]string, error)
}

// StructValidator validates `validate` struct tags with go-playground/validator.
type StructValidator[T any] struct {
	validate *validator.Validate
}

// NewStructValidator builds a StructValidator; a nil validate gets a fresh instance.
func NewStructValidator[T any](validate *validator.Validate) *StructValidator[T] {
	if validate == nil {
		validate = validator.New()
	}
	return &StructValidator[T]{validate: validate}
}

// Validate implements Validator.
func (v *StructValidator[T]) Validate(ctx context.Context, values *T, fields []string) (map[string]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	err := v.validate.StructPartialCtx(ctx, values, fields...)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = Message(fe)
	}
	return out, nil
}

// Form is the externally owned state of a multi-step form: the value set and
// the error markers currently shown for it.
type Form[T any] struct {
	mu        sync.RWMutex
	values    *T
	errors    map[string]string
	validator Validator[T]
}

// NewForm wraps values. A nil validator falls back to struct tag validation.
func NewForm[T any](values *T, v Validator[T]) *Form[T] {
	if values == nil {
		values = new(T)
	}
	if v == nil {
		v = NewStructValidator[T](nil)
	}
	return &Form[T]{values: values, errors: make(map[string]string), validator: v}
}

// Values returns a copy of the current values.
func (f *Form[T]) Values() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return *f.values
}

// Update mutates the values in place.
func (f *Form[T]) Update(fn func(values *T)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.values)
}

// Errors returns a copy of the current error markers.
func (f *Form[T]) Errors() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// HasErrors reports whether any marker is set.
func (f *Form[T]) HasErrors() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.errors) > 0
}

// SetError marks field with message.
func (f *Form[T]) SetError(field, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[field] = message
}

// ClearErrors drops every marker.
func (f *Form[T]) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = make(map[string]string)
}

// Trigger validates fields, replacing their markers with the outcome. It
// reports whether all of them passed. Failures to run validation are recorded
// under FormErrorKey and count as invalid.
func (f *Form[T]) Trigger(ctx context.Context, fields []string) bool {
	f.mu.RLock()
	snapshot := *f.values
	f.mu.RUnlock()

	found, err := f.validator.Validate(ctx, &snapshot, fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range fields {
		delete(f.errors, field)
	}
	delete(f.errors, FormErrorKey)
	if err != nil {
		f.errors[FormErrorKey] = err.Error()
		return false
	}
	for field, msg := range found {
		f.errors[field] = msg
	}
	return len(found) == 0
}

// Message renders a human readable message for a validation failure.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "url":
		return "must be a valid URL"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

// fieldPath strips the root struct name from the error namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.StructField()
}
