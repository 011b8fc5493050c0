package validator

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

const validationErrorPrefix = "Validation Error: "

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func fieldError(field, message string) error {
	return &FieldError{
		Field:   field,
		Message: message,
	}
}

// ValidationError carries every field failure of one payload.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	errs := multierr.Errors(e.err)
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}

	return validationErrorPrefix + strings.Join(messages, ", ")
}

func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Fields returns the names of the failed fields in report order.
func (e *ValidationError) Fields() []string {
	errs := multierr.Errors(e.err)
	fields := make([]string, 0, len(errs))
	for _, err := range errs {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			fields = append(fields, fieldErr.Field)
		}
	}

	return fields
}

func newValidationError(err error) error {
	if err == nil {
		return nil
	}

	return &ValidationError{err: err}
}
