package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that carry no user-facing reason.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrUnknownStage      = errors.New("unknown stage")
	ErrConflictOnConvert = errors.New("conversion conflict")
)

// ForbiddenError: the principal resolved but lacks the capability or
// ownership. Reason is a business-rule explanation shown to the user verbatim.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func Forbiddenf(format string, args ...interface{}) error {
	return &ForbiddenError{Reason: fmt.Sprintf(format, args...)}
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// InvalidTransitionError: the record's current stage does not permit the
// requested move. Reason is shown to the user verbatim.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string { return e.Reason }

func InvalidTransition(reason string) error {
	return &InvalidTransitionError{Reason: reason}
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

// ValidationError: malformed input, e.g. a non-numeric customer id.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
