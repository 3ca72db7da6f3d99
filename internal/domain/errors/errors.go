package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrPolicyViolation    = errors.New("policy violation")
	ErrConflict           = errors.New("concurrent modification")
	ErrOrderCompleted     = errors.New("order is already completed and cannot be modified")
)

// ValidationError reports malformed input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field with message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PolicyError reports an operation refused by a business rule. It matches
// ErrPolicyViolation and, when set, Cause.
type PolicyError struct {
	Reason string
	Cause  error
}

// NewPolicyError builds a PolicyError with the given reason.
func NewPolicyError(reason string) *PolicyError {
	return &PolicyError{Reason: reason}
}

// NewPolicyErrorWithCause builds a PolicyError that also matches cause.
func NewPolicyErrorWithCause(reason string, cause error) *PolicyError {
	return &PolicyError{Reason: reason, Cause: cause}
}

func (e *PolicyError) Error() string {
	return e.Reason
}

func (e *PolicyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPolicyViolation}
	}
	return []error{ErrPolicyViolation, e.Cause}
}
