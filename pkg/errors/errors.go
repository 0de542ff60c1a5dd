package errors

import (
	"errors"
	"fmt"
)

// Generic sentinels shared across layers

var (
	// ErrNotFound covers lookups that matched nothing
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput covers malformed caller input
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal covers faults the caller cannot act on
	ErrInternal = errors.New("internal error")

	// ErrUnavailable covers a collaborator being down
	ErrUnavailable = errors.New("service unavailable")
)

// Projection pipeline errors
//
// Each gate of the serving pipeline fails with its own sentinel so callers
// can map failures to distinct HTTP statuses without string matching.

var (
	// ErrPlayerNotFound indicates the requested player does not exist
	ErrPlayerNotFound = errors.New("player not found")

	// ErrMarketNotFound indicates an unknown market code
	ErrMarketNotFound = errors.New("market not found")

	// ErrNoActiveModel indicates the market exists but has no bound model yet
	ErrNoActiveModel = errors.New("no active model for market")

	// ErrFeatureNotFound indicates no feature snapshot exists for the
	// player/market/lookback; recoverable once the feature job catches up
	ErrFeatureNotFound = errors.New("no features found for player/market/lookback")

	// ErrArtifactMissing indicates the active binding points at a model
	// artifact that cannot be read; an operational fault, not a caller error
	ErrArtifactMissing = errors.New("model artifact missing")

	// ErrInference indicates model inference failed; a contract violation
	// between training and serving, never retried
	ErrInference = errors.New("inference failed")
)

// LookbackMismatchError is returned when the requested feature window does not
// match the lookback the active model was trained on. Both values ride along
// so the caller can diagnose the request without log correlation.
type LookbackMismatchError struct {
	Bound     int
	Requested int
}

func (e *LookbackMismatchError) Error() string {
	return fmt.Sprintf("active model lookback is %d but request lookback is %d", e.Bound, e.Requested)
}

// NewLookbackMismatch creates a lookback mismatch error
func NewLookbackMismatch(bound, requested int) *LookbackMismatchError {
	return &LookbackMismatchError{Bound: bound, Requested: requested}
}

// DomainError carries a stable machine code alongside the message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a coded error wrapping err (err may be nil)
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError names the offending request field and the value received
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Re-exports of the stdlib chain helpers so call sites import one package

func Is(err, target error) bool { return errors.Is(err, target) }
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Wrap prefixes err with message, preserving the chain; nil passes through
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
