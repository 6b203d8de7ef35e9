// ABOUTME: Error taxonomy shared by the orchestrator, normalizer, and stores
// ABOUTME: Typed errors are classified with errors.As; ErrNotFound with errors.Is
package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by mutations that target a missing or non-owned row.
// Read paths report absence with a nil result instead.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing request field or a value outside its closed set
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// MalformedResponseError reports a provider reply that cannot be normalized
type MalformedResponseError struct {
	Kind   InteractionType
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("malformed %s response: field %q %s", e.Kind, e.Field, e.Reason)
}

// ProviderError wraps a failure of the AI provider capability itself
type ProviderError struct {
	Kind InteractionType
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider call for %s failed: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed read or write against the persistence layer
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsMalformedResponse reports whether err is (or wraps) a MalformedResponseError
func IsMalformedResponse(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}

// IsProvider reports whether err is (or wraps) a ProviderError
func IsProvider(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
