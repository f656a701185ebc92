// Package errors provides centralized error definitions and error handling
// utilities for the studyplan codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - StrategyError: errors from an external schedule-proposing strategy
//   - ScorerError: errors from a risk-scoring backend
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewStrategyError("proposal rejected", errors.ErrStrategyInvalidOutput)
//
//	// Semantic error
//	err := errors.NewValidationError("estimated_effort_hours", -2, "must be non-negative")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrStrategyTimeout) { ... }
//
//	// Check for error types
//	var stratErr *errors.StrategyError
//	if errors.As(err, &stratErr) { ... }
//
//	// Use classification helpers
//	if errors.IsFallbackTrigger(err) { ... }
//
// # Error Classification
//
// Strategy errors never surface as failures of a scheduling call; they are
// classified as fallback triggers so the selector can silently switch to the
// deterministic scheduler. Validation errors are surfaced to the caller
// synchronously, before any allocation happens.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Strategy-related sentinel errors. Any of these triggers fallback to the
// deterministic scheduler; none of them is surfaced as a failure of the
// overall scheduling call.
var (
	// ErrStrategyUnavailable indicates that no external strategy is
	// configured or the configured strategy cannot be reached.
	ErrStrategyUnavailable = New("external strategy unavailable")
	// ErrStrategyTimeout indicates that the external strategy did not
	// respond within its deadline.
	ErrStrategyTimeout = New("external strategy timed out")
	// ErrStrategyInvalidOutput indicates that the external strategy returned
	// output that could not be parsed or failed structural validation.
	ErrStrategyInvalidOutput = New("external strategy returned invalid output")
)

// General sentinel errors
var (
	// ErrTaskNotFound indicates that a task could not be found.
	ErrTaskNotFound = New("task not found")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
)

// ValidationError represents a rejected input with field-level context.
// Validation failures are synchronous: they are returned before any
// allocation work starts.
//
// Example:
//
//	err := errors.NewValidationError("horizon_days", 0, "must be at least 1")
//	fmt.Println(err) // "invalid input: horizon_days: must be at least 1 (got: 0)"
type ValidationError struct {
	Field   string // The input field path (e.g., "tasks[2].estimated_effort_hours")
	Value   any    // The rejected value
	Message string // Human-readable error description
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Is reports whether this error matches the target. All validation errors
// match ErrInvalidInput so callers can class-check without type assertions.
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// TimeoutError represents an operation that exceeded its deadline.
type TimeoutError struct {
	Operation string
	cause     error
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, cause error) *TimeoutError {
	return &TimeoutError{Operation: operation, cause: cause}
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s timed out: %v", e.Operation, e.cause)
	}
	return fmt.Sprintf("%s timed out", e.Operation)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.cause
}

// StrategyError represents a failure of an external schedule-proposing
// strategy. It carries the strategy name for diagnostics and wraps one of
// the strategy sentinel errors as its cause.
//
// Example:
//
//	err := errors.NewStrategyError("empty response body", errors.ErrStrategyInvalidOutput).
//		WithStrategy("llm")
type StrategyError struct {
	Strategy string
	message  string
	cause    error
}

// NewStrategyError creates a new StrategyError.
func NewStrategyError(message string, cause error) *StrategyError {
	return &StrategyError{message: message, cause: cause}
}

// WithStrategy adds the strategy name to the error context.
func (e *StrategyError) WithStrategy(name string) *StrategyError {
	e.Strategy = name
	return e
}

// Error returns the formatted error message.
func (e *StrategyError) Error() string {
	prefix := "strategy error"
	if e.Strategy != "" {
		prefix = fmt.Sprintf("strategy error [strategy=%s]", e.Strategy)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *StrategyError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *StrategyError) Is(target error) bool {
	if _, ok := target.(*StrategyError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// ScorerError represents a failure of a risk-scoring backend. The model
// scorer treats any ScorerError as a signal to fall back to the rule-based
// heuristic; it is never propagated to callers.
type ScorerError struct {
	message string
	cause   error
}

// NewScorerError creates a new ScorerError.
func NewScorerError(message string, cause error) *ScorerError {
	return &ScorerError{message: message, cause: cause}
}

// Error returns the formatted error message.
func (e *ScorerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("scorer error: %s: %v", e.message, e.cause)
	}
	return fmt.Sprintf("scorer error: %s", e.message)
}

// Unwrap returns the underlying error.
func (e *ScorerError) Unwrap() error {
	return e.cause
}

// IsFallbackTrigger reports whether err should cause the strategy selector
// to fall back to the deterministic scheduler rather than fail the call.
// Every strategy failure mode qualifies: unavailability, timeout (including
// context deadlines), cancellation, and malformed output.
func IsFallbackTrigger(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStrategyUnavailable) ||
		errors.Is(err, ErrStrategyTimeout) ||
		errors.Is(err, ErrStrategyInvalidOutput) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// FallbackReason returns a short machine-readable reason string for a
// fallback trigger, for inclusion in diagnostic metadata.
func FallbackReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStrategyTimeout), errors.Is(err, context.DeadlineExceeded):
		return "strategy_timeout"
	case errors.Is(err, ErrStrategyInvalidOutput):
		return "strategy_invalid_output"
	case errors.Is(err, ErrStrategyUnavailable):
		return "strategy_unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "strategy_failed"
	}
}
