// Package errors provides the structured error type used across the
// generation pipeline. Every failure is classified by Kind so the
// orchestrator can decide between aborting the run and downgrading the
// failure to a stage warning.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for pipeline failure-policy decisions.
type Kind string

const (
	// KindValidation covers configuration or descriptor invariant
	// violations. Always fatal, raised before any disk write.
	KindValidation Kind = "validation"

	// KindGeneration covers manifest conflicts and unresolved
	// placeholders. Fatal, raised before materialization.
	KindGeneration Kind = "generation"

	// KindIO covers filesystem failures during materialization.
	KindIO Kind = "io"

	// KindProvider covers failures inside a provider call. Degraded by
	// default; fatal only when the capability was required.
	KindProvider Kind = "provider"

	// KindConfig covers configuration loading and parsing problems.
	KindConfig Kind = "config"

	// KindInternal is the fallback for unclassified errors.
	KindInternal Kind = "internal"
)

// Severity indicates how an error affects the running pipeline.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // aborts remaining stages
	SeverityError   Severity = "error"   // fails the stage
	SeverityWarning Severity = "warning" // degrades the stage, run continues
)

// Fields carries structured context attached to an error.
type Fields map[string]any

// Error is the structured error type threaded through the pipeline.
type Error struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Cause    error    `json:"-"`
	Context  Fields   `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s (%s): %s", e.Kind, e.Severity, e.Message))
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a context field and returns the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(Fields)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the error must abort the remaining stages.
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a structured error with the given kind and severity.
func New(kind Kind, severity Severity, message string) *Error {
	return &Error{Kind: kind, Severity: severity, Message: message}
}

// Wrap creates a structured error wrapping an existing cause.
func Wrap(err error, kind Kind, severity Severity, message string) *Error {
	return &Error{Kind: kind, Severity: severity, Message: message, Cause: err}
}

// Validation creates a fatal validation error.
func Validation(message string) *Error {
	return New(KindValidation, SeverityFatal, message)
}

// Generation creates a fatal generation error.
func Generation(message string) *Error {
	return New(KindGeneration, SeverityFatal, message)
}

// IO wraps a filesystem failure as a fatal io error.
func IO(err error, message string) *Error {
	return Wrap(err, KindIO, SeverityFatal, message)
}

// Provider wraps a provider failure as a degraded (warning) error.
func Provider(err error, message string) *Error {
	return Wrap(err, KindProvider, SeverityWarning, message)
}

// ProviderRequired wraps a provider failure for a required capability as fatal.
func ProviderRequired(err error, message string) *Error {
	return Wrap(err, KindProvider, SeverityFatal, message)
}

// Config wraps a configuration loading failure.
func Config(err error, message string) *Error {
	return Wrap(err, KindConfig, SeverityFatal, message)
}

// KindOf extracts the Kind from an error chain, or KindInternal when the
// chain carries no structured error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain carries a structured error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsFatal reports whether the error chain carries a fatal structured
// error. Unclassified errors are treated as fatal so unknown failures
// never pass silently.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var se *Error
	if errors.As(err, &se) {
		return se.IsFatal()
	}
	return true
}
