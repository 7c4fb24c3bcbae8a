// Package errors provides custom error types for the event pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyResponse = errors.New("empty response from provider")
	ErrEventNotFound = errors.New("event not found")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// Parse failure reasons. The normalizer aborts a run with exactly one of
// these; per-element validation failures are silent exclusions, not errors.
const (
	ReasonNoArrayFound  = "no array found"
	ReasonInvalidJSON   = "invalid json"
	ReasonNotArray      = "not an array"
	ReasonNoValidEvents = "no valid events"
)

// ProviderError represents a transport failure or unusable reply from an AI
// backend. Fatal to the current run; never retried in the adapter.
type ProviderError struct {
	Provider   string
	StatusCode int // HTTP status when available, 0 otherwise
	Reason     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error [%s] status %d: %s", e.Provider, e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error [%s]: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("provider error [%s]: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider string, statusCode int, reason string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Reason:     reason,
		Err:        err,
	}
}

// NewEmptyResponseError creates a ProviderError for an empty or missing
// content body.
func NewEmptyResponseError(provider string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Reason:   ErrEmptyResponse.Error(),
		Err:      ErrEmptyResponse,
	}
}

// ParseError represents malformed or wholly-unusable model output.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Err: err}
}

// IngestError represents a rejected batch insert. Zero records from the
// batch are committed when this is returned.
type IngestError struct {
	Op  string
	Err error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest error [%s]: %v", e.Op, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError.
func NewIngestError(op string, err error) *IngestError {
	return &IngestError{Op: op, Err: err}
}

// Kind classifies an error into the pipeline taxonomy for structured
// failure results: "provider", "parse", "ingest", or "internal".
func Kind(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return "provider"
	}
	var se *ParseError
	if errors.As(err, &se) {
		return "parse"
	}
	var ie *IngestError
	if errors.As(err, &ie) {
		return "ingest"
	}
	return "internal"
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
