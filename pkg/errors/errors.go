// Package errors defines the error kinds reported during client
// construction. Fatal kinds abort construction; non-fatal kinds are
// absorbed by the probe that produced them and degrade to "no
// contribution".
package errors

import (
	"errors"
	"fmt"
)

// Error types
const (
	// ErrMissingEndpoint is returned when no master URL was resolved from
	// any source
	ErrMissingEndpoint = "missing_endpoint"

	// ErrCredentialMaterial is returned when explicitly supplied
	// certificate or key material is malformed or unreadable
	ErrCredentialMaterial = "credential_material"

	// ErrTLSBootstrap is returned when trust/key material could not be
	// assembled into a TLS context
	ErrTLSBootstrap = "tls_bootstrap"

	// ErrInvalidEndpoint is returned when a composed base URL does not
	// parse as an absolute URL
	ErrInvalidEndpoint = "invalid_endpoint"

	// ErrCredentialFileParse is reported (never fatal) when the local
	// credential file exists but cannot be parsed
	ErrCredentialFileParse = "credential_file_parse"

	// ErrProbeIO is reported (never fatal) when a credential probe fails
	// to read its source
	ErrProbeIO = "probe_io"

	// ErrClosed is returned when a request is issued through a closed
	// client
	ErrClosed = "client_closed"
)

// Error represents an error raised while constructing or using a client
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewMissingEndpointError creates a new missing endpoint error
func NewMissingEndpointError(message string, cause error) *Error {
	return NewError(ErrMissingEndpoint, message, cause)
}

// NewCredentialMaterialError creates a new credential material error
func NewCredentialMaterialError(message string, cause error) *Error {
	return NewError(ErrCredentialMaterial, message, cause)
}

// NewTLSBootstrapError creates a new TLS bootstrap error
func NewTLSBootstrapError(message string, cause error) *Error {
	return NewError(ErrTLSBootstrap, message, cause)
}

// NewInvalidEndpointError creates a new invalid endpoint error
func NewInvalidEndpointError(message string, cause error) *Error {
	return NewError(ErrInvalidEndpoint, message, cause)
}

// NewCredentialFileParseError creates a new credential file parse error
func NewCredentialFileParseError(message string, cause error) *Error {
	return NewError(ErrCredentialFileParse, message, cause)
}

// NewProbeIOError creates a new probe I/O error
func NewProbeIOError(message string, cause error) *Error {
	return NewError(ErrProbeIO, message, cause)
}

// NewClosedError creates a new closed client error
func NewClosedError(message string) *Error {
	return NewError(ErrClosed, message, nil)
}

// IsType checks whether err (or any error it wraps) is an Error of the
// given type
func IsType(err error, errorType string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errorType
}

// IsFatal reports whether the error kind aborts client construction.
// Probe-level kinds are absorbed before they reach a caller; this helper
// classifies anything that does surface.
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		// Unknown errors surfacing from construction are always fatal.
		return true
	}
	switch e.Type {
	case ErrCredentialFileParse, ErrProbeIO:
		return false
	}
	return true
}
