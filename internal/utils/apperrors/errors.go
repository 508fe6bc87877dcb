// Package apperrors provides typed errors shared across layers of the service.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where an error originated.
type Layer string

const (
	LayerConfig     Layer = "config"
	LayerHandler    Layer = "handler"
	LayerService    Layer = "service"
	LayerRepository Layer = "repository"
	LayerClient     Layer = "client"
)

// ErrorType classifies an error for HTTP mapping and caller handling.
type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration_error"
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeUpstream      ErrorType = "upstream_error"
	ErrorTypeStorage       ErrorType = "storage_error"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// Error is the canonical error carried between layers. Code is a stable
// per-call-site identifier used to locate the origin from logs.
type Error struct {
	Layer   Layer
	Type    ErrorType
	Message string
	Cause   error
	Code    string

	// Populated only for ErrorTypeUpstream: the external service status and
	// raw body to pass through to the caller.
	UpstreamStatus      int
	UpstreamBody        []byte
	UpstreamContentType string
}

// FromError extracts the typed error from err's chain.
func FromError(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs a typed error at the given layer.
func New(_ context.Context, layer Layer, errType ErrorType, message string, cause error, code string) *Error {
	return &Error{
		Layer:   layer,
		Type:    errType,
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// NewUpstream constructs an upstream error carrying the external status and body.
func NewUpstream(_ context.Context, layer Layer, status int, body []byte, contentType, message, code string) *Error {
	return &Error{
		Layer:               layer,
		Type:                ErrorTypeUpstream,
		Message:             message,
		Code:                code,
		UpstreamStatus:      status,
		UpstreamBody:        body,
		UpstreamContentType: contentType,
	}
}

// As wraps err preserving its type when it is already an *Error, otherwise it
// becomes an internal error at the given layer.
func As(ctx context.Context, layer Layer, err error, message string) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return &Error{
			Layer:               layer,
			Type:                typed.Type,
			Message:             message,
			Cause:               err,
			Code:                typed.Code,
			UpstreamStatus:      typed.UpstreamStatus,
			UpstreamBody:        typed.UpstreamBody,
			UpstreamContentType: typed.UpstreamContentType,
		}
	}
	return New(ctx, layer, ErrorTypeInternal, message, err, "")
}

// IsType reports whether err carries the given error type.
func IsType(err error, errType ErrorType) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type == errType
	}
	return false
}

// TypeOf returns the error type, defaulting to internal for untyped errors.
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeInternal
}

// HTTPStatus maps an error to the status code surfaced to API callers.
// Upstream errors pass the external status through.
func HTTPStatus(err error) int {
	var typed *Error
	if !errors.As(err, &typed) {
		return http.StatusInternalServerError
	}
	switch typed.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream:
		if typed.UpstreamStatus > 0 {
			return typed.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
