package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorNone ErrorType = iota
	ErrorTransport
	ErrorRequest
	ErrorResource
	ErrorInvalidArgument
)

func (t ErrorType) String() string {
	switch t {
	case ErrorNone:
		return "none"
	case ErrorTransport:
		return "transport"
	case ErrorRequest:
		return "request"
	case ErrorResource:
		return "resource"
	case ErrorInvalidArgument:
		return "invalid argument"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// TransportError represents connection-level errors
type TransportError int

const (
	TransportErrorNone TransportError = iota
	TransportErrorSocketReadFailure
	TransportErrorSocketWriteFailure
	TransportErrorSocketCloseFailure
	TransportErrorConnectionClosed
	TransportErrorTimeout
	TransportErrorIoUringInit
	TransportErrorIoUringSubmit
)

func (e TransportError) String() string {
	switch e {
	case TransportErrorNone:
		return "none"
	case TransportErrorSocketReadFailure:
		return "socket read failed"
	case TransportErrorSocketWriteFailure:
		return "socket write failed"
	case TransportErrorSocketCloseFailure:
		return "socket close failed"
	case TransportErrorConnectionClosed:
		return "connection closed"
	case TransportErrorTimeout:
		return "timeout"
	case TransportErrorIoUringInit:
		return "io_uring init failed"
	case TransportErrorIoUringSubmit:
		return "io_uring submit failed"
	default:
		return fmt.Sprintf("unknown transport error %d", int(e))
	}
}

// RequestError represents errors found while reading the request line
type RequestError int

const (
	RequestErrorNone RequestError = iota
	RequestErrorMalformedRequest
	RequestErrorUnsupportedMethod
)

func (e RequestError) String() string {
	switch e {
	case RequestErrorNone:
		return "none"
	case RequestErrorMalformedRequest:
		return "malformed request"
	case RequestErrorUnsupportedMethod:
		return "unsupported method"
	default:
		return fmt.Sprintf("unknown request error %d", int(e))
	}
}

// ResourceError represents errors mapping a request onto the resource root
type ResourceError int

const (
	ResourceErrorNone ResourceError = iota
	ResourceErrorPathForbidden
	ResourceErrorNotFound
	ResourceErrorFallbackMissing
	ResourceErrorReadFailure
)

func (e ResourceError) String() string {
	switch e {
	case ResourceErrorNone:
		return "none"
	case ResourceErrorPathForbidden:
		return "path forbidden"
	case ResourceErrorNotFound:
		return "resource not found"
	case ResourceErrorFallbackMissing:
		return "fallback resource missing"
	case ResourceErrorReadFailure:
		return "resource read failed"
	default:
		return fmt.Sprintf("unknown resource error %d", int(e))
	}
}

// HttpError is the main error type for the server
type HttpError struct {
	Type          ErrorType
	TransportErr  TransportError
	RequestErr    RequestError
	ResourceErr   ResourceError
	Message       string
	UnderlyingErr error
}

// Error implements the error interface
func (e *HttpError) Error() string {
	if e == nil {
		return "no error"
	}

	var typeStr string
	switch e.Type {
	case ErrorTransport:
		typeStr = fmt.Sprintf("Transport error (%s)", e.TransportErr)
	case ErrorRequest:
		typeStr = fmt.Sprintf("Request error (%s)", e.RequestErr)
	case ErrorResource:
		typeStr = fmt.Sprintf("Resource error (%s)", e.ResourceErr)
	case ErrorInvalidArgument:
		typeStr = "Invalid argument"
	default:
		typeStr = "Unknown error"
	}

	if e.Message != "" {
		typeStr = fmt.Sprintf("%s: %s", typeStr, e.Message)
	}

	if e.UnderlyingErr != nil {
		return fmt.Sprintf("%s (caused by: %v)", typeStr, e.UnderlyingErr)
	}

	return typeStr
}

// Unwrap returns the underlying error for error chain support
func (e *HttpError) Unwrap() error {
	return e.UnderlyingErr
}

// NewTransportError creates a new transport error
func NewTransportError(err TransportError, message string, underlying error) *HttpError {
	return &HttpError{
		Type:          ErrorTransport,
		TransportErr:  err,
		Message:       message,
		UnderlyingErr: underlying,
	}
}

// NewRequestError creates a new request error
func NewRequestError(err RequestError, message string) *HttpError {
	return &HttpError{
		Type:       ErrorRequest,
		RequestErr: err,
		Message:    message,
	}
}

// NewResourceError creates a new resource error
func NewResourceError(err ResourceError, message string, underlying error) *HttpError {
	return &HttpError{
		Type:          ErrorResource,
		ResourceErr:   err,
		Message:       message,
		UnderlyingErr: underlying,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string) *HttpError {
	return &HttpError{
		Type:    ErrorInvalidArgument,
		Message: message,
	}
}

// IsTransport reports whether err carries a transport error.
func IsTransport(err error) bool {
	var httpErr *HttpError
	return stderrors.As(err, &httpErr) && httpErr.Type == ErrorTransport
}

// IsRequest reports whether err carries the given request error kind.
func IsRequest(err error, kind RequestError) bool {
	var httpErr *HttpError
	return stderrors.As(err, &httpErr) && httpErr.Type == ErrorRequest && httpErr.RequestErr == kind
}

// IsResource reports whether err carries the given resource error kind.
func IsResource(err error, kind ResourceError) bool {
	var httpErr *HttpError
	return stderrors.As(err, &httpErr) && httpErr.Type == ErrorResource && httpErr.ResourceErr == kind
}
