package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure returned by the client
type ErrorKind int

const (
	// KindUnknown is never produced by the client; KindOf returns it for foreign errors
	KindUnknown ErrorKind = iota
	// KindValidation indicates the input was rejected before any request was sent
	KindValidation
	// KindAuthentication indicates the API key was refused (HTTP 401)
	KindAuthentication
	// KindServer indicates the API failed internally (HTTP 500)
	KindServer
	// KindHTTP indicates any other non-2xx response
	KindHTTP
	// KindNetwork indicates the request never produced a response
	KindNetwork
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindServer:
		return "server"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind, for use with errors.Is
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid booking client configuration")
	// ErrValidation matches every KindValidation error
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized matches every KindAuthentication error
	ErrUnauthorized = errors.New("authentication failed: check your API key")
	// ErrServer matches every KindServer error
	ErrServer = errors.New("server error: try again later")
	// ErrHTTP matches every KindHTTP error
	ErrHTTP = errors.New("unexpected HTTP status")
	// ErrNetwork matches every KindNetwork error
	ErrNetwork = errors.New("network error")
)

// Error is the single error type returned by the client operations.
// Exactly one Kind is set; StatusCode is populated for the HTTP kinds and
// Fields for KindValidation. Body holds a 2xx response that could not be
// decoded.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []string
	Body       []byte
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("missing fields: %s", strings.Join(e.Fields, ", "))
	case KindAuthentication:
		return ErrUnauthorized.Error()
	case KindServer:
		return ErrServer.Error()
	case KindHTTP:
		return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuthentication:
		return ErrUnauthorized
	case KindServer:
		return ErrServer
	case KindHTTP:
		return ErrHTTP
	case KindNetwork:
		return ErrNetwork
	default:
		return nil
	}
}

// KindOf returns the kind of a client error, or KindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UndecodedBody returns the raw body carried by err when a successful
// response could not be decoded
func UndecodedBody(err error) ([]byte, bool) {
	var e *Error
	if errors.As(err, &e) && e.Body != nil {
		return e.Body, true
	}
	return nil, false
}

// APIFailureError is returned by Response.Result when the server answered
// with success=false
type APIFailureError struct {
	Message string
}

// Error implements the error interface
func (e *APIFailureError) Error() string {
	if e.Message == "" {
		return "API reported failure"
	}
	return fmt.Sprintf("API reported failure: %s", e.Message)
}

func newValidationError(fields []string) *Error {
	return &Error{
		Kind:   KindValidation,
		Fields: fields,
	}
}

// classifyStatus maps a non-2xx status to the matching error kind
func classifyStatus(status int, message string) *Error {
	switch status {
	case 401:
		return &Error{Kind: KindAuthentication, StatusCode: status, Message: message}
	case 500:
		return &Error{Kind: KindServer, StatusCode: status, Message: message}
	default:
		return &Error{Kind: KindHTTP, StatusCode: status, Message: message}
	}
}
