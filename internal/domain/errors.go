package domain

import (
	"errors"
	"fmt"
)

// Client-side error kinds. Every failed API call maps to exactly one of them.
var (
	// ErrConfiguration signals a client that cannot issue requests (missing API key).
	ErrConfiguration = errors.New("authorization requires an API key")
	// ErrTransport signals a failure before any HTTP response was obtained.
	ErrTransport = errors.New("transport error")
	// ErrUnauthorized signals an HTTP 401 response.
	ErrUnauthorized = errors.New("authorization required")
	// ErrRequestFailed signals any non-2xx, non-401 response.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse signals a 2xx response whose body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// Server-side sentinels used by the mock App Search server.
var (
	// ErrEngineNotFound signals a missing engine.
	ErrEngineNotFound = errors.New("could not find engine")
	// ErrEngineExists signals a duplicate engine name.
	ErrEngineExists = errors.New("engine already exists")
	// ErrInvalidEngine signals an invalid engine definition.
	ErrInvalidEngine = errors.New("invalid engine")
	// ErrInvalidDocument signals a document that cannot be indexed.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
)

// Kind classifies a client error.
type Kind int

const (
	// KindConfiguration is a missing API key at call time.
	KindConfiguration Kind = iota + 1
	// KindTransport is a network failure (dial, DNS, timeout, cancelled context).
	KindTransport
	// KindUnauthorized is an HTTP 401.
	KindUnauthorized
	// KindRequestFailed is any other non-2xx status.
	KindRequestFailed
	// KindMalformedResponse is a 2xx response that failed JSON parsing.
	KindMalformedResponse
)

var kindSentinels = map[Kind]error{
	KindConfiguration:     ErrConfiguration,
	KindTransport:         ErrTransport,
	KindUnauthorized:      ErrUnauthorized,
	KindRequestFailed:     ErrRequestFailed,
	KindMalformedResponse: ErrMalformedResponse,
}

// String returns the metric/log label of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindRequestFailed:
		return "request_failed"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the API client.
// Status and Body are set for KindUnauthorized and KindRequestFailed;
// Err carries the underlying transport or decoder error when there is one.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	sentinel := kindSentinels[e.Kind]
	if sentinel == nil {
		sentinel = errors.New("unknown error")
	}
	switch {
	case e.Kind == KindRequestFailed:
		return fmt.Sprintf("%s: got response code %d, response: %s", sentinel, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", sentinel, e.Err)
	default:
		return sentinel.Error()
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := kindSentinels[e.Kind]; s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewError creates a client error of the given kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewStatusError creates a client error for an unexpected HTTP status.
func NewStatusError(status int, body string) *Error {
	kind := KindRequestFailed
	if status == 401 {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Status: status, Body: body}
}

// KindOf returns the kind of a client error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
