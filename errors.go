package swiftype

import "github.com/kailas-cloud/swiftype/internal/domain"

// Error is returned by every failed API call.
type Error = domain.Error

// ErrorKind classifies an Error.
type ErrorKind = domain.Kind

// Error kinds.
const (
	KindConfiguration     = domain.KindConfiguration
	KindTransport         = domain.KindTransport
	KindUnauthorized      = domain.KindUnauthorized
	KindRequestFailed     = domain.KindRequestFailed
	KindMalformedResponse = domain.KindMalformedResponse
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration     = domain.ErrConfiguration
	ErrTransport         = domain.ErrTransport
	ErrUnauthorized      = domain.ErrUnauthorized
	ErrRequestFailed     = domain.ErrRequestFailed
	ErrMalformedResponse = domain.ErrMalformedResponse
)

// KindOf returns the kind of a client error, or 0 if err did not come from the client.
func KindOf(err error) ErrorKind {
	return domain.KindOf(err)
}
