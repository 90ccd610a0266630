// Package rest executes App Search API requests over HTTP.
//
// Every call goes through Executor.Do: the request descriptor is turned into
// a URL with the auth_token parameter, the body is JSON encoded according to
// its Encoding, and the response is classified into a Response or a
// *domain.Error.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Encoding selects how a request body is serialized.
type Encoding int

const (
	// EncodeObject forces a JSON object at the top level: a slice body is
	// sent as {"0": ..., "1": ...}. Used for single-resource bodies.
	EncodeObject Encoding = iota
	// EncodePlain sends the value as-is. Document batch endpoints reject an
	// object where they expect an array.
	EncodePlain
)

func (e Encoding) String() string {
	if e == EncodePlain {
		return "plain"
	}
	return "object"
}

// Request describes a single API call relative to the configured base path.
type Request struct {
	Method   string
	Path     string
	Params   map[string]string
	Body     any
	Encoding Encoding
}

// NewRequest creates a request descriptor with object encoding.
func NewRequest(method, path string) Request {
	return Request{Method: method, Path: path}
}

// WithBody returns a copy of r carrying body encoded with enc.
func (r Request) WithBody(body any, enc Encoding) Request {
	r.Body = body
	r.Encoding = enc
	return r
}

// WithParam returns a copy of r with an extra query parameter.
func (r Request) WithParam(key, value string) Request {
	params := make(map[string]string, len(r.Params)+1)
	for k, v := range r.Params {
		params[k] = v
	}
	params[key] = value
	r.Params = params
	return r
}

func (r Request) validate() error {
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return nil
	default:
		return fmt.Errorf("unsupported method %q", r.Method)
	}
}

// ErrNoBody is returned by Response.Decode when the server sent no content.
var ErrNoBody = errors.New("response has no body")

// Response is a successful (2xx) API response.
// Body holds the parsed JSON value with numbers kept as json.Number;
// it is nil when the server returned no content.
type Response struct {
	Status int
	Body   any
	Raw    json.RawMessage
}

// HasBody reports whether the server returned a JSON value.
func (r *Response) HasBody() bool {
	return r != nil && len(r.Raw) > 0
}

// Decode unmarshals the raw response body into v.
func (r *Response) Decode(v any) error {
	if !r.HasBody() {
		return ErrNoBody
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
