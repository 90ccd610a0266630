package request

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 128
	DefaultSize    = 10
	DefaultMaxSize = 1000
	// MaxResultWindow bounds current*size; checked by division so huge pages cannot overflow.
	MaxResultWindow = 10000
)

// Request is a validated search query.
type Request struct {
	query   string
	terms   []string
	current int
	size    int
}

// New validates and normalizes search parameters.
// Defaults: current=1, size=10. An empty query matches every document.
func New(query string, current, size, maxSize int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query is too long (max %d chars)", MaxQueryLength)
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if current == 0 {
		current = 1
	}
	if size == 0 {
		size = DefaultSize
	}
	if current < 1 {
		return Request{}, fmt.Errorf("page.current must be greater than or equal to 1")
	}
	if size < 1 || size > maxSize {
		return Request{}, fmt.Errorf("page.size must be between 1 and %d", maxSize)
	}
	if current > MaxResultWindow/size {
		return Request{}, fmt.Errorf("page.current * page.size must be at most %d", MaxResultWindow)
	}

	return Request{
		query:   query,
		terms:   strings.Fields(strings.ToLower(query)),
		current: current,
		size:    size,
	}, nil
}

// FromBody parses a decoded JSON search body: {"query": "...", "page": {"current": n, "size": n}}.
// Numbers are expected as json.Number.
func FromBody(body map[string]any, maxSize int) (Request, error) {
	var query string
	if raw, ok := body["query"]; ok {
		s, ok := raw.(string)
		if !ok {
			return Request{}, fmt.Errorf("query must be a string")
		}
		query = s
	}

	var current, size int
	if raw, ok := body["page"]; ok {
		page, ok := raw.(map[string]any)
		if !ok {
			return Request{}, fmt.Errorf("page must be an object")
		}
		var err error
		if current, err = intField(page, "current"); err != nil {
			return Request{}, err
		}
		if size, err = intField(page, "size"); err != nil {
			return Request{}, err
		}
	}

	return New(query, current, size, maxSize)
}

func intField(m map[string]any, key string) (int, error) {
	raw, ok := m[key]
	if !ok {
		return 0, nil
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("page.%s must be an integer", key)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("page.%s must be an integer", key)
	}
	return int(v), nil
}

// Query returns the raw query text.
func (r Request) Query() string { return r.query }

// Terms returns the lowercased query terms.
func (r Request) Terms() []string { return r.terms }

// Current returns the 1-based page number.
func (r Request) Current() int { return r.current }

// Size returns the page size.
func (r Request) Size() int { return r.size }

// Offset returns the index of the first hit on the page.
func (r Request) Offset() int { return (r.current - 1) * r.size }
