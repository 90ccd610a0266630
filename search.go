package swiftype

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/swiftype/internal/transport/rest"
)

// SearchOptions are extra search parameters merged into the request body,
// e.g. {"page": {"current": 2, "size": 20}}.
type SearchOptions map[string]any

const queryField = "query"

// Search runs a full-text query against an engine.
// A "query" key in opts takes precedence over the query argument.
func (c *Client) Search(ctx context.Context, engineID, query string, opts SearchOptions) (*Response, error) {
	req := rest.NewRequest(http.MethodPost, searchPath(engineID)).
		WithBody(searchBody(query, opts), rest.EncodeObject)
	return c.call(ctx, "search", req)
}

func searchBody(query string, opts SearchOptions) map[string]any {
	body := make(map[string]any, len(opts)+1)
	body[queryField] = query
	for k, v := range opts {
		body[k] = v
	}
	return body
}
