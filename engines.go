package swiftype

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/swiftype/internal/transport/rest"
)

// Engines lists all engines.
func (c *Client) Engines(ctx context.Context) (*Response, error) {
	return c.call(ctx, "engines.list", rest.NewRequest(http.MethodGet, enginesPath))
}

// Engine retrieves a single engine.
func (c *Client) Engine(ctx context.Context, engineID string) (*Response, error) {
	return c.call(ctx, "engines.get", rest.NewRequest(http.MethodGet, enginePath(engineID)))
}

// CreateEngine creates an engine named engineID.
func (c *Client) CreateEngine(ctx context.Context, engineID string) (*Response, error) {
	req := rest.NewRequest(http.MethodPost, enginesPath).
		WithBody(map[string]any{"name": engineID}, rest.EncodeObject)
	return c.call(ctx, "engines.create", req)
}

// DeleteEngine deletes an engine and all of its documents.
func (c *Client) DeleteEngine(ctx context.Context, engineID string) (*Response, error) {
	return c.call(ctx, "engines.delete", rest.NewRequest(http.MethodDelete, enginePath(engineID)))
}
