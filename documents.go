package swiftype

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/swiftype/internal/transport/rest"
)

// Document is an untyped JSON object. The "id" field identifies it for
// updates and deletes; the server assigns one when it is missing.
type Document = map[string]any

// ListDocuments retrieves all documents of an engine.
func (c *Client) ListDocuments(ctx context.Context, engineID string) (*Response, error) {
	return c.call(ctx, "documents.list",
		rest.NewRequest(http.MethodGet, documentsPath(engineID)+"/list"))
}

// Documents retrieves documents by id. The response is aligned with ids,
// with null for ids that do not exist.
func (c *Client) Documents(ctx context.Context, engineID string, ids []string) (*Response, error) {
	req := rest.NewRequest(http.MethodGet, documentsPath(engineID)).WithBody(ids, rest.EncodePlain)
	return c.call(ctx, "documents.get", req)
}

// CreateDocuments indexes a batch of documents.
func (c *Client) CreateDocuments(ctx context.Context, engineID string, docs []Document) (*Response, error) {
	return c.indexDocuments(ctx, "documents.create", engineID, docs)
}

// UpdateDocuments replaces documents matched by id. It shares the create
// endpoint; the server tells them apart by the presence of the id.
func (c *Client) UpdateDocuments(ctx context.Context, engineID string, docs []Document) (*Response, error) {
	return c.indexDocuments(ctx, "documents.update", engineID, docs)
}

// CreateOrUpdateDocuments indexes documents, replacing those whose id exists.
func (c *Client) CreateOrUpdateDocuments(ctx context.Context, engineID string, docs []Document) (*Response, error) {
	return c.indexDocuments(ctx, "documents.upsert", engineID, docs)
}

// DeleteDocuments removes documents by id.
func (c *Client) DeleteDocuments(ctx context.Context, engineID string, ids []string) (*Response, error) {
	req := rest.NewRequest(http.MethodDelete, documentsPath(engineID)).WithBody(ids, rest.EncodePlain)
	return c.call(ctx, "documents.delete", req)
}

func (c *Client) indexDocuments(ctx context.Context, op, engineID string, docs []Document) (*Response, error) {
	req := rest.NewRequest(http.MethodPost, documentsPath(engineID)).WithBody(docs, rest.EncodePlain)
	return c.call(ctx, op, req)
}
