package search

import (
	"context"

	domdoc "github.com/kailas-cloud/swiftype/internal/domain/document"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	ListDocuments(ctx context.Context, engine string) ([]domdoc.Document, error)
}
