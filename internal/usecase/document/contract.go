package document

import (
	"context"

	domdoc "github.com/kailas-cloud/swiftype/internal/domain/document"
	domengine "github.com/kailas-cloud/swiftype/internal/domain/engine"
)

// Repository defines the storage contract for documents.
type Repository interface {
	PutDocuments(ctx context.Context, engine string, docs []domdoc.Document) error
	GetDocuments(ctx context.Context, engine string, ids []string) ([]*domdoc.Document, error)
	ListDocuments(ctx context.Context, engine string) ([]domdoc.Document, error)
	DeleteDocuments(ctx context.Context, engine string, ids []string) ([]bool, error)
}

// EngineReader reads engines for existence checks.
type EngineReader interface {
	GetEngine(ctx context.Context, name string) (domengine.Engine, error)
}
