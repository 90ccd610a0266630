package engine

import (
	"context"

	domengine "github.com/kailas-cloud/swiftype/internal/domain/engine"
)

// Repository defines the storage contract for engines.
type Repository interface {
	CreateEngine(ctx context.Context, e domengine.Engine) error
	GetEngine(ctx context.Context, name string) (domengine.Engine, error)
	ListEngines(ctx context.Context) ([]domengine.Engine, error)
	DeleteEngine(ctx context.Context, name string) error
	CountDocuments(ctx context.Context, name string) (int, error)
}
