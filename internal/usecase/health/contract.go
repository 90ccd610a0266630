package health

import (
	"context"

	domengine "github.com/kailas-cloud/swiftype/internal/domain/engine"
)

// EngineLister reads engines to confirm the store answers.
type EngineLister interface {
	ListEngines(ctx context.Context) ([]domengine.Engine, error)
}
