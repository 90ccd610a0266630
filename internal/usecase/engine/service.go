package engine

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/swiftype/internal/domain"
	domengine "github.com/kailas-cloud/swiftype/internal/domain/engine"
)

// Info is an engine together with its document count.
type Info struct {
	Engine        domengine.Engine
	DocumentCount int
}

// Service handles engine CRUD operations.
type Service struct {
	repo Repository
}

// New creates an engine service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new engine.
func (s *Service) Create(ctx context.Context, name, language string) (Info, error) {
	e, err := domengine.New(name, language)
	if err != nil {
		return Info{}, fmt.Errorf("validate engine: %w: %w", domain.ErrInvalidEngine, err)
	}

	if err := s.repo.CreateEngine(ctx, e); err != nil {
		return Info{}, fmt.Errorf("create engine: %w", err)
	}

	return Info{Engine: e}, nil
}

// Get retrieves an engine by name.
func (s *Service) Get(ctx context.Context, name string) (Info, error) {
	e, err := s.repo.GetEngine(ctx, name)
	if err != nil {
		return Info{}, fmt.Errorf("get engine: %w", err)
	}
	return s.info(ctx, e)
}

// List returns all engines sorted by name.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	engines, err := s.repo.ListEngines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list engines: %w", err)
	}

	out := make([]Info, 0, len(engines))
	for _, e := range engines {
		info, err := s.info(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// Delete removes an engine with all its documents.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.DeleteEngine(ctx, name); err != nil {
		return fmt.Errorf("delete engine: %w", err)
	}
	return nil
}

func (s *Service) info(ctx context.Context, e domengine.Engine) (Info, error) {
	count, err := s.repo.CountDocuments(ctx, e.Name())
	if err != nil {
		return Info{}, fmt.Errorf("count documents: %w", err)
	}
	return Info{Engine: e, DocumentCount: count}, nil
}
