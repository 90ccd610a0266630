// Package memory is a process-local store for engines and their documents.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/swiftype/internal/domain"
	"github.com/kailas-cloud/swiftype/internal/domain/document"
	"github.com/kailas-cloud/swiftype/internal/domain/engine"
)

type engineEntry struct {
	engine engine.Engine
	docs   map[string]document.Document
	order  []string // insertion order of document ids
}

// Store keeps engines and documents in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	engines map[string]*engineEntry
}

// New creates an empty store.
func New() *Store {
	return &Store{engines: make(map[string]*engineEntry)}
}

// CreateEngine stores a new engine.
func (s *Store) CreateEngine(_ context.Context, e engine.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.engines[e.Name()]; ok {
		return fmt.Errorf("engine %q: %w", e.Name(), domain.ErrEngineExists)
	}
	s.engines[e.Name()] = &engineEntry{engine: e, docs: make(map[string]document.Document)}
	return nil
}

// GetEngine returns an engine by name.
func (s *Store) GetEngine(_ context.Context, name string) (engine.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entry(name)
	if err != nil {
		return engine.Engine{}, err
	}
	return entry.engine, nil
}

// ListEngines returns all engines sorted by name.
func (s *Store) ListEngines(_ context.Context) ([]engine.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Engine, 0, len(s.engines))
	for _, entry := range s.engines {
		out = append(out, entry.engine)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// DeleteEngine removes an engine and its documents.
func (s *Store) DeleteEngine(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entry(name); err != nil {
		return err
	}
	delete(s.engines, name)
	return nil
}

// CountDocuments returns the number of documents in an engine.
func (s *Store) CountDocuments(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entry(name)
	if err != nil {
		return 0, err
	}
	return len(entry.docs), nil
}

// PutDocuments inserts or replaces documents. Replaced documents keep their position.
func (s *Store) PutDocuments(_ context.Context, name string, docs []document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(name)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if _, exists := entry.docs[d.ID()]; !exists {
			entry.order = append(entry.order, d.ID())
		}
		entry.docs[d.ID()] = d
	}
	return nil
}

// GetDocuments returns documents aligned with ids; missing ids yield nil.
func (s *Store) GetDocuments(_ context.Context, name string, ids []string) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, len(ids))
	for i, id := range ids {
		if d, ok := entry.docs[id]; ok {
			out[i] = &d
		}
	}
	return out, nil
}

// ListDocuments returns all documents in insertion order.
func (s *Store) ListDocuments(_ context.Context, name string) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	out := make([]document.Document, 0, len(entry.order))
	for _, id := range entry.order {
		out = append(out, entry.docs[id])
	}
	return out, nil
}

// DeleteDocuments removes documents by id and reports which ones existed.
func (s *Store) DeleteDocuments(_ context.Context, name string, ids []string) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	deleted := make([]bool, len(ids))
	removed := make(map[string]bool, len(ids))
	for i, id := range ids {
		if _, ok := entry.docs[id]; ok {
			delete(entry.docs, id)
			removed[id] = true
			deleted[i] = true
		}
	}
	if len(removed) > 0 {
		kept := entry.order[:0]
		for _, id := range entry.order {
			if !removed[id] {
				kept = append(kept, id)
			}
		}
		entry.order = kept
	}
	return deleted, nil
}

// entry must be called with the lock held.
func (s *Store) entry(name string) (*engineEntry, error) {
	entry, ok := s.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine %q: %w", name, domain.ErrEngineNotFound)
	}
	return entry, nil
}
