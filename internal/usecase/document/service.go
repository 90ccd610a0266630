package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/swiftype/internal/domain"
	dombatch "github.com/kailas-cloud/swiftype/internal/domain/batch"
	domdoc "github.com/kailas-cloud/swiftype/internal/domain/document"
)

// Batch and paging limits.
const (
	MaxBatchSize    = 100
	DefaultPageSize = 100
)

// Service handles document indexing, retrieval and deletion with per-item results.
type Service struct {
	repo         Repository
	engines      EngineReader
	newID        func() string
	maxBatchSize int
	maxPageSize  int
}

// New creates a document service. Missing ids are generated as UUIDs.
func New(repo Repository, engines EngineReader) *Service {
	return &Service{
		repo:         repo,
		engines:      engines,
		newID:        uuid.NewString,
		maxBatchSize: MaxBatchSize,
		maxPageSize:  1000,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithMaxPageSize configures the largest page a list call returns.
func (s *Service) WithMaxPageSize(size int) *Service {
	if size > 0 {
		s.maxPageSize = size
	}
	return s
}

// WithIDGenerator replaces the generator used for documents without an id.
func (s *Service) WithIDGenerator(newID func() string) *Service {
	if newID != nil {
		s.newID = newID
	}
	return s
}

// Index validates and stores a batch of raw JSON values. Invalid items are
// reported per item and do not prevent the others from being indexed.
func (s *Service) Index(ctx context.Context, engine string, items []any) ([]dombatch.Result, error) {
	if len(items) > s.maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds %d: %w", len(items), s.maxBatchSize, domain.ErrInvalidDocument)
	}
	if _, err := s.engines.GetEngine(ctx, engine); err != nil {
		return nil, fmt.Errorf("get engine: %w", err)
	}

	results := make([]dombatch.Result, len(items))
	valid := make([]domdoc.Document, 0, len(items))
	validIdx := make([]int, 0, len(items))

	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			results[i] = dombatch.NewRejected("", errors.New("document must be a JSON object"))
			continue
		}
		doc, errs := domdoc.New(raw, s.newID)
		if len(errs) > 0 {
			results[i] = dombatch.NewRejected(doc.ID(), errs...)
			continue
		}
		valid = append(valid, doc)
		validIdx = append(validIdx, i)
	}

	if len(valid) > 0 {
		if err := s.repo.PutDocuments(ctx, engine, valid); err != nil {
			return nil, fmt.Errorf("put documents: %w", err)
		}
	}
	for j, i := range validIdx {
		results[i] = dombatch.NewOK(valid[j].ID())
	}
	return results, nil
}

// Get returns documents aligned with ids; missing documents are nil.
func (s *Service) Get(ctx context.Context, engine string, ids []string) ([]*domdoc.Document, error) {
	if len(ids) > s.maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds %d: %w", len(ids), s.maxBatchSize, domain.ErrInvalidDocument)
	}
	docs, err := s.repo.GetDocuments(ctx, engine, ids)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	return docs, nil
}

// List returns one page of documents in insertion order and the total count.
// current is 1-based; zero values select the first page of DefaultPageSize.
func (s *Service) List(ctx context.Context, engine string, current, size int) ([]domdoc.Document, int, error) {
	if current == 0 {
		current = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if current < 1 {
		return nil, 0, fmt.Errorf("page.current must be greater than or equal to 1: %w", domain.ErrInvalidQuery)
	}
	if size < 1 || size > s.maxPageSize {
		return nil, 0, fmt.Errorf("page.size must be between 1 and %d: %w", s.maxPageSize, domain.ErrInvalidQuery)
	}

	docs, err := s.repo.ListDocuments(ctx, engine)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	total := len(docs)
	// Compare before multiplying: (current-1)*size overflows for huge pages.
	start := total
	if current-1 <= total/size {
		start = (current - 1) * size
	}
	end := start + size
	if end > total {
		end = total
	}
	return docs[start:end], total, nil
}

// Delete removes documents by id. Ids that do not exist are reported as missing.
func (s *Service) Delete(ctx context.Context, engine string, ids []string) ([]dombatch.Result, error) {
	if len(ids) > s.maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds %d: %w", len(ids), s.maxBatchSize, domain.ErrInvalidDocument)
	}
	deleted, err := s.repo.DeleteDocuments(ctx, engine, ids)
	if err != nil {
		return nil, fmt.Errorf("delete documents: %w", err)
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		if deleted[i] {
			results[i] = dombatch.NewOK(id)
		} else {
			results[i] = dombatch.NewMissing(id)
		}
	}
	return results, nil
}
