package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/swiftype/internal/domain/search/request"
	"github.com/kailas-cloud/swiftype/internal/domain/search/result"
)

// Page is one page of ranked hits.
type Page struct {
	Results []result.Result
	Total   int
	Current int
	Size    int
}

// TotalPages returns the number of pages needed for Total hits.
func (p Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Service runs full-text queries over an engine's documents.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search scores every document by the number of case-insensitive term
// occurrences in its string fields and returns the requested page.
// An empty query matches all documents with score 0.
func (s *Service) Search(ctx context.Context, engine string, req request.Request) (Page, error) {
	docs, err := s.repo.ListDocuments(ctx, engine)
	if err != nil {
		return Page{}, fmt.Errorf("list documents: %w", err)
	}

	terms := req.Terms()
	hits := make([]result.Result, 0, len(docs))
	for i := range docs {
		score := 0
		if len(terms) > 0 {
			score = scoreFields(docs[i].Fields(), terms)
			if score == 0 {
				continue
			}
		}
		hits = append(hits, result.New(docs[i].ID(), float64(score), docs[i].Fields()))
	}
	result.SortByScore(hits)

	total := len(hits)
	start := req.Offset()
	if start > total {
		start = total
	}
	end := start + req.Size()
	if end > total {
		end = total
	}

	return Page{
		Results: hits[start:end],
		Total:   total,
		Current: req.Current(),
		Size:    req.Size(),
	}, nil
}

func scoreFields(fields map[string]any, terms []string) int {
	score := 0
	for _, v := range fields {
		score += scoreValue(v, terms)
	}
	return score
}

// scoreValue counts term occurrences in strings and arrays of strings.
func scoreValue(v any, terms []string) int {
	switch val := v.(type) {
	case string:
		text := strings.ToLower(val)
		n := 0
		for _, term := range terms {
			n += strings.Count(text, term)
		}
		return n
	case []any:
		n := 0
		for _, item := range val {
			if s, ok := item.(string); ok {
				n += scoreValue(s, terms)
			}
		}
		return n
	default:
		return 0
	}
}
