package result

import "sort"

// Result is a single search hit.
type Result struct {
	id     string
	score  float64
	fields map[string]any
}

// New creates a search result.
func New(id string, score float64, fields map[string]any) Result {
	return Result{id: id, score: score, fields: fields}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Fields returns the document fields without the id.
func (r *Result) Fields() map[string]any { return r.fields }

// SortByScore orders results by descending score, keeping the input order for ties.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
}
