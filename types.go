package swiftype

// Page is the pagination block of list and search responses.
type Page struct {
	Current      int `json:"current"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Size         int `json:"size"`
}

// Meta is the metadata block of list and search responses.
type Meta struct {
	Page      Page     `json:"page"`
	RequestID string   `json:"request_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Alerts    []string `json:"alerts,omitempty"`
}

// Engine describes an engine as returned by the engines endpoints.
type Engine struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Language      *string `json:"language"`
	DocumentCount int     `json:"document_count"`
}

// EngineList is the body of Client.Engines.
type EngineList struct {
	Meta    Meta     `json:"meta"`
	Results []Engine `json:"results"`
}

// DocumentList is the body of Client.ListDocuments.
type DocumentList struct {
	Meta    Meta       `json:"meta"`
	Results []Document `json:"results"`
}

// DocumentStatus is one item of an index or delete batch response.
// Errors is populated by index calls, Deleted by delete calls.
type DocumentStatus struct {
	ID      string   `json:"id"`
	Errors  []string `json:"errors,omitempty"`
	Deleted *bool    `json:"deleted,omitempty"`
}

// OK reports whether the item was processed without errors.
func (s DocumentStatus) OK() bool {
	if s.Deleted != nil {
		return *s.Deleted
	}
	return len(s.Errors) == 0
}

// SearchResult is one hit: field name to {"raw": value}, plus _meta.
type SearchResult map[string]any

// SearchResponse is the body of Client.Search.
type SearchResponse struct {
	Meta    Meta           `json:"meta"`
	Results []SearchResult `json:"results"`
}

// Raw returns the raw value of a result field.
func (r SearchResult) Raw(field string) (any, bool) {
	f, ok := r[field].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := f["raw"]
	return v, ok
}
