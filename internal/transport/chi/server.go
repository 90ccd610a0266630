// Package chi serves an in-memory App Search compatible API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype/internal/domain"
	dombatch "github.com/kailas-cloud/swiftype/internal/domain/batch"
	domdoc "github.com/kailas-cloud/swiftype/internal/domain/document"
	"github.com/kailas-cloud/swiftype/internal/domain/search/request"
	"github.com/kailas-cloud/swiftype/internal/metrics"
	documentuc "github.com/kailas-cloud/swiftype/internal/usecase/document"
	engineuc "github.com/kailas-cloud/swiftype/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/swiftype/internal/usecase/health"
	searchuc "github.com/kailas-cloud/swiftype/internal/usecase/search"
)

// BasePath is the prefix all API routes are mounted under.
const BasePath = "/api/as/v1"

const (
	maxBodyBytes          = 10 << 20
	defaultEnginePageSize = 25
	defaultMaxPageSize    = 1000
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server handles the App Search engine, document and search endpoints.
type Server struct {
	engines       *engineuc.Service
	documents     *documentuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxPageSize   int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	engines *engineuc.Service,
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engines:     engines,
		documents:   documents,
		search:      search,
		health:      health,
		logger:      logger,
		maxPageSize: defaultMaxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEngineNotFound, http.StatusNotFound, "Could not find engine."),
		sentinelHandler(domain.ErrEngineExists, http.StatusConflict, "Name is already taken"),
		validationHandler(domain.ErrInvalidEngine),
		validationHandler(domain.ErrInvalidDocument),
		validationHandler(domain.ErrInvalidQuery),
	}
	return s
}

// WithMaxPageSize configures the largest accepted page.size.
func (s *Server) WithMaxPageSize(size int) *Server {
	if size > 0 {
		s.maxPageSize = size
	}
	return s
}

// Routes registers the API endpoints under BasePath plus /health.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/engines", s.ListEngines)
		r.Post("/engines", s.CreateEngine)
		r.Get("/engines/{engine}", s.GetEngine)
		r.Delete("/engines/{engine}", s.DeleteEngine)

		r.Get("/engines/{engine}/documents/list", s.ListDocuments)
		r.Post("/engines/{engine}/documents/list", s.ListDocuments)
		r.Get("/engines/{engine}/documents", s.GetDocuments)
		r.Post("/engines/{engine}/documents", s.IndexDocuments)
		r.Delete("/engines/{engine}/documents", s.DeleteDocuments)

		r.Get("/engines/{engine}/search", s.Search)
		r.Post("/engines/{engine}/search", s.Search)
	})
}

// engineResponse is the JSON form of an engine.
type engineResponse struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Language      *string `json:"language"`
	DocumentCount int     `json:"document_count"`
}

type pageMeta struct {
	Current      int `json:"current"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Size         int `json:"size"`
}

type listMeta struct {
	Page      pageMeta `json:"page"`
	RequestID string   `json:"request_id,omitempty"`
}

type listResponse struct {
	Meta    listMeta `json:"meta"`
	Results any      `json:"results"`
}

type indexResult struct {
	ID     *string  `json:"id"`
	Errors []string `json:"errors"`
}

type deleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ListEngines handles GET /engines.
func (s *Server) ListEngines(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeObject(w, r, true)
	if !ok {
		return
	}
	current, size, err := parsePage(body)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}
	if current == 0 {
		current = 1
	}
	if size == 0 {
		size = defaultEnginePageSize
	}
	if current < 1 {
		writeErrors(w, http.StatusBadRequest, "page.current must be greater than or equal to 1")
		return
	}
	if size < 1 || size > s.maxPageSize {
		writeErrors(w, http.StatusBadRequest, fmt.Sprintf("page.size must be between 1 and %d", s.maxPageSize))
		return
	}

	infos, err := s.engines.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	start, end := pageBounds(len(infos), current, size)
	items := make([]engineResponse, 0, end-start)
	for _, info := range infos[start:end] {
		items = append(items, engineToResponse(info))
	}

	writeJSON(w, http.StatusOK, listResponse{
		Meta:    newListMeta(r, current, size, len(infos)),
		Results: items,
	})
}

// CreateEngine handles POST /engines.
func (s *Server) CreateEngine(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeObject(w, r, false)
	if !ok {
		return
	}
	name, _ := body["name"].(string)
	language, _ := body["language"].(string)

	info, err := s.engines.Create(r.Context(), name, language)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, engineToResponse(info))
}

// GetEngine handles GET /engines/{engine}.
func (s *Server) GetEngine(w http.ResponseWriter, r *http.Request) {
	info, err := s.engines.Get(r.Context(), chi.URLParam(r, "engine"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, engineToResponse(info))
}

// DeleteEngine handles DELETE /engines/{engine}.
func (s *Server) DeleteEngine(w http.ResponseWriter, r *http.Request) {
	if err := s.engines.Delete(r.Context(), chi.URLParam(r, "engine")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListDocuments handles GET|POST /engines/{engine}/documents/list.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeObject(w, r, true)
	if !ok {
		return
	}
	current, size, err := parsePage(body)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, total, err := s.documents.List(r.Context(), chi.URLParam(r, "engine"), current, size)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if current == 0 {
		current = 1
	}
	if size == 0 {
		size = documentuc.DefaultPageSize
	}

	items := make([]map[string]any, len(docs))
	for i := range docs {
		items[i] = docs[i].Map()
	}

	writeJSON(w, http.StatusOK, listResponse{
		Meta:    newListMeta(r, current, size, total),
		Results: items,
	})
}

// GetDocuments handles GET /engines/{engine}/documents with a JSON array of ids.
func (s *Server) GetDocuments(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeIDs(w, r)
	if !ok {
		return
	}

	docs, err := s.documents.Get(r.Context(), chi.URLParam(r, "engine"), ids)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		if d != nil {
			out[i] = d.Map()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// IndexDocuments handles POST /engines/{engine}/documents.
// The body is an array of documents or a single document object.
func (s *Server) IndexDocuments(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decode(w, r, false)
	if !ok {
		return
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		writeErrors(w, http.StatusBadRequest, "Request body must be a JSON array of documents")
		return
	}

	results, err := s.documents.Index(r.Context(), chi.URLParam(r, "engine"), items)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]indexResult, len(results))
	for i, res := range results {
		out[i] = indexResultToResponse(res)
		metrics.DocumentsIndexedTotal.WithLabelValues(string(res.Status())).Inc()
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteDocuments handles DELETE /engines/{engine}/documents with a JSON array of ids.
func (s *Server) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeIDs(w, r)
	if !ok {
		return
	}

	results, err := s.documents.Delete(r.Context(), chi.URLParam(r, "engine"), ids)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]deleteResult, len(results))
	for i, res := range results {
		out[i] = deleteResult{ID: res.ID(), Deleted: res.OK()}
		metrics.DocumentsDeletedTotal.WithLabelValues(string(res.Status())).Inc()
	}
	writeJSON(w, http.StatusOK, out)
}

// Search handles GET|POST /engines/{engine}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeObject(w, r, true)
	if !ok {
		return
	}

	req, err := request.FromBody(body, s.maxPageSize)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := chi.URLParam(r, "engine")
	page, err := s.search.Search(r.Context(), engine, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	metrics.SearchHits.Observe(float64(page.Total))

	items := make([]map[string]any, len(page.Results))
	for i := range page.Results {
		hit := &page.Results[i]
		item := make(map[string]any, len(hit.Fields())+2)
		for name, v := range hit.Fields() {
			item[name] = map[string]any{"raw": v}
		}
		item[domdoc.IDField] = map[string]any{"raw": hit.ID()}
		item["_meta"] = map[string]any{"id": hit.ID(), "engine": engine, "score": hit.Score()}
		items[i] = item
	}

	writeJSON(w, http.StatusOK, listResponse{
		Meta:    newListMeta(r, page.Current, page.Size, page.Total),
		Results: items,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":  report.Status,
		"checks":  report.Checks,
		"engines": report.Engines,
	})
}

// decode reads a JSON body with numbers preserved as json.Number.
// An empty body yields nil when optional is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, optional bool) (any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil, true
		}
		writeErrors(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeErrors(w, http.StatusBadRequest, "Invalid request body: unexpected data after JSON value")
		return nil, false
	}
	return v, true
}

func (s *Server) decodeObject(w http.ResponseWriter, r *http.Request, optional bool) (map[string]any, bool) {
	v, ok := s.decode(w, r, optional)
	if !ok {
		return nil, false
	}
	if v == nil {
		return map[string]any{}, true
	}
	obj, isObj := v.(map[string]any)
	if !isObj {
		writeErrors(w, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return obj, true
}

// decodeIDs reads a JSON array of string or integer ids.
func (s *Server) decodeIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	v, ok := s.decode(w, r, false)
	if !ok {
		return nil, false
	}
	arr, isArr := v.([]any)
	if !isArr {
		writeErrors(w, http.StatusBadRequest, "Request body must be a JSON array of ids")
		return nil, false
	}

	ids := make([]string, len(arr))
	for i, item := range arr {
		switch id := item.(type) {
		case string:
			ids[i] = id
		case json.Number:
			ids[i] = id.String()
		default:
			writeErrors(w, http.StatusBadRequest, fmt.Sprintf("Invalid id at position %d", i))
			return nil, false
		}
	}
	return ids, true
}

// parsePage reads the optional {"page": {"current": n, "size": n}} object.
// Missing values are returned as zero.
func parsePage(body map[string]any) (current, size int, err error) {
	raw, ok := body["page"]
	if !ok {
		return 0, 0, nil
	}
	page, ok := raw.(map[string]any)
	if !ok {
		return 0, 0, errors.New("page must be an object")
	}
	if current, err = pageInt(page, "current"); err != nil {
		return 0, 0, err
	}
	if size, err = pageInt(page, "size"); err != nil {
		return 0, 0, err
	}
	return current, size, nil
}

func pageInt(page map[string]any, key string) (int, error) {
	raw, ok := page[key]
	if !ok {
		return 0, nil
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("page.%s must be an integer", key)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("page.%s must be an integer", key)
	}
	return int(v), nil
}

// pageBounds clamps a 1-based page to [0, total]. current and size must be positive.
func pageBounds(total, current, size int) (start, end int) {
	start = total
	if current-1 <= total/size {
		start = (current - 1) * size
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}

func newListMeta(r *http.Request, current, size, total int) listMeta {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return listMeta{
		Page: pageMeta{
			Current:      current,
			TotalPages:   pages,
			TotalResults: total,
			Size:         size,
		},
		RequestID: chiMiddleware.GetReqID(r.Context()),
	}
}

func engineToResponse(info engineuc.Info) engineResponse {
	resp := engineResponse{
		Name:          info.Engine.Name(),
		Type:          string(info.Engine.Type()),
		DocumentCount: info.DocumentCount,
	}
	if lang := info.Engine.Language(); lang != "" {
		resp.Language = &lang
	}
	return resp
}

func indexResultToResponse(res dombatch.Result) indexResult {
	out := indexResult{Errors: res.Errors()}
	if id := res.ID(); id != "" {
		out.ID = &id
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrors writes the App Search error shape {"errors": [...]}.
func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, map[string][]string{"errors": messages})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeErrors(w, status, message)
		return true
	}
}

// validationHandler maps a validation sentinel to 400 with the detail that follows it.
func validationHandler(sentinel error) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeErrors(w, http.StatusBadRequest, validationMessage(err, sentinel))
		return true
	}
}

// validationMessage returns the text after "<sentinel>: " or the whole message.
func validationMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			logger.Debug("request rejected", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeErrors(w, http.StatusInternalServerError, "Internal server error")
}
