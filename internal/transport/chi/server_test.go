package chi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype/internal/repository/memory"
	documentuc "github.com/kailas-cloud/swiftype/internal/usecase/document"
	engineuc "github.com/kailas-cloud/swiftype/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/swiftype/internal/usecase/health"
	searchuc "github.com/kailas-cloud/swiftype/internal/usecase/search"
)

func newTestRouter(t *testing.T, keys ...string) http.Handler {
	t.Helper()
	store := memory.New()
	n := 0
	docs := documentuc.New(store, store).WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	})
	srv := NewServer(
		engineuc.New(store),
		docs,
		searchuc.New(store),
		healthuc.New(store),
		zap.NewNop(),
	)
	return NewRouter(srv, RouterConfig{
		APIKeys: keys,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	dec := json.NewDecoder(rr.Body)
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func mustStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", rr.Code, want, rr.Body.String())
	}
}

func createEngine(t *testing.T, h http.Handler, name string) {
	t.Helper()
	mustStatus(t, serve(t, h, "POST", BasePath+"/engines", `{"name":"`+name+`"}`), http.StatusOK)
}

func TestEngines_Lifecycle(t *testing.T) {
	h := newTestRouter(t)

	rr := serve(t, h, "POST", BasePath+"/engines", `{"name":"national-parks","language":"en"}`)
	mustStatus(t, rr, http.StatusOK)
	created := decodeBody[map[string]any](t, rr)
	if created["name"] != "national-parks" || created["type"] != "default" || created["language"] != "en" {
		t.Errorf("unexpected create response: %v", created)
	}

	createEngine(t, h, "books")

	rr = serve(t, h, "GET", BasePath+"/engines/books", "")
	mustStatus(t, rr, http.StatusOK)
	got := decodeBody[map[string]any](t, rr)
	if got["language"] != nil || got["document_count"] != json.Number("0") {
		t.Errorf("unexpected get response: %v", got)
	}

	rr = serve(t, h, "GET", BasePath+"/engines", "")
	mustStatus(t, rr, http.StatusOK)
	list := decodeBody[struct {
		Meta    listMeta         `json:"meta"`
		Results []engineResponse `json:"results"`
	}](t, rr)
	if len(list.Results) != 2 || list.Results[0].Name != "books" {
		t.Errorf("unexpected list: %+v", list.Results)
	}
	if list.Meta.Page.TotalResults != 2 || list.Meta.Page.Current != 1 || list.Meta.Page.Size != 25 {
		t.Errorf("unexpected list meta: %+v", list.Meta.Page)
	}

	rr = serve(t, h, "DELETE", BasePath+"/engines/books", "")
	mustStatus(t, rr, http.StatusOK)
	if del := decodeBody[map[string]bool](t, rr); !del["deleted"] {
		t.Errorf("unexpected delete response: %v", del)
	}

	rr = serve(t, h, "GET", BasePath+"/engines/books", "")
	mustStatus(t, rr, http.StatusNotFound)
	errs := decodeBody[map[string][]string](t, rr)
	if len(errs["errors"]) != 1 || errs["errors"][0] != "Could not find engine." {
		t.Errorf("unexpected not found body: %v", errs)
	}
}

func TestEngines_Errors(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"duplicate", "POST", "/engines", `{"name":"books"}`, http.StatusConflict, "Name is already taken"},
		{"invalid name", "POST", "/engines", `{"name":"Bad Name"}`, http.StatusBadRequest,
			"name can only contain lowercase letters, numbers, and hyphens"},
		{"missing name", "POST", "/engines", `{}`, http.StatusBadRequest, "name is required"},
		{"malformed", "POST", "/engines", `{`, http.StatusBadRequest, ""},
		{"array body", "POST", "/engines", `[]`, http.StatusBadRequest, "Request body must be a JSON object"},
		{"delete missing", "DELETE", "/engines/nope", "", http.StatusNotFound, "Could not find engine."},
		{"bad page size", "GET", "/engines", `{"page":{"size":5000}}`, http.StatusBadRequest,
			"page.size must be between 1 and 1000"},
		{"bad page current", "GET", "/engines", `{"page":{"current":-1}}`, http.StatusBadRequest,
			"page.current must be greater than or equal to 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, h, tc.method, BasePath+tc.target, tc.body)
			mustStatus(t, rr, tc.status)
			errs := decodeBody[map[string][]string](t, rr)
			if len(errs["errors"]) != 1 {
				t.Fatalf("expected one error, got %v", errs)
			}
			if tc.message != "" && errs["errors"][0] != tc.message {
				t.Errorf("message = %q, want %q", errs["errors"][0], tc.message)
			}
		})
	}
}

func TestDocuments_IndexGetListDelete(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")
	docsPath := BasePath + "/engines/books/documents"

	rr := serve(t, h, "POST", docsPath,
		`[{"id":"1","title":"Dune"},{"title":"no id","pages":412},{"id":"3","Bad":"x"},"oops"]`)
	mustStatus(t, rr, http.StatusOK)
	indexed := decodeBody[[]indexResult](t, rr)
	if len(indexed) != 4 {
		t.Fatalf("expected 4 results, got %d", len(indexed))
	}
	if *indexed[0].ID != "1" || len(indexed[0].Errors) != 0 {
		t.Errorf("item 0: %+v", indexed[0])
	}
	if *indexed[1].ID != "gen-1" || len(indexed[1].Errors) != 0 {
		t.Errorf("item 1: %+v", indexed[1])
	}
	if *indexed[2].ID != "3" || len(indexed[2].Errors) != 1 {
		t.Errorf("item 2: %+v", indexed[2])
	}
	if indexed[3].ID != nil || len(indexed[3].Errors) != 1 {
		t.Errorf("item 3: %+v", indexed[3])
	}

	rr = serve(t, h, "GET", docsPath, `["1","missing","gen-1"]`)
	mustStatus(t, rr, http.StatusOK)
	got := decodeBody[[]map[string]any](t, rr)
	if len(got) != 3 || got[0]["title"] != "Dune" || got[1] != nil || got[2]["pages"] != json.Number("412") {
		t.Errorf("unexpected get response: %v", got)
	}

	rr = serve(t, h, "GET", docsPath+"/list", "")
	mustStatus(t, rr, http.StatusOK)
	list := decodeBody[struct {
		Meta    listMeta         `json:"meta"`
		Results []map[string]any `json:"results"`
	}](t, rr)
	if len(list.Results) != 2 || list.Results[0]["id"] != "1" || list.Meta.Page.TotalResults != 2 {
		t.Errorf("unexpected list: %+v", list)
	}

	rr = serve(t, h, "POST", docsPath+"/list", `{"page":{"current":2,"size":1}}`)
	mustStatus(t, rr, http.StatusOK)
	list = decodeBody[struct {
		Meta    listMeta         `json:"meta"`
		Results []map[string]any `json:"results"`
	}](t, rr)
	if len(list.Results) != 1 || list.Results[0]["id"] != "gen-1" || list.Meta.Page.TotalPages != 2 {
		t.Errorf("unexpected second page: %+v", list)
	}

	rr = serve(t, h, "DELETE", docsPath, `["1","missing"]`)
	mustStatus(t, rr, http.StatusOK)
	deleted := decodeBody[[]deleteResult](t, rr)
	if len(deleted) != 2 || !deleted[0].Deleted || deleted[1].Deleted || deleted[1].ID != "missing" {
		t.Errorf("unexpected delete response: %+v", deleted)
	}
}

func TestDocuments_SingleObjectAndNumericIDs(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")
	docsPath := BasePath + "/engines/books/documents"

	rr := serve(t, h, "POST", docsPath, `{"id":42,"title":"Answer"}`)
	mustStatus(t, rr, http.StatusOK)
	indexed := decodeBody[[]indexResult](t, rr)
	if len(indexed) != 1 || *indexed[0].ID != "42" {
		t.Fatalf("unexpected index response: %+v", indexed)
	}

	rr = serve(t, h, "GET", docsPath, `[42]`)
	mustStatus(t, rr, http.StatusOK)
	got := decodeBody[[]map[string]any](t, rr)
	if len(got) != 1 || got[0]["title"] != "Answer" {
		t.Errorf("unexpected get response: %v", got)
	}
}

func TestDocuments_Errors(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"index missing engine", "POST", "/engines/nope/documents", `[{"id":"1"}]`, http.StatusNotFound},
		{"get missing engine", "GET", "/engines/nope/documents", `["1"]`, http.StatusNotFound},
		{"list missing engine", "GET", "/engines/nope/documents/list", "", http.StatusNotFound},
		{"delete missing engine", "DELETE", "/engines/nope/documents", `["1"]`, http.StatusNotFound},
		{"index scalar", "POST", "/engines/books/documents", `42`, http.StatusBadRequest},
		{"get without ids", "GET", "/engines/books/documents", "", http.StatusBadRequest},
		{"get object", "GET", "/engines/books/documents", `{"ids":["1"]}`, http.StatusBadRequest},
		{"delete bad id", "DELETE", "/engines/books/documents", `[true]`, http.StatusBadRequest},
		{"trailing data", "DELETE", "/engines/books/documents", `["1"] []`, http.StatusBadRequest},
		{"list bad page", "GET", "/engines/books/documents/list", `{"page":{"current":"x"}}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, h, tc.method, BasePath+tc.target, tc.body)
			mustStatus(t, rr, tc.status)
		})
	}
}

func TestDocuments_BatchTooLarge(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")

	items := make([]string, documentuc.MaxBatchSize+1)
	for i := range items {
		items[i] = `{}`
	}
	rr := serve(t, h, "POST", BasePath+"/engines/books/documents", "["+strings.Join(items, ",")+"]")
	mustStatus(t, rr, http.StatusBadRequest)
}

func TestSearch(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "parks")
	mustStatus(t, serve(t, h, "POST", BasePath+"/engines/parks/documents", `[
		{"id":"acadia","title":"Acadia","description":"Rocky coast"},
		{"id":"sequoia","title":"Sequoia","description":"Giant sequoia trees"},
		{"id":"yosemite","title":"Yosemite","description":"Giant sequoias too","visitors":4009436}
	]`), http.StatusOK)

	rr := serve(t, h, "POST", BasePath+"/engines/parks/search", `{"query":"sequoia","page":{"size":1}}`)
	mustStatus(t, rr, http.StatusOK)
	resp := decodeBody[struct {
		Meta    listMeta                    `json:"meta"`
		Results []map[string]map[string]any `json:"results"`
	}](t, rr)

	if resp.Meta.Page.TotalResults != 2 || resp.Meta.Page.Size != 1 || resp.Meta.Page.TotalPages != 2 {
		t.Errorf("unexpected meta: %+v", resp.Meta.Page)
	}
	if resp.Meta.RequestID == "" {
		t.Error("expected request id in meta")
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	hit := resp.Results[0]
	if hit["id"]["raw"] != "sequoia" || hit["title"]["raw"] != "Sequoia" {
		t.Errorf("unexpected hit: %v", hit)
	}
	if hit["_meta"]["engine"] != "parks" || hit["_meta"]["score"] != json.Number("2") {
		t.Errorf("unexpected hit meta: %v", hit["_meta"])
	}
}

func TestSearch_GetAndErrors(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "parks")

	rr := serve(t, h, "GET", BasePath+"/engines/parks/search", `{"query":""}`)
	mustStatus(t, rr, http.StatusOK)

	mustStatus(t, serve(t, h, "POST", BasePath+"/engines/nope/search", `{"query":"x"}`), http.StatusNotFound)
	mustStatus(t, serve(t, h, "POST", BasePath+"/engines/parks/search", `{"query":1}`), http.StatusBadRequest)
	mustStatus(t, serve(t, h, "POST", BasePath+"/engines/parks/search",
		`{"query":"x","page":{"size":1001}}`), http.StatusBadRequest)
}

func TestPaging_HugeCurrent(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")
	mustStatus(t, serve(t, h, "POST", BasePath+"/engines/books/documents",
		`[{"id":"1","title":"Dune"},{"id":"2","title":"Emma"}]`), http.StatusOK)

	tests := []struct {
		name   string
		method string
		target string
		size   int
		status int
	}{
		{"engines size 3", "GET", "/engines", 3, http.StatusOK},
		{"engines size 4", "GET", "/engines", 4, http.StatusOK},
		{"documents size 3", "POST", "/engines/books/documents/list", 3, http.StatusOK},
		{"documents size 4", "POST", "/engines/books/documents/list", 4, http.StatusOK},
		{"search size 3", "POST", "/engines/books/search", 3, http.StatusBadRequest},
		{"search size 4", "POST", "/engines/books/search", 4, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"page":{"current":4611686018427387905,"size":%d}}`, tc.size)
			rr := serve(t, h, tc.method, BasePath+tc.target, body)
			mustStatus(t, rr, tc.status)
			if tc.status != http.StatusOK {
				return
			}
			resp := decodeBody[struct {
				Results []json.RawMessage `json:"results"`
			}](t, rr)
			if len(resp.Results) != 0 {
				t.Errorf("expected empty page past the end, got %d results", len(resp.Results))
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, current, size int
		start, end           int
	}{
		{5, 1, 2, 0, 2},
		{5, 3, 2, 4, 5},
		{5, 4, 2, 5, 5},
		{0, 1, 10, 0, 0},
		{5, math.MaxInt, 3, 5, 5},
		{5, math.MaxInt/4 + 2, 4, 5, 5},
	}
	for _, tc := range tests {
		start, end := pageBounds(tc.total, tc.current, tc.size)
		if start != tc.start || end != tc.end {
			t.Errorf("pageBounds(%d, %d, %d) = %d, %d, want %d, %d",
				tc.total, tc.current, tc.size, start, end, tc.start, tc.end)
		}
	}
}

func TestRouter_Auth(t *testing.T) {
	h := newTestRouter(t, "private-key")

	rr := serve(t, h, "GET", BasePath+"/engines", "")
	mustStatus(t, rr, http.StatusUnauthorized)
	if body := decodeBody[map[string]string](t, rr); body["error"] == "" {
		t.Errorf("expected error field, got %v", body)
	}

	mustStatus(t, serve(t, h, "GET", BasePath+"/engines?auth_token=private-key", ""), http.StatusOK)
	mustStatus(t, serve(t, h, "GET", "/health", ""), http.StatusOK)
	mustStatus(t, serve(t, h, "GET", "/metrics", ""), http.StatusOK)
}

func TestRouter_HealthAndFallbacks(t *testing.T) {
	h := newTestRouter(t)
	createEngine(t, h, "books")

	rr := serve(t, h, "GET", "/health", "")
	mustStatus(t, rr, http.StatusOK)
	health := decodeBody[map[string]any](t, rr)
	if health["status"] != "ok" || health["engines"] != json.Number("1") {
		t.Errorf("unexpected health: %v", health)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	mustStatus(t, serve(t, h, "GET", "/nope", ""), http.StatusNotFound)
	mustStatus(t, serve(t, h, "PUT", BasePath+"/engines", ""), http.StatusMethodNotAllowed)
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	mustStatus(t, rr, http.StatusInternalServerError)
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestValidationMessage(t *testing.T) {
	err := fmt.Errorf("validate engine: %w: %w", errInvalid, fmt.Errorf("name is required"))
	if got := validationMessage(err, errInvalid); got != "name is required" {
		t.Errorf("got %q", got)
	}
	err = fmt.Errorf("batch too large: %w", errInvalid)
	if got := validationMessage(err, errInvalid); got != "batch too large: invalid" {
		t.Errorf("got %q", got)
	}
}

var errInvalid = fmt.Errorf("invalid")
