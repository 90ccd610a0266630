package main

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype"
	"github.com/kailas-cloud/swiftype/internal/repository/memory"
	chiTransport "github.com/kailas-cloud/swiftype/internal/transport/chi"
	documentuc "github.com/kailas-cloud/swiftype/internal/usecase/document"
	engineuc "github.com/kailas-cloud/swiftype/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/swiftype/internal/usecase/health"
	searchuc "github.com/kailas-cloud/swiftype/internal/usecase/search"
)

const testKey = "private-test-key"

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	srv := chiTransport.NewServer(
		engineuc.New(store),
		documentuc.New(store, store),
		searchuc.New(store),
		healthuc.New(store),
		zap.NewNop(),
	)
	ts := httptest.NewServer(chiTransport.NewRouter(srv, chiTransport.RouterConfig{APIKeys: []string{testKey}}))
	t.Cleanup(ts.Close)
	return ts
}

// execute runs the CLI against host with the given stdin.
func execute(t *testing.T, host, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	base := []string{"--env", "test-missing", "--host", host, "--api-key", testKey}
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, host, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(t, host, stdin, args...)
	if err != nil {
		t.Fatalf("swiftype %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func mustContain(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Errorf("output missing %q:\n%s", p, out)
		}
	}
}

func TestCLI_EndToEnd(t *testing.T) {
	ts := newFakeServer(t)

	out := mustExecute(t, ts.URL, "", "engines", "create", "books")
	mustContain(t, out, `"name": "books"`, `"type": "default"`)

	out = mustExecute(t, ts.URL, "", "engines", "list")
	mustContain(t, out, `"total_results": 1`, `"name": "books"`)

	out = mustExecute(t, ts.URL, `[{"id":"1","title":"Dune"},{"id":"2","title":"Emma"}]`,
		"documents", "create", "books")
	mustContain(t, out, `"id": "1"`, `"id": "2"`, `"errors": []`)

	out = mustExecute(t, ts.URL, `{"id":"2","title":"Emma, revised"}`, "documents", "upsert", "books")
	mustContain(t, out, `"id": "2"`)

	out = mustExecute(t, ts.URL, "", "documents", "get", "books", "2", "404")
	mustContain(t, out, `"title": "Emma, revised"`, "null")

	out = mustExecute(t, ts.URL, "", "documents", "list", "books")
	mustContain(t, out, `"total_results": 2`)

	out = mustExecute(t, ts.URL, "", "search", "books", "dune", "--size", "5")
	mustContain(t, out, `"raw": "Dune"`, `"size": 5`, `"_meta"`)

	out = mustExecute(t, ts.URL, "", "documents", "delete", "books", "1")
	mustContain(t, out, `"deleted": true`)

	out = mustExecute(t, ts.URL, "", "engines", "delete", "books")
	mustContain(t, out, `"deleted": true`)
}

func TestCLI_DocumentsFromFile(t *testing.T) {
	ts := newFakeServer(t)
	mustExecute(t, ts.URL, "", "engines", "create", "books")

	path := filepath.Join(t.TempDir(), "docs.json")
	if err := os.WriteFile(path, []byte(`[{"id":"7","title":"Ulysses"}]`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := mustExecute(t, ts.URL, "", "documents", "update", "books", "--file", path)
	mustContain(t, out, `"id": "7"`)
}

func TestCLI_Status(t *testing.T) {
	ts := newFakeServer(t)

	out := mustExecute(t, ts.URL, "", "--status", "engines", "list")
	if !strings.HasPrefix(out, "HTTP 200\n") {
		t.Errorf("expected status line, got:\n%s", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	ts := newFakeServer(t)

	_, err := execute(t, ts.URL, "", "engines", "get", "missing")
	if !errors.Is(err, swiftype.ErrRequestFailed) || exitCode(err) != 1 {
		t.Errorf("missing engine: err=%v code=%d", err, exitCode(err))
	}
	if err != nil && !strings.Contains(err.Error(), "Could not find engine.") {
		t.Errorf("expected server message in error, got %v", err)
	}

	_, err = execute(t, ts.URL, "", "--api-key", "wrong", "engines", "list")
	if !errors.Is(err, swiftype.ErrUnauthorized) || exitCode(err) != 3 {
		t.Errorf("wrong key: err=%v code=%d", err, exitCode(err))
	}

	_, err = execute(t, ts.URL, "not json", "documents", "create", "books")
	if err == nil || !strings.Contains(err.Error(), "parse JSON input") {
		t.Errorf("bad stdin: err=%v", err)
	}

	_, err = execute(t, ts.URL, "", "search", "books", "q", "--options", "{")
	if err == nil || !strings.Contains(err.Error(), "parse --options") {
		t.Errorf("bad options: err=%v", err)
	}

	_, err = execute(t, ts.URL, "", "engines", "get")
	if err == nil {
		t.Error("expected argument error")
	}
}

func TestCLI_MissingAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	ts := newFakeServer(t)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--env", "test-missing", "--host", ts.URL, "engines", "list"})
	err := cmd.Execute()

	if !errors.Is(err, swiftype.ErrConfiguration) || exitCode(err) != 2 {
		t.Errorf("err=%v code=%d", err, exitCode(err))
	}
}

func TestCLI_APIKeyFromEnv(t *testing.T) {
	t.Setenv(apiKeyEnv, testKey)
	ts := newFakeServer(t)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--env", "test-missing", "--host", ts.URL, "engines", "list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustContain(t, out.String(), `"results": []`)
}

func TestCLI_ConfigFile(t *testing.T) {
	ts := newFakeServer(t)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	cfg := "client:\n  host: " + ts.URL + "\n  api_key: " + testKey + "\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--config", path, "engines", "list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustContain(t, out.String(), `"total_results": 0`)
}

func TestCLI_Version(t *testing.T) {
	out := mustExecute(t, "http://unused.example.com", "", "version")
	mustContain(t, out, "swiftype dev")
}

func TestSearchOptions(t *testing.T) {
	opts, err := searchOptions(`{"page":{"current":3},"filters":{"states":["Maine"]}}`, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page := opts["page"].(map[string]any)
	if page["size"] != 20 || page["current"] == nil {
		t.Errorf("unexpected page: %v", page)
	}
	if _, ok := opts["filters"]; !ok {
		t.Error("filters dropped")
	}

	opts, err = searchOptions("", 0, 0)
	if err != nil || len(opts) != 0 {
		t.Errorf("expected empty options, got %v %v", opts, err)
	}

	opts, err = searchOptions("null", 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts["page"].(map[string]any)["current"] != 2 {
		t.Errorf("unexpected options: %v", opts)
	}
}

func TestReadDocuments(t *testing.T) {
	a := &app{in: strings.NewReader(`[{"id":1},2]`)}
	if _, err := a.readDocuments(""); err == nil {
		t.Error("expected error for non-object item")
	}

	a = &app{in: strings.NewReader(`"text"`)}
	if _, err := a.readDocuments("-"); err == nil {
		t.Error("expected error for scalar input")
	}

	a = &app{in: strings.NewReader(`{"id":"1"}`)}
	docs, err := a.readDocuments("")
	if err != nil || len(docs) != 1 || docs[0]["id"] != "1" {
		t.Errorf("single object: docs=%v err=%v", docs, err)
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(errors.New("plain")) != 1 {
		t.Error("plain error should exit 1")
	}
}
