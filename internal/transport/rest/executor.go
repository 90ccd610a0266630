package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype/internal/domain"
)

// AuthParam is the query parameter carrying the API key on every request.
const AuthParam = "auth_token"

// DefaultBasePath is the App Search v1 API prefix.
const DefaultBasePath = "/api/as/v1/"

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the executor settings.
type Config struct {
	Host      string
	BasePath  string
	APIKey    string
	UserAgent string
	Doer      Doer
	Logger    *zap.Logger
}

// Executor turns request descriptors into HTTP calls. It holds no mutable
// state and is safe for concurrent use.
type Executor struct {
	host      string
	basePath  string
	apiKey    string
	userAgent string
	doer      Doer
	logger    *zap.Logger
}

// NewExecutor creates an executor. A nil Doer falls back to a 30s-timeout
// http.Client; an empty BasePath falls back to DefaultBasePath.
func NewExecutor(cfg *Config) *Executor {
	e := &Executor{
		host:      cfg.Host,
		basePath:  cfg.BasePath,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		doer:      cfg.Doer,
		logger:    cfg.Logger,
	}
	if e.basePath == "" {
		e.basePath = DefaultBasePath
	}
	if e.doer == nil {
		e.doer = &http.Client{Timeout: 30 * time.Second}
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Get issues a GET. The API expects bodies on GET for id lookups.
func (e *Executor) Get(ctx context.Context, path string, params map[string]string, body any, enc Encoding) (*Response, error) {
	return e.Do(ctx, Request{Method: http.MethodGet, Path: path, Params: params, Body: body, Encoding: enc})
}

// Post issues a POST.
func (e *Executor) Post(ctx context.Context, path string, params map[string]string, body any, enc Encoding) (*Response, error) {
	return e.Do(ctx, Request{Method: http.MethodPost, Path: path, Params: params, Body: body, Encoding: enc})
}

// Delete issues a DELETE, with a body when given.
func (e *Executor) Delete(ctx context.Context, path string, params map[string]string, body any, enc Encoding) (*Response, error) {
	return e.Do(ctx, Request{Method: http.MethodDelete, Path: path, Params: params, Body: body, Encoding: enc})
}

// Put issues a PUT with object encoding.
func (e *Executor) Put(ctx context.Context, path string, params map[string]string, body any) (*Response, error) {
	return e.Do(ctx, Request{Method: http.MethodPut, Path: path, Params: params, Body: body, Encoding: EncodeObject})
}

// Do executes a single request. Exactly one network call is made on every
// path that gets past the API key and encoding checks.
func (e *Executor) Do(ctx context.Context, req Request) (*Response, error) {
	if e.apiKey == "" {
		return nil, domain.NewError(domain.KindConfiguration, nil)
	}
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	body, err := encodeBody(req.Body, req.Encoding)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, e.buildURL(req), bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewError(domain.KindTransport, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.userAgent != "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}

	start := time.Now()
	resp, err := e.doer.Do(httpReq)
	if err != nil {
		err = e.redact(err)
		e.logger.Debug("http request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, domain.NewError(domain.KindTransport, fmt.Errorf("sending message failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindTransport, fmt.Errorf("read response: %w", e.redact(err)))
	}

	e.logger.Debug("http request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("encoding", req.Encoding.String()),
		zap.Int("request_bytes", len(body)),
		zap.Int("status", resp.StatusCode),
		zap.Int("response_bytes", len(raw)),
		zap.Duration("latency", time.Since(start)),
	)

	return classify(resp.StatusCode, raw)
}

// buildURL composes host + base path + relative path and the query string.
// The auth_token parameter always carries the configured key, exactly once.
func (e *Executor) buildURL(req Request) string {
	params := make(url.Values, len(req.Params)+1)
	for k, v := range req.Params {
		params.Set(k, v)
	}
	params.Set(AuthParam, e.apiKey)

	return e.host + e.basePath + req.Path + "?" + params.Encode()
}

// redactedValue replaces the API key in errors and logs.
const redactedValue = "REDACTED"

// redact hides the API key in a transport error. *url.Error carries the full
// request URL, auth_token included; it is rebuilt with the token replaced.
func (e *Executor) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && err == error(ue) {
		err = &url.Error{Op: ue.Op, URL: redactURL(ue.URL), Err: ue.Err}
	}
	if e.apiKey != "" && strings.Contains(err.Error(), e.apiKey) {
		return &redactedError{msg: strings.ReplaceAll(err.Error(), e.apiKey, redactedValue), err: err}
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redactedValue
	}
	q := u.Query()
	if q.Has(AuthParam) {
		q.Set(AuthParam, redactedValue)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// redactedError masks the message of an error whose text holds the API key.
// Unwrap keeps the cause reachable for errors.Is/As.
type redactedError struct {
	msg string
	err error
}

func (r *redactedError) Error() string { return r.msg }
func (r *redactedError) Unwrap() error { return r.err }

// classify maps a status code and raw body to the response or error.
func classify(status int, raw []byte) (*Response, error) {
	if status >= 200 && status <= 299 {
		v, parsed, err := parseBody(raw)
		if err != nil {
			return nil, domain.NewError(domain.KindMalformedResponse,
				fmt.Errorf("the JSON response could not be parsed: %w", err))
		}
		return &Response{Status: status, Body: v, Raw: parsed}, nil
	}
	return nil, domain.NewStatusError(status, string(raw))
}
