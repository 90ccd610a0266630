package swiftype

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/swiftype/internal/transport/rest"
	"github.com/kailas-cloud/swiftype/internal/version"
)

// DefaultBasePath is the App Search v1 API prefix.
const DefaultBasePath = rest.DefaultBasePath

const defaultTimeout = 30 * time.Second

// Request describes a raw API call; see Client.Do.
type Request = rest.Request

// Response is a successful API response.
type Response = rest.Response

// Encoding selects how a request body is serialized.
type Encoding = rest.Encoding

// Body encodings.
const (
	EncodeObject = rest.EncodeObject
	EncodePlain  = rest.EncodePlain
)

// ErrNoBody is returned by Response.Decode when the server sent no content.
var ErrNoBody = rest.ErrNoBody

// Config holds the credentials and endpoint. It is copied by New and never
// modified afterwards.
type Config struct {
	APIKey   string
	Host     string
	BasePath string // default DefaultBasePath
}

// Client is the App Search API entry point. It is safe for concurrent use.
type Client struct {
	cfg  Config
	exec *rest.Executor
	obs  *observer
}

// New creates a Client. An empty APIKey is accepted here; every call then
// fails with ErrConfiguration without touching the network.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt.apply(o)
	}

	if cfg.Host == "" {
		return nil, errors.New("swiftype: host is required")
	}
	if u, err := url.Parse(cfg.Host); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("swiftype: invalid host %q", cfg.Host)
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if o.timeout <= 0 {
		return nil, errors.New("swiftype: timeout must be > 0")
	}

	doer := o.doer
	if doer == nil {
		doer = &http.Client{Timeout: o.timeout}
	}

	obs, err := newObserver(o.logger, o.metricsReg)
	if err != nil {
		return nil, err
	}

	exec := rest.NewExecutor(&rest.Config{
		Host:      cfg.Host,
		BasePath:  cfg.BasePath,
		APIKey:    cfg.APIKey,
		UserAgent: o.userAgent,
		Doer:      doer,
		Logger:    o.logger,
	})

	return &Client{cfg: cfg, exec: exec, obs: obs}, nil
}

// Config returns a copy of the client configuration with the key masked.
func (c *Client) Config() Config {
	out := c.cfg
	if out.APIKey != "" {
		out.APIKey = maskKey(out.APIKey)
	}
	return out
}

// Do executes a raw request descriptor relative to the base path.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.call(ctx, "raw."+strings.ToLower(req.Method), req)
}

func (c *Client) call(ctx context.Context, op string, req Request) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, err) }()

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

const enginesPath = "engines"

func enginePath(engineID string) string {
	return enginesPath + "/" + url.PathEscape(engineID)
}

func documentsPath(engineID string) string {
	return enginePath(engineID) + "/documents"
}

func searchPath(engineID string) string {
	return enginePath(engineID) + "/search"
}
