package swiftype

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype/internal/transport/rest"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer = rest.Doer

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	doer      Doer
	timeout   time.Duration
	userAgent string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient sends requests through the given http.Client.
// The client is used as is; WithTimeout does not modify it.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		if hc != nil {
			c.doer = hc
		}
	})
}

// WithDoer injects a custom transport, e.g. a recording fake in tests.
func WithDoer(d Doer) Option {
	return optionFunc(func(c *clientConfig) {
		c.doer = d
	})
}

// WithTimeout bounds a single request on the default http.Client.
// Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
