package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype"
	"github.com/kailas-cloud/swiftype/internal/config"
	logpkg "github.com/kailas-cloud/swiftype/internal/logger"
)

// apiKeyEnv is read when neither the flag nor the config sets a key.
const apiKeyEnv = "SWIFTYPE_API_KEY"

// app holds global flags and the lazily built client.
type app struct {
	in  io.Reader
	out io.Writer

	env        string
	configPath string
	host       string
	apiKey     string
	basePath   string
	timeout    time.Duration
	logLevel   string
	showStatus bool

	client *swiftype.Client
	logger *zap.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "swiftype",
		Short:         "Command line client for the Swiftype App Search API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.env, "env", config.GetEnv(), "environment used to locate config/<env>.yaml")
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&a.host, "host", "", "API host, e.g. https://host-2376rb.api.swiftype.com")
	pf.StringVar(&a.apiKey, "api-key", "", "API key (default $"+apiKeyEnv+")")
	pf.StringVar(&a.basePath, "base-path", "", "API base path (default "+swiftype.DefaultBasePath+")")
	pf.DurationVar(&a.timeout, "timeout", 0, "request timeout (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.showStatus, "status", false, "print the HTTP status before the response body")

	root.AddCommand(
		newEnginesCmd(a),
		newDocumentsCmd(a),
		newSearchCmd(a),
		newVersionCmd(a),
	)
	return root
}

// loadConfig reads --config, else config/<env>.yaml when present, else defaults.
func (a *app) loadConfig() (config.Config, error) {
	if a.configPath != "" {
		cfg, err := config.LoadFile(a.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(a.env)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// api builds the client on first use. Flags override config values.
func (a *app) api() (*swiftype.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if a.host != "" {
		cfg.Client.Host = a.host
	}
	if a.basePath != "" {
		cfg.Client.BasePath = a.basePath
	}
	if a.apiKey != "" {
		cfg.Client.APIKey = a.apiKey
	}
	if cfg.Client.APIKey == "" {
		cfg.Client.APIKey = os.Getenv(apiKeyEnv)
	}
	timeout := time.Duration(cfg.Client.TimeoutSec) * time.Second
	if a.timeout > 0 {
		timeout = a.timeout
	}

	logger, err := logpkg.NewLogger("cli", a.logLevel)
	if err != nil {
		return nil, err
	}
	a.logger = logger

	client, err := swiftype.New(swiftype.Config{
		APIKey:   cfg.Client.APIKey,
		Host:     cfg.Client.Host,
		BasePath: cfg.Client.BasePath,
	}, swiftype.WithTimeout(timeout), swiftype.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// callFunc performs one API call for a command.
type callFunc func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error)

// run adapts a callFunc into a cobra RunE that prints the response.
func (a *app) run(call callFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := a.api()
		if err != nil {
			return err
		}
		resp, err := call(cmd.Context(), c, args)
		if err != nil {
			return err
		}
		return a.print(resp)
	}
}
