// Command swiftype-mock serves an App Search compatible API for local development.
// Engines live in memory or, with database.driver set to redis or valkey, in hashes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/swiftype/internal/config"
	dbRedis "github.com/kailas-cloud/swiftype/internal/db/redis"
	logpkg "github.com/kailas-cloud/swiftype/internal/logger"
	"github.com/kailas-cloud/swiftype/internal/metrics"
	"github.com/kailas-cloud/swiftype/internal/repository/keyvalue"
	"github.com/kailas-cloud/swiftype/internal/repository/memory"
	chiTransport "github.com/kailas-cloud/swiftype/internal/transport/chi"
	documentuc "github.com/kailas-cloud/swiftype/internal/usecase/document"
	engineuc "github.com/kailas-cloud/swiftype/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/swiftype/internal/usecase/health"
	searchuc "github.com/kailas-cloud/swiftype/internal/usecase/search"
	"github.com/kailas-cloud/swiftype/internal/version"
)

// engineStore is everything the usecases need from storage.
type engineStore interface {
	engineuc.Repository
	documentuc.Repository
}

// openStore builds the store selected by database.driver.
// Redis and Valkey share the rueidis driver.
func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (engineStore, func(), error) {
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		db, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		ctx := context.Background()
		if err := db.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Addrs))
		return keyvalue.New(db).WithPrefix(cfg.KeyPrefix), db.Close, nil
	default:
		return memory.New(), func() {}, nil
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: config/<ENV>.yaml)")
	flag.Parse()

	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting swiftype mock server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.Server.Port),
		zap.Bool("auth", len(cfg.Server.APIKeys) > 0),
		zap.String("db_driver", cfg.Database.Driver),
	)

	metrics.Register()

	store, closeStore, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStore()

	engineSvc := engineuc.New(store)
	docSvc := documentuc.New(store, store).WithMaxPageSize(cfg.Server.MaxPageSize)
	searchSvc := searchuc.New(store)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(engineSvc, docSvc, searchSvc, healthSvc, logger).
		WithMaxPageSize(cfg.Server.MaxPageSize)

	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: cfg.Server.APIKeys,
		Metrics: promhttp.Handler(),
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
