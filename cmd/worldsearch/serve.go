package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/worldsearch/internal/config"
	"github.com/kailas-cloud/worldsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/worldsearch/internal/db/redis"
	"github.com/kailas-cloud/worldsearch/internal/domain"
	logpkg "github.com/kailas-cloud/worldsearch/internal/logger"
	"github.com/kailas-cloud/worldsearch/internal/metrics"
	"github.com/kailas-cloud/worldsearch/internal/repository/lock"
	searchrepo "github.com/kailas-cloud/worldsearch/internal/repository/search"
	worldrepo "github.com/kailas-cloud/worldsearch/internal/repository/world"
	"github.com/kailas-cloud/worldsearch/internal/tracing"
	chiTransport "github.com/kailas-cloud/worldsearch/internal/transport/chi"
	adminuc "github.com/kailas-cloud/worldsearch/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
	"github.com/kailas-cloud/worldsearch/internal/version"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply the database schema before accepting traffic",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serveAction(c.Bool("migrate"))(ctx, c)
		},
	}
}

func serveAction(migrate bool) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		return serve(ctx, c.String("env"), cfg, migrate)
	}
}

// setupTracing is replaced in tests.
var setupTracing = tracing.Setup

func serve(ctx context.Context, env string, cfg config.Config, migrate bool) error {
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting worldsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.Name),
		zap.Int("db_max_conns", cfg.Database.MaxConns),
		zap.String("lock_driver", cfg.Admin.Lock.Driver),
	)

	shutdownTracing, err := setupTracing(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version.Version,
		Environment: env,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	// Runs on every exit path, after the store and locker are closed.
	defer func() {
		tracingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tracingCtx); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	store, err := postgres.NewStore(ctx, postgresConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database store: %w", err)
	}

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	if migrate {
		if err := postgres.Migrate(ctx, store); err != nil {
			store.Close()
			return fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("Schema applied")
	}

	locker, closeLocker, err := newLocker(ctx, cfg.Admin.Lock, readiness)
	if err != nil {
		store.Close()
		return err
	}

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()
	prometheus.MustRegister(metrics.NewPoolCollector(store.Stat))

	worlds := worldrepo.New(store)
	searchSvc := searchuc.New(searchrepo.New(store), searchConfig(cfg.Search))
	adminSvc := adminuc.New(worlds, locker, logger.Named("admin"))
	healthSvc := healthuc.New(worlds)

	server := chiTransport.NewServer(searchSvc, adminSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:     cfg.Admin.APIKeys,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Compress:    cfg.HTTP.Compress,
		StaticDir:   cfg.HTTP.StaticDir,
		IndexFile:   cfg.HTTP.IndexFile,
	}, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	runErr := g.Wait()

	// In-flight requests are drained; the pool can go.
	store.Close()
	closeLocker()

	if runErr != nil {
		logger.Error("Server stopped with error", zap.Error(runErr))
		return runErr
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func postgresConfig(cfg config.Config) postgres.Config {
	return postgres.Config{
		Host:                    cfg.Database.Host,
		Port:                    cfg.Database.Port,
		Name:                    cfg.Database.Name,
		User:                    cfg.Database.User,
		Password:                cfg.Database.Password,
		SSLMode:                 cfg.Database.SSLMode,
		MaxConns:                int32(cfg.Database.MaxConns), //nolint:gosec // validated against small bounds
		MinConns:                int32(cfg.Database.MinConns), //nolint:gosec // validated against small bounds
		ConnectTimeout:          cfg.Database.ConnectTimeout(),
		IdleTimeout:             cfg.Database.IdleTimeout(),
		SimilarityThreshold:     cfg.Search.SimilarityThreshold,
		WordSimilarityThreshold: cfg.Search.WordSimilarityThreshold,
	}
}

func searchConfig(c config.SearchConfig) domain.SearchConfig {
	return domain.SearchConfig{
		SimilarityThreshold:     c.SimilarityThreshold,
		WordSimilarityThreshold: c.WordSimilarityThreshold,
		Limit:                   c.Limit,
		MinScore:                c.MinScore,
	}
}

// newLocker picks the maintenance lock backend. The returned func releases its connection.
func newLocker(ctx context.Context, c config.LockConfig, readiness time.Duration) (adminuc.Locker, func(), error) {
	if c.Driver != "redis" {
		return lock.NewLocal(), func() {}, nil
	}

	rs, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    c.Addrs,
		Password: c.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create lock store: %w", err)
	}
	if err := rs.WaitForReady(ctx, readiness); err != nil {
		rs.Close()
		return nil, nil, fmt.Errorf("lock store not ready: %w", err)
	}
	return lock.NewRedis(rs, time.Duration(c.TTLSec)*time.Second), rs.Close, nil
}
