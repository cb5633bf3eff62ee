package worldsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/worldsearch/internal/db/redis"
	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	"github.com/kailas-cloud/worldsearch/internal/repository/lock"
	searchrepo "github.com/kailas-cloud/worldsearch/internal/repository/search"
	worldrepo "github.com/kailas-cloud/worldsearch/internal/repository/world"
	adminuc "github.com/kailas-cloud/worldsearch/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw string) (searchuc.Outcome, error)
}

type adminUseCase interface {
	Stats(ctx context.Context) (stats.Snapshot, error)
	Generate(ctx context.Context, count int) (domadmin.GenerateResult, error)
	Clear(ctx context.Context) (domadmin.ClearResult, error)
	RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the worldsearch SDK entry point.
type Client struct {
	store     db.Store
	lockStore *dbRedis.Store
	searchSvc searchUseCase
	adminSvc  adminUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to PostgreSQL.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.host == "" {
		return nil, errors.New("worldsearch: database host required (use WithDatabase)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := postgres.NewStore(ctx, postgresConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("worldsearch: create store: %w", err)
	}
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("worldsearch: %w: %w", ErrStoreUnavailable, err)
	}

	var (
		locker    adminuc.Locker = lock.NewLocal()
		lockStore *dbRedis.Store
	)
	if len(cfg.lockAddrs) > 0 {
		lockStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.lockAddrs,
			Password: cfg.lockPassword,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("worldsearch: create lock store: %w", err)
		}
		locker = lock.NewRedis(lockStore, cfg.lockTTL)
	}

	c := wireClient(store, locker, cfg, obs)
	c.lockStore = lockStore
	return c, nil
}

func postgresConfig(cfg *clientConfig) postgres.Config {
	return postgres.Config{
		Host:                    cfg.host,
		Port:                    cfg.port,
		Name:                    cfg.name,
		User:                    cfg.user,
		Password:                cfg.password,
		SSLMode:                 cfg.sslMode,
		MaxConns:                cfg.maxConns,
		MinConns:                cfg.minConns,
		ConnectTimeout:          cfg.connectTimeout,
		IdleTimeout:             cfg.idleTimeout,
		SimilarityThreshold:     cfg.search.SimilarityThreshold,
		WordSimilarityThreshold: cfg.search.WordSimilarityThreshold,
	}
}

func wireClient(store db.Store, locker adminuc.Locker, cfg *clientConfig, obs *observer) *Client {
	worlds := worldrepo.New(store)

	return &Client{
		store:     store,
		searchSvc: searchuc.New(searchrepo.New(store), cfg.search),
		adminSvc:  adminuc.New(worlds, locker, zap.NewNop()),
		healthSvc: healthuc.New(worlds),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.lockStore != nil {
		c.lockStore.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Migrate creates the pg_trgm extension, the worlds table, its trigram indexes
// and the maintenance functions. Safe to run repeatedly.
func (c *Client) Migrate(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("migrate", start, err) }()

	return postgres.Migrate(ctx, c.store)
}

// Search runs the tiered fuzzy title search. A blank query returns no results
// without touching the database.
func (c *Client) Search(ctx context.Context, q string) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	out, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return SearchResponse{}, err
	}
	return searchResponseFromOutcome(out), nil
}

// Health counts records to verify the database answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	r := c.healthSvc.Check(ctx)
	return HealthStatus{
		Status:   string(r.Status),
		Database: string(r.Database),
		Records:  r.Records,
		Err:      r.Err,
	}
}

// Stats returns row count and storage sizes of the worlds table.
func (c *Client) Stats(ctx context.Context) (s Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	snap, err := c.adminSvc.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalRecords: snap.TotalRecords(),
		TableSize:    snap.TableSize(),
		IndexSize:    snap.IndexSize(),
		TotalSize:    snap.TotalSize(),
	}, nil
}

// Generate inserts count synthetic records. count must be in [1, 1000000].
func (c *Client) Generate(ctx context.Context, count int) (res GenerateResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("generate", start, err) }()

	r, err := c.adminSvc.Generate(ctx, count)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{
		InsertedCount:   r.InsertedCount(),
		ExecutionTimeMs: r.ExecutionTimeMs(),
	}, nil
}

// Clear deletes every record, then vacuums the table.
// A vacuum failure is reported in ClearResult.VacuumErr, not as an error.
func (c *Client) Clear(ctx context.Context) (res ClearResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear", start, err) }()

	r, err := c.adminSvc.Clear(ctx)
	if err != nil {
		return ClearResult{}, err
	}
	return ClearResult{
		DeletedCount:    r.DeletedCount(),
		ExecutionTimeMs: r.ExecutionTimeMs(),
		VacuumTimeMs:    r.VacuumTimeMs(),
		VacuumErr:       r.VacuumErr(),
	}, nil
}

// RebuildIndexes rebuilds the trigram indexes.
func (c *Client) RebuildIndexes(ctx context.Context) (res RebuildResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("rebuild_indexes", start, err) }()

	r, err := c.adminSvc.RebuildIndexes(ctx)
	if err != nil {
		return RebuildResult{}, err
	}
	return RebuildResult{
		Status:          r.Status(),
		ExecutionTimeMs: r.ExecutionTimeMs(),
	}, nil
}
