package worldsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	host     string
	port     int
	name     string
	user     string
	password string
	sslMode  string

	maxConns         int32
	minConns         int32
	connectTimeout   time.Duration
	idleTimeout      time.Duration
	readinessTimeout time.Duration

	search domain.SearchConfig

	lockAddrs    []string
	lockPassword string
	lockTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		port:             5432,
		sslMode:          "disable",
		maxConns:         20,
		connectTimeout:   2 * time.Second,
		idleTimeout:      30 * time.Second,
		readinessTimeout: defaultReadinessTimeout,
		search:           domain.DefaultSearchConfig(),
		lockTTL:          15 * time.Minute,
	}
}

// WithDatabase configures the PostgreSQL connection.
func WithDatabase(host string, port int, name, user, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.host = host
		c.port = port
		c.name = name
		c.user = user
		c.password = password
	})
}

// WithSSLMode sets the libpq sslmode. Default: disable.
func WithSSLMode(mode string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sslMode = mode
	})
}

// WithPool configures the connection pool.
// Defaults: 20 connections max, 2s connect timeout, 30s idle timeout.
func WithPool(maxConns, minConns int32, connectTimeout, idleTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = maxConns
		c.minConns = minConns
		c.connectTimeout = connectTimeout
		c.idleTimeout = idleTimeout
	})
}

// WithReadinessTimeout bounds how long New waits for the database. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithThresholds sets the pg_trgm similarity and word similarity thresholds.
// Defaults: 0.3 and 0.6.
func WithThresholds(similarity, wordSimilarity float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.search.SimilarityThreshold = similarity
		c.search.WordSimilarityThreshold = wordSimilarity
	})
}

// WithSearchLimit caps the number of results and sets the score floor.
// Defaults: 20 results, scores above 0.2.
func WithSearchLimit(limit int, minScore float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.search.Limit = limit
		c.search.MinScore = minScore
	})
}

// WithRedisLock serializes maintenance operations across processes through Redis.
// Without it, operations are serialized within this client only.
func WithRedisLock(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lockAddrs = []string{addr}
		c.lockPassword = password
		if ttl > 0 {
			c.lockTTL = ttl
		}
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
