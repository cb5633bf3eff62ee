package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/worldsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const tracerName = "github.com/kailas-cloud/worldsearch/internal/db/postgres"

// Config holds connection and pool parameters for a PostgreSQL store.
type Config struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxConns int32
	MinConns int32
	// ConnectTimeout bounds both dialing and waiting for a free pooled connection.
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration

	SimilarityThreshold     float64
	WordSimilarityThreshold float64
}

// DSN renders the connection URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Store implements db.Store over a pgx connection pool.
type Store struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	tracer         trace.Tracer
}

// NewStore creates the process-wide connection pool. Connections are opened lazily.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Store{
		pool:           pool,
		acquireTimeout: cfg.ConnectTimeout,
		tracer:         otel.Tracer(tracerName),
	}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	if cfg.IdleTimeout > 0 {
		pc.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	sim := formatThreshold(cfg.SimilarityThreshold)
	word := formatThreshold(cfg.WordSimilarityThreshold)
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		// pg_trgm thresholds are session-level; every pooled session gets the same values.
		_, err := conn.Exec(ctx,
			"SELECT set_config('pg_trgm.similarity_threshold', $1, false), "+
				"set_config('pg_trgm.word_similarity_threshold', $2, false)",
			sim, word,
		)
		if err != nil {
			return fmt.Errorf("set pg_trgm thresholds: %w", err)
		}
		return nil
	}

	return pc, nil
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, db.OpPing, "")
	defer func() { endSpan(span, err) }()

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := conn.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Query runs a statement returning rows. The pooled connection is released when Rows is closed.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (db.Rows, error) {
	ctx, span := s.startSpan(ctx, db.OpQuery, sql)

	conn, err := s.acquire(ctx)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		err = &db.Error{Op: db.OpQuery, Err: err}
		endSpan(span, err)
		return nil, err
	}

	return &pooledRows{Rows: rows, conn: conn, span: span}, nil
}

// QueryRow runs a statement expected to return a single row.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) db.Row {
	return db.RowFromRows(s.Query(ctx, sql, args...))
}

// Exec runs a statement without a result set and returns the affected row count.
// Without arguments the simple protocol is used, which utility statements such as VACUUM
// and multi-statement scripts require.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (n int64, err error) {
	ctx, span := s.startSpan(ctx, db.OpExec, sql)
	defer func() { endSpan(span, err) }()

	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	if len(args) == 0 {
		args = []any{pgx.QueryExecModeSimpleProtocol}
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, &db.Error{Op: db.OpExec, Err: err}
	}
	return tag.RowsAffected(), nil
}

// Stat reports the pool state.
func (s *Store) Stat() db.PoolStat {
	st := s.pool.Stat()
	return db.PoolStat{
		MaxConns:          st.MaxConns(),
		TotalConns:        st.TotalConns(),
		IdleConns:         st.IdleConns(),
		AcquiredConns:     st.AcquiredConns(),
		AcquireCount:      st.AcquireCount(),
		EmptyAcquireCount: st.EmptyAcquireCount(),
	}
}

// Close waits for acquired connections to be released and closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// acquire takes a connection from the pool, waiting at most acquireTimeout when the pool is exhausted.
func (s *Store) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}

	conn, err := s.pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s: %w", db.ErrPoolTimeout, s.acquireTimeout, err)
		}
		return nil, &db.Error{Op: db.OpAcquire, Err: err}
	}
	return conn, nil
}

func (s *Store) startSpan(ctx context.Context, op, sql string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
	}
	if sql != "" {
		attrs = append(attrs, attribute.String("db.statement", sql))
	}
	return s.tracer.Start(ctx, "postgres."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// pooledRows releases its connection and ends its span on Close.
type pooledRows struct {
	pgx.Rows
	conn *pgxpool.Conn
	span trace.Span
	once sync.Once
}

func (r *pooledRows) Close() {
	r.once.Do(func() {
		r.Rows.Close()
		r.conn.Release()
		endSpan(r.span, r.Rows.Err())
	})
}
