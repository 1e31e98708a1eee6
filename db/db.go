// Package db executes compiled statements against Postgres and observes
// their latency.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fraiseql/fraiseql-go/monitoring"
	"github.com/fraiseql/fraiseql-go/query"
)

// ErrNotFound indicates a single-row query matched no rows.
var ErrNotFound = errors.New("not found")

// DefaultSlowQueryThreshold flags queries slower than this when the caller
// does not configure a threshold.
const DefaultSlowQueryThreshold = 100 * time.Millisecond

// Executor runs compiled statements on a connection pool.
type Executor struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	slow time.Duration
}

// Options configures an Executor.
type Options struct {
	// Logger for query diagnostics.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// SlowQueryThreshold is the latency above which a query is logged as
	// slow and counted.
	// OPTIONAL: If 0, uses DefaultSlowQueryThreshold.
	SlowQueryThreshold time.Duration
}

// New creates an executor with a new connection pool for dsn.
func New(ctx context.Context, dsn string, opts Options) (*Executor, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewWithPool(pool, opts), nil
}

// NewWithPool wraps an existing pool. The caller keeps ownership of the
// pool's lifecycle unless Close is used.
func NewWithPool(pool *pgxpool.Pool, opts Options) *Executor {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	slow := opts.SlowQueryThreshold
	if slow == 0 {
		slow = DefaultSlowQueryThreshold
	}
	return &Executor{pool: pool, log: log, slow: slow}
}

// Close closes the connection pool.
func (e *Executor) Close() {
	e.pool.Close()
}

// QueryDocuments runs a compiled find statement and returns the projected
// result documents, decoded. view labels metrics and slow-query logs.
func (e *Executor) QueryDocuments(ctx context.Context, view string, q query.DatabaseQuery) ([]map[string]any, error) {
	defer e.observe(ctx, view, q.SQL, time.Now())

	rows, err := e.pool.Query(ctx, q.SQL, q.Params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode result document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return docs, nil
}

// QueryDocument runs a compiled single-row statement.
func (e *Executor) QueryDocument(ctx context.Context, view string, q query.DatabaseQuery) (map[string]any, error) {
	docs, err := e.QueryDocuments(ctx, view, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

// Count runs a compiled count statement.
func (e *Executor) Count(ctx context.Context, view string, q query.DatabaseQuery) (int64, error) {
	defer e.observe(ctx, view, q.SQL, time.Now())

	var count int64
	err := e.pool.QueryRow(ctx, q.SQL, q.Params...).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

func (e *Executor) observe(ctx context.Context, view, sql string, start time.Time) {
	elapsed := time.Since(start)
	monitoring.QueryDuration.WithLabelValues(view).Observe(elapsed.Seconds())
	if elapsed >= e.slow {
		monitoring.SlowQueryTotal.WithLabelValues(view).Inc()
		e.log.WarnContext(ctx, "slow query",
			"view", view,
			"elapsed", elapsed,
			"sql", sql)
	}
}
