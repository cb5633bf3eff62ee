package world

import (
	"context"
	"errors"

	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	domworld "github.com/kailas-cloud/worldsearch/internal/domain/world"
	"github.com/kailas-cloud/worldsearch/internal/repository"
)

// store is the consumer interface for the worlds table (ISP).
type store interface {
	QueryRow(ctx context.Context, sql string, args ...any) db.Row
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

const (
	countSQL    = "SELECT count(*) FROM " + domworld.TableName
	statsSQL    = "SELECT total_records, table_size, index_size, total_size FROM get_data_stats()"
	generateSQL = "SELECT inserted_count, execution_time_ms FROM generate_test_data($1)"
	clearSQL    = "SELECT deleted_count, execution_time_ms FROM clear_all_data()"
	rebuildSQL  = "SELECT status, execution_time_ms FROM rebuild_indexes()"
	// VACUUM cannot run inside a transaction block; it is sent on its own.
	vacuumSQL = "VACUUM ANALYZE " + domworld.TableName
)

// Repo implements the admin and health repositories over the worlds table.
type Repo struct {
	store store
}

// New creates a worlds repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Count returns the number of records.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.store.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, repository.Wrap(db.OpCount, err)
	}
	return n, nil
}

// Stats returns the record count and relation sizes.
func (r *Repo) Stats(ctx context.Context) (stats.Snapshot, error) {
	var (
		total                           int64
		tableSize, indexSize, totalSize string
	)
	err := r.store.QueryRow(ctx, statsSQL).Scan(&total, &tableSize, &indexSize, &totalSize)
	if err != nil {
		return stats.Snapshot{}, repository.Wrap(db.OpStats, err)
	}
	return stats.New(total, tableSize, indexSize, totalSize), nil
}

// Generate inserts count synthetic records. The execution time is measured by the database.
func (r *Repo) Generate(ctx context.Context, count int) (admin.GenerateResult, error) {
	var (
		inserted int
		execMs   float64
	)
	if err := r.store.QueryRow(ctx, generateSQL, count).Scan(&inserted, &execMs); err != nil {
		return admin.GenerateResult{}, repository.Wrap(db.OpGenerate, err)
	}
	return admin.NewGenerateResult(inserted, execMs), nil
}

// Clear deletes every record and returns the deleted count and database-side execution time.
func (r *Repo) Clear(ctx context.Context) (deleted int, execMs float64, err error) {
	if err := r.store.QueryRow(ctx, clearSQL).Scan(&deleted, &execMs); err != nil {
		return 0, 0, repository.Wrap(db.OpClear, err)
	}
	return deleted, execMs, nil
}

// Vacuum reclaims storage and refreshes planner statistics.
func (r *Repo) Vacuum(ctx context.Context) error {
	if _, err := r.store.Exec(ctx, vacuumSQL); err != nil {
		return repository.Wrap(db.OpVacuum, err)
	}
	return nil
}

// RebuildIndexes rebuilds every index on the table.
func (r *Repo) RebuildIndexes(ctx context.Context) (admin.RebuildResult, error) {
	var (
		status string
		execMs float64
	)
	if err := r.store.QueryRow(ctx, rebuildSQL).Scan(&status, &execMs); err != nil {
		return admin.RebuildResult{}, repository.Wrap(db.OpReindex, err)
	}
	if status == "" {
		return admin.RebuildResult{}, repository.Wrap(db.OpReindex, errors.New("empty status"))
	}
	return admin.NewRebuildResult(status, execMs), nil
}
