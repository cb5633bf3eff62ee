package admin

import (
	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// Generate count bounds.
const (
	DefaultGenerateCount = 10000
	MinGenerateCount     = 1
	MaxGenerateCount     = 1_000_000
)

// TimingPrecision is the number of decimals execution times are reported with.
const TimingPrecision = 2

// ValidateCount checks that a generate count is within bounds.
func ValidateCount(count int) error {
	if count < MinGenerateCount || count > MaxGenerateCount {
		return domain.ErrInvalidCount
	}
	return nil
}

// GenerateResult is the outcome of a bulk generation.
type GenerateResult struct {
	insertedCount   int
	executionTimeMs float64
}

// NewGenerateResult creates a generate result; the timing is rounded to TimingPrecision.
func NewGenerateResult(inserted int, executionTimeMs float64) GenerateResult {
	return GenerateResult{
		insertedCount:   inserted,
		executionTimeMs: domain.Round(executionTimeMs, TimingPrecision),
	}
}

// InsertedCount returns the number of rows inserted.
func (r GenerateResult) InsertedCount() int { return r.insertedCount }

// ExecutionTimeMs returns the database-side insert time.
func (r GenerateResult) ExecutionTimeMs() float64 { return r.executionTimeMs }

// ClearResult is the outcome of a bulk delete followed by a maintenance pass.
type ClearResult struct {
	deletedCount    int
	executionTimeMs float64
	vacuumTimeMs    int64
	vacuumErr       error
}

// NewClearResult creates a clear result. vacuumErr is non-nil when the maintenance pass failed
// after the deletion had already committed.
func NewClearResult(deleted int, executionTimeMs float64, vacuumTimeMs int64, vacuumErr error) ClearResult {
	return ClearResult{
		deletedCount:    deleted,
		executionTimeMs: domain.Round(executionTimeMs, TimingPrecision),
		vacuumTimeMs:    vacuumTimeMs,
		vacuumErr:       vacuumErr,
	}
}

// DeletedCount returns the number of rows deleted.
func (r ClearResult) DeletedCount() int { return r.deletedCount }

// ExecutionTimeMs returns the database-side delete time.
func (r ClearResult) ExecutionTimeMs() float64 { return r.executionTimeMs }

// VacuumTimeMs returns the wall-clock time of the maintenance pass.
func (r ClearResult) VacuumTimeMs() int64 { return r.vacuumTimeMs }

// VacuumErr returns the maintenance failure, if any.
func (r ClearResult) VacuumErr() error { return r.vacuumErr }

// RebuildResult is the outcome of an index rebuild.
type RebuildResult struct {
	status          string
	executionTimeMs float64
}

// NewRebuildResult creates a rebuild result.
func NewRebuildResult(status string, executionTimeMs float64) RebuildResult {
	return RebuildResult{
		status:          status,
		executionTimeMs: domain.Round(executionTimeMs, TimingPrecision),
	}
}

// Status returns the status reported by the database.
func (r RebuildResult) Status() string { return r.status }

// ExecutionTimeMs returns the database-side reindex time.
func (r RebuildResult) ExecutionTimeMs() float64 { return r.executionTimeMs }
