package admin

import (
	"context"

	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	"github.com/kailas-cloud/worldsearch/internal/repository/lock"
)

// Repository defines the storage contract for bulk maintenance.
type Repository interface {
	Stats(ctx context.Context) (stats.Snapshot, error)
	Generate(ctx context.Context, count int) (domadmin.GenerateResult, error)
	Clear(ctx context.Context) (deleted int, execMs float64, err error)
	Vacuum(ctx context.Context) error
	RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error)
}

// Locker serializes bulk operations. Acquire must not block: a held lock fails with
// domain.ErrMaintenanceInProgress.
type Locker interface {
	Acquire(ctx context.Context, name string) (lock.Release, error)
}
