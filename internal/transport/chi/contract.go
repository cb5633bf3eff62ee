package chi

import (
	"context"

	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

// SearchService runs fuzzy searches.
type SearchService interface {
	Search(ctx context.Context, raw string) (searchuc.Outcome, error)
}

// AdminService runs bulk data operations.
type AdminService interface {
	Stats(ctx context.Context) (stats.Snapshot, error)
	Generate(ctx context.Context, count int) (domadmin.GenerateResult, error)
	Clear(ctx context.Context) (domadmin.ClearResult, error)
	RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error)
}

// HealthService probes the database.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
