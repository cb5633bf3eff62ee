package search

import (
	"context"

	"github.com/kailas-cloud/worldsearch/internal/domain/search/query"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Fuzzy(ctx context.Context, q query.Query, minScore float64, limit int) ([]result.Result, error)
}
