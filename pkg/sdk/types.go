package worldsearch

import (
	"time"

	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

// SearchResult is a single fuzzy search hit.
type SearchResult struct {
	ID          int64
	Title       string
	Description string
	// Score is the blended score: trigram similarity plus the tier bonus.
	Score float64
	// Similarity is Score rounded to three decimals.
	Similarity float64
	// MatchType is one of exact_prefix, similarity, word_similarity, contains.
	MatchType string
}

// SearchResponse holds ranked hits and the time the database spent on them.
type SearchResponse struct {
	Results   []SearchResult
	QueryTime time.Duration
	Query     string
}

// HealthStatus represents database health.
type HealthStatus struct {
	Status   string // "ok" or "error"
	Database string // "connected" or "disconnected"
	Records  int64
	Err      error
}

// Stats describes the worlds table.
type Stats struct {
	TotalRecords int64
	TableSize    string
	IndexSize    string
	TotalSize    string
}

// GenerateResult reports a synthetic data load.
type GenerateResult struct {
	InsertedCount   int
	ExecutionTimeMs float64
}

// ClearResult reports a table wipe.
type ClearResult struct {
	DeletedCount    int
	ExecutionTimeMs float64
	VacuumTimeMs    int64
	// VacuumErr is set when the rows were deleted but VACUUM failed.
	VacuumErr error
}

// RebuildResult reports an index rebuild.
type RebuildResult struct {
	Status          string
	ExecutionTimeMs float64
}

func searchResponseFromOutcome(out searchuc.Outcome) SearchResponse {
	results := make([]SearchResult, len(out.Results))
	for i := range out.Results {
		r := &out.Results[i]
		results[i] = SearchResult{
			ID:          r.ID(),
			Title:       r.Title(),
			Description: r.Description(),
			Score:       r.Score(),
			Similarity:  r.Similarity(),
			MatchType:   string(r.MatchType()),
		}
	}
	return SearchResponse{
		Results:   results,
		QueryTime: out.QueryTime,
		Query:     out.Query,
	}
}
