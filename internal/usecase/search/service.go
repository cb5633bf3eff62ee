package search

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/worldsearch/internal/domain"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/query"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
)

// Outcome is a ranked result list plus the time spent in the backend.
type Outcome struct {
	Results   []result.Result
	QueryTime time.Duration
	Query     string
}

// Service handles fuzzy title search.
type Service struct {
	repo Repository
	cfg  domain.SearchConfig
	now  func() time.Time
}

// New creates a search service.
func New(repo Repository, cfg domain.SearchConfig) *Service {
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// Search trims raw and runs one backend query. A blank query returns an empty Outcome
// without touching the backend.
func (s *Service) Search(ctx context.Context, raw string) (Outcome, error) {
	q, err := query.Parse(raw)
	if err != nil {
		return Outcome{}, err
	}
	if q.IsBlank() {
		return Outcome{Results: []result.Result{}}, nil
	}

	start := s.now()
	results, err := s.repo.Fuzzy(ctx, q, s.cfg.MinScore, s.cfg.Limit)
	elapsed := s.now().Sub(start)
	if err != nil {
		return Outcome{}, fmt.Errorf("fuzzy search: %w", err)
	}

	return Outcome{
		Results:   rank(aboveMinScore(results, s.cfg.MinScore), s.cfg.Limit),
		QueryTime: elapsed,
		Query:     q.Text(),
	}, nil
}

// aboveMinScore drops results at or below the cutoff. The backend applies the same filter.
func aboveMinScore(in []result.Result, minScore float64) []result.Result {
	out := in[:0]
	for _, r := range in {
		if r.Score() > minScore {
			out = append(out, r)
		}
	}
	return out
}
