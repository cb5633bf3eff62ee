package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/match"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/query"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
	"github.com/kailas-cloud/worldsearch/internal/repository"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (db.Rows, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Fuzzy runs the tiered trigram search. Rows with a blended score at or below minScore are dropped.
func (r *Repo) Fuzzy(ctx context.Context, q query.Query, minScore float64, limit int) ([]result.Result, error) {
	rows, err := r.store.Query(ctx, fuzzySQL, q.Text(), q.LikePattern(), minScore, limit)
	if err != nil {
		return nil, repository.Wrap(db.OpSearch, err)
	}
	defer rows.Close()

	results := make([]result.Result, 0, limit)
	for rows.Next() {
		var (
			id          int64
			title, desc string
			score       float64
			kind        string
		)
		if err := rows.Scan(&id, &title, &desc, &score, &kind); err != nil {
			return nil, repository.Wrap(db.OpSearch, fmt.Errorf("scan: %w", err))
		}

		mt, err := match.Parse(kind)
		if err != nil {
			return nil, repository.Wrap(db.OpSearch, err)
		}
		results = append(results, result.New(id, title, desc, score, mt))
	}
	if err := rows.Err(); err != nil {
		return nil, repository.Wrap(db.OpSearch, err)
	}

	return results, nil
}
