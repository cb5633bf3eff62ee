package result

import (
	"github.com/kailas-cloud/worldsearch/internal/domain"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/match"
)

// SimilarityPrecision is the number of decimals a score is reported with.
const SimilarityPrecision = 3

// Result is a single search hit.
type Result struct {
	id          int64
	title       string
	description string
	score       float64
	matchType   match.Type
}

// New creates a search result. score is the blended score (raw similarity + tier bonus).
func New(id int64, title, description string, score float64, matchType match.Type) Result {
	return Result{
		id: id, title: title, description: description,
		score: score, matchType: matchType,
	}
}

// ID returns the record identifier.
func (r *Result) ID() int64 { return r.id }

// Title returns the record title.
func (r *Result) Title() string { return r.title }

// Description returns the record description, empty when the stored value is NULL.
func (r *Result) Description() string { return r.description }

// Score returns the unrounded blended score.
func (r *Result) Score() float64 { return r.score }

// Similarity returns the blended score rounded for presentation.
func (r *Result) Similarity() float64 { return domain.Round(r.score, SimilarityPrecision) }

// MatchType returns the tier the record matched by.
func (r *Result) MatchType() match.Type { return r.matchType }
