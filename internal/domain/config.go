package domain

// SearchConfig holds the fuzzy search contract parameters.
type SearchConfig struct {
	// SimilarityThreshold backs the pg_trgm % operator.
	SimilarityThreshold float64
	// WordSimilarityThreshold backs the pg_trgm <% operator.
	WordSimilarityThreshold float64
	// Limit caps the number of results per response.
	Limit int
	// MinScore discards rows whose blended score is not strictly above it.
	MinScore float64
}

// DefaultSearchConfig returns the thresholds the ranking was tuned with.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SimilarityThreshold:     0.3,
		WordSimilarityThreshold: 0.6,
		Limit:                   20,
		MinScore:                0.2,
	}
}
