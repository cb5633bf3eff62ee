package match

import "fmt"

// Type is the tier a search hit was matched by.
type Type string

// Match tiers, highest priority first.
const (
	// ExactPrefix matches titles starting with the query (case-insensitive).
	ExactPrefix Type = "exact_prefix"
	// Similarity matches titles trigram-similar to the query.
	Similarity Type = "similarity"
	// WordSimilarity matches the query against a word-level fragment of the title.
	WordSimilarity Type = "word_similarity"
	// Contains matches titles containing the query anywhere.
	Contains Type = "contains"
)

// Tiers lists all match types in priority order.
func Tiers() []Type {
	return []Type{ExactPrefix, Similarity, WordSimilarity, Contains}
}

// IsValid checks if the type is one of the supported tiers.
func (t Type) IsValid() bool {
	return t.Priority() > 0
}

// Priority returns 1 for the highest tier and 4 for the lowest, 0 for unknown types.
func (t Type) Priority() int {
	switch t {
	case ExactPrefix:
		return 1
	case Similarity:
		return 2
	case WordSimilarity:
		return 3
	case Contains:
		return 4
	default:
		return 0
	}
}

// Bonus is the fixed amount added to the raw similarity to form the blended score.
func (t Type) Bonus() float64 {
	switch t {
	case ExactPrefix:
		return 0.5
	case Similarity:
		return 0.3
	case WordSimilarity:
		return 0.2
	case Contains:
		return 0.1
	default:
		return 0
	}
}

// Parse converts a stored tier label into a Type.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown match type %q", s)
	}
	return t, nil
}
