package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// MaxLength is the maximum accepted query length in characters.
const MaxLength = 512

// Query is a normalized search term.
type Query struct {
	text string
}

// Parse trims surrounding whitespace. A blank result is valid and yields an empty Query.
// Text that PostgreSQL cannot store as UTF8 (invalid encoding, NUL bytes) is rejected.
func Parse(raw string) (Query, error) {
	text := strings.TrimSpace(raw)
	if !utf8.ValidString(text) {
		return Query{}, fmt.Errorf("%w: not valid UTF-8", domain.ErrInvalidQuery)
	}
	if strings.IndexByte(text, 0) >= 0 {
		return Query{}, fmt.Errorf("%w: contains NUL byte", domain.ErrInvalidQuery)
	}
	if n := utf8.RuneCountInString(text); n > MaxLength {
		return Query{}, fmt.Errorf("%w: too long (max %d chars, got %d)", domain.ErrInvalidQuery, MaxLength, n)
	}
	return Query{text: text}, nil
}

// Text returns the trimmed query.
func (q Query) Text() string { return q.text }

// IsBlank reports whether there is nothing to search for.
func (q Query) IsBlank() bool { return q.text == "" }

// LikePattern escapes LIKE metacharacters so the query matches literally inside ILIKE.
func (q Query) LikePattern() string {
	return likeEscaper.Replace(q.text)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
