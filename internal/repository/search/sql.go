package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/worldsearch/internal/domain/search/match"
	"github.com/kailas-cloud/worldsearch/internal/domain/world"
)

// tier describes one match class: how rows qualify and how their base score is computed.
type tier struct {
	kind  match.Type
	where string
	score string
}

// tiers are listed in priority order.
var tiers = []tier{
	{kind: match.ExactPrefix, where: "title ILIKE $2 || '%'", score: "similarity(title, $1)"},
	{kind: match.Similarity, where: "title % $1", score: "similarity(title, $1)"},
	{kind: match.WordSimilarity, where: "$1 <% title", score: "word_similarity($1, title)"},
	{kind: match.Contains, where: "title ILIKE '%' || $2 || '%'", score: "similarity(title, $1)"},
}

// fuzzySQL parameters: $1 raw query, $2 LIKE-escaped query, $3 exclusive minimum score, $4 limit.
var fuzzySQL = buildFuzzySQL(tiers)

// buildFuzzySQL unions the tiers, each excluding rows claimed by a higher tier, keeps the best
// tier per id, filters by score and orders by score then id.
func buildFuzzySQL(ts []tier) string {
	var b strings.Builder

	b.WriteString("WITH tiers AS (\n")
	for i, t := range ts {
		if i > 0 {
			b.WriteString("  UNION ALL\n")
		}
		fmt.Fprintf(&b, "    SELECT id, title, description, %s + %s AS sim, '%s' AS match_type\n",
			t.score, strconv.FormatFloat(t.kind.Bonus(), 'f', -1, 64), t.kind)
		fmt.Fprintf(&b, "    FROM %s\n", world.TableName)
		fmt.Fprintf(&b, "    WHERE %s", t.where)
		for _, higher := range ts[:i] {
			fmt.Fprintf(&b, " AND NOT (%s)", higher.where)
		}
		b.WriteString("\n")
	}
	b.WriteString(`),
best AS (
    SELECT DISTINCT ON (id) id, title, description, sim, match_type
    FROM tiers
    ORDER BY id, sim DESC
)
SELECT id, title, COALESCE(description, ''), sim::double precision, match_type
FROM best
WHERE sim > $3
ORDER BY sim DESC, id
LIMIT $4`)

	return b.String()
}
