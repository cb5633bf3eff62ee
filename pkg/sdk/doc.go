// Package worldsearch provides a Go client for fuzzy title search over a
// PostgreSQL worlds table indexed with pg_trgm.
//
// Search ranks matches in four tiers, best first: case-insensitive prefix,
// trigram similarity, word similarity and substring containment.
//
//	client, _ := worldsearch.New(ctx,
//	    worldsearch.WithDatabase("localhost", 5432, "testdb", "postgres", "secret"),
//	)
//	defer client.Close()
//
//	_ = client.Migrate(ctx)
//	_, _ = client.Generate(ctx, 10000)
//	res, _ := client.Search(ctx, "crystal")
//	for _, r := range res.Results {
//	    fmt.Println(r.Title, r.MatchType, r.Similarity)
//	}
package worldsearch
