package chi

import (
	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Records  *int64 `json:"records,omitempty"`
	Message  string `json:"message,omitempty"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Meta    searchMeta         `json:"meta"`
}

type searchResultItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
	MatchType   string  `json:"matchType"`
}

type searchMeta struct {
	QueryTimeMs int64  `json:"queryTimeMs"`
	ResultCount int    `json:"resultCount"`
	Query       string `json:"query"`
}

// searchErrorResponse is the search failure envelope.
type searchErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// adminResponse is the success envelope shared by every admin route.
type adminResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// adminErrorResponse is the failure envelope shared by admin routes and auth.
type adminErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type statsData struct {
	TotalRecords int64  `json:"totalRecords"`
	TableSize    string `json:"tableSize"`
	IndexSize    string `json:"indexSize"`
	TotalSize    string `json:"totalSize"`
}

type generateData struct {
	InsertedCount   int     `json:"insertedCount"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
}

type clearData struct {
	DeletedCount    int     `json:"deletedCount"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
	VacuumTimeMs    int64   `json:"vacuumTimeMs"`
	VacuumError     string  `json:"vacuumError,omitempty"`
}

type rebuildData struct {
	Status          string  `json:"status"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
}

func searchOutcomeToDTO(out searchuc.Outcome) searchResponse {
	items := make([]searchResultItem, len(out.Results))
	for i := range out.Results {
		items[i] = searchResultToDTO(&out.Results[i])
	}
	return searchResponse{
		Results: items,
		Meta: searchMeta{
			QueryTimeMs: out.QueryTime.Milliseconds(),
			ResultCount: len(items),
			Query:       out.Query,
		},
	}
}

func searchResultToDTO(r *result.Result) searchResultItem {
	return searchResultItem{
		Title:       r.Title(),
		Description: r.Description(),
		Similarity:  r.Similarity(),
		MatchType:   string(r.MatchType()),
	}
}
