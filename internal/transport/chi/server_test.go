package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain"
	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/match"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/query"
	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

// --- /health ---

func TestHealthCheck_OK(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.health.report = healthuc.Report{Status: healthuc.Healthy, Database: healthuc.Connected, Records: 0}

	rr := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","database":"connected","records":0}`, rr.Body.String())
}

func TestHealthCheck_Down(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.health.report = healthuc.Report{
		Status:   healthuc.Unhealthy,
		Database: healthuc.Disconnected,
		Err:      &db.Error{Op: db.OpCount, Err: errors.New("dial tcp: connection refused")},
	}

	rr := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":"error","message":"dial tcp: connection refused"}`, rr.Body.String())
}

// --- /search ---

func TestSearch_BlankQuery(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})

	rr := env.do(http.MethodGet, "/search", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[],"meta":{"queryTimeMs":0,"resultCount":0,"query":""}}`, rr.Body.String())
	assert.Equal(t, []string{""}, env.search.calls)
}

func TestSearch_Results(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.search.searchFn = func(_ context.Context, raw string) (searchuc.Outcome, error) {
		return searchuc.Outcome{
			Results: []result.Result{
				result.New(1, "Crystal Realm", "A world of twin suns", 1.23456, match.ExactPrefix),
				result.New(2, "Crystals", "", 0.5, match.Contains),
			},
			QueryTime: 12 * time.Millisecond,
			Query:     strings.TrimSpace(raw),
		}, nil
	}

	rr := env.do(http.MethodGet, "/search?q="+url.QueryEscape(" crystal "), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{" crystal "}, env.search.calls)
	assert.JSONEq(t, `{
		"results": [
			{"title":"Crystal Realm","description":"A world of twin suns","similarity":1.235,"matchType":"exact_prefix"},
			{"title":"Crystals","description":"","similarity":0.5,"matchType":"contains"}
		],
		"meta": {"queryTimeMs":12,"resultCount":2,"query":"crystal"}
	}`, rr.Body.String())
}

func TestSearch_InvalidQuery(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.search.searchFn = func(context.Context, string) (searchuc.Outcome, error) {
		return searchuc.Outcome{}, domain.ErrInvalidQuery
	}

	rr := env.do(http.MethodGet, "/search?q=x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// countingRepo is a search repository that records what reaches the backend.
type countingRepo struct {
	forwarded []string
}

func (r *countingRepo) Fuzzy(_ context.Context, q query.Query, _ float64, _ int) ([]result.Result, error) {
	r.forwarded = append(r.forwarded, q.Text())
	return []result.Result{}, nil
}

func TestSearch_MalformedTextRejectedBeforeBackend(t *testing.T) {
	repo := &countingRepo{}
	srv := NewServer(searchuc.New(repo, domain.DefaultSearchConfig()), &mockAdmin{}, &mockHealth{}, nil)
	router := NewRouter(srv, RouterConfig{}, srv.logger)

	for _, target := range []string{"/search?q=%FF%FE", "/search?q=ab%00cd"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))

		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		body := decode[searchErrorResponse](t, rr.Body.Bytes())
		assert.Equal(t, "Invalid query", body.Error, target)
	}
	assert.Empty(t, repo.forwarded, "malformed text must not reach the backend")
}

func TestSearch_BackendError(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.search.searchFn = func(context.Context, string) (searchuc.Outcome, error) {
		return searchuc.Outcome{}, &db.Error{Op: db.OpSearch, Err: errors.New("function similarity(text, unknown) does not exist")}
	}

	rr := env.do(http.MethodGet, "/search?q=x", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decode[searchErrorResponse](t, rr.Body.Bytes())
	assert.Equal(t, "Search failed", body.Error)
	assert.Equal(t, "function similarity(text, unknown) does not exist", body.Message)
}

// --- /admin/data/stats ---

func TestStats_OK(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.statsFn = func(context.Context) (stats.Snapshot, error) {
		return stats.New(100, "16 kB", "32 kB", "48 kB"), nil
	}

	rr := env.do(http.MethodGet, "/admin/data/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"totalRecords":100,"tableSize":"16 kB","indexSize":"32 kB","totalSize":"48 kB"}}`,
		rr.Body.String())
}

func TestStats_Error(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.statsFn = func(context.Context) (stats.Snapshot, error) {
		return stats.Snapshot{}, errors.New("boom")
	}

	rr := env.do(http.MethodGet, "/admin/data/stats", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to get stats","message":"boom"}`, rr.Body.String())
}

// --- /admin/data/generate ---

func TestGenerate_Counts(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantCount int
	}{
		{"no body", "", http.StatusOK, 10000},
		{"empty object", `{}`, http.StatusOK, 10000},
		{"null count", `{"count":null}`, http.StatusOK, 10000},
		{"integer", `{"count":500}`, http.StatusOK, 500},
		{"numeric string", `{"count":"750"}`, http.StatusOK, 750},
		{"min", `{"count":1}`, http.StatusOK, 1},
		{"max", `{"count":1000000}`, http.StatusOK, 1000000},
		{"zero", `{"count":0}`, http.StatusBadRequest, 0},
		{"negative", `{"count":-5}`, http.StatusBadRequest, 0},
		{"too many", `{"count":1000001}`, http.StatusBadRequest, 0},
		{"word", `{"count":"abc"}`, http.StatusBadRequest, 0},
		{"integral decimal", `{"count":500.0}`, http.StatusOK, 500},
		{"exponent", `{"count":5e2}`, http.StatusOK, 500},
		{"max as exponent", `{"count":1e6}`, http.StatusOK, 1000000},
		{"fraction", `{"count":10.5}`, http.StatusBadRequest, 0},
		{"small fraction", `{"count":1.5}`, http.StatusBadRequest, 0},
		{"huge exponent", `{"count":1e300}`, http.StatusBadRequest, 0},
		{"decimal string", `{"count":"500.0"}`, http.StatusBadRequest, 0},
		{"bool", `{"count":true}`, http.StatusBadRequest, 0},
		{"malformed json", `{"count":`, http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, RouterConfig{})

			rr := env.do(http.MethodPost, "/admin/data/generate", tc.body)
			require.Equal(t, tc.wantCode, rr.Code, "body: %s", rr.Body.String())

			if tc.wantCode == http.StatusOK {
				assert.Equal(t, []int{tc.wantCount}, env.admin.generated)
				return
			}
			assert.Empty(t, env.admin.generated, "no side effect on invalid input")
			body := decode[adminErrorResponse](t, rr.Body.Bytes())
			assert.False(t, body.Success)
		})
	}
}

func TestGenerate_InvalidCountEnvelope(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})

	rr := env.do(http.MethodPost, "/admin/data/generate", `{"count":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid count. Must be between 1 and 1,000,000"}`, rr.Body.String())
}

func TestGenerate_OK(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.generateFn = func(_ context.Context, n int) (domadmin.GenerateResult, error) {
		return domadmin.NewGenerateResult(n, 123.456), nil
	}

	rr := env.do(http.MethodPost, "/admin/data/generate", `{"count":500}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"insertedCount":500,"executionTimeMs":123.46}}`, rr.Body.String())
}

func TestGenerate_Conflict(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.generateFn = func(context.Context, int) (domadmin.GenerateResult, error) {
		return domadmin.GenerateResult{}, domain.ErrMaintenanceInProgress
	}

	rr := env.do(http.MethodPost, "/admin/data/generate", `{"count":5}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Maintenance operation in progress"}`, rr.Body.String())
}

func TestGenerate_BackendError(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.generateFn = func(context.Context, int) (domadmin.GenerateResult, error) {
		return domadmin.GenerateResult{}, errors.New("could not extend file")
	}

	rr := env.do(http.MethodPost, "/admin/data/generate", `{"count":5}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to generate data","message":"could not extend file"}`, rr.Body.String())
}

// --- /admin/data/clear ---

func TestClear_OK(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.clearFn = func(context.Context) (domadmin.ClearResult, error) {
		return domadmin.NewClearResult(250, 10.556, 42, nil), nil
	}

	rr := env.do(http.MethodDelete, "/admin/data/clear", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"deletedCount":250,"executionTimeMs":10.56,"vacuumTimeMs":42}}`, rr.Body.String())
}

func TestClear_VacuumFailureReported(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.clearFn = func(context.Context) (domadmin.ClearResult, error) {
		return domadmin.NewClearResult(3, 1, 5, &db.Error{Op: db.OpVacuum, Err: errors.New("canceled")}), nil
	}

	rr := env.do(http.MethodDelete, "/admin/data/clear", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"deletedCount":3,"executionTimeMs":1,"vacuumTimeMs":5,"vacuumError":"canceled"}}`,
		rr.Body.String())
}

func TestClear_Error(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.clearFn = func(context.Context) (domadmin.ClearResult, error) {
		return domadmin.ClearResult{}, errors.New("deadlock detected")
	}

	rr := env.do(http.MethodDelete, "/admin/data/clear", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to clear data","message":"deadlock detected"}`, rr.Body.String())
}

// --- /admin/data/rebuild-indexes ---

func TestRebuildIndexes_OK(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})

	rr := env.do(http.MethodPost, "/admin/data/rebuild-indexes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"completed","executionTimeMs":1}}`, rr.Body.String())
}

func TestRebuildIndexes_Error(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})
	env.admin.rebuildFn = func(context.Context) (domadmin.RebuildResult, error) {
		return domadmin.RebuildResult{}, errors.New("out of memory")
	}

	rr := env.do(http.MethodPost, "/admin/data/rebuild-indexes", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to rebuild indexes","message":"out of memory"}`, rr.Body.String())
}

// --- helpers ---

func TestCauseMessage(t *testing.T) {
	assert.Equal(t, "", causeMessage(nil))
	assert.Equal(t, "root", causeMessage(errors.New("root")))
	wrapped := &db.Error{Op: db.OpStats, Err: errors.New("root")}
	assert.Equal(t, "root", causeMessage(wrapped))
}
