package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

type mockSearch struct {
	searchFn func(ctx context.Context, raw string) (searchuc.Outcome, error)
	calls    []string
}

func (m *mockSearch) Search(ctx context.Context, raw string) (searchuc.Outcome, error) {
	m.calls = append(m.calls, raw)
	if m.searchFn != nil {
		return m.searchFn(ctx, raw)
	}
	return searchuc.Outcome{}, nil
}

type mockAdmin struct {
	statsFn    func(ctx context.Context) (stats.Snapshot, error)
	generateFn func(ctx context.Context, count int) (domadmin.GenerateResult, error)
	clearFn    func(ctx context.Context) (domadmin.ClearResult, error)
	rebuildFn  func(ctx context.Context) (domadmin.RebuildResult, error)
	generated  []int
}

func (m *mockAdmin) Stats(ctx context.Context) (stats.Snapshot, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return stats.Snapshot{}, nil
}

func (m *mockAdmin) Generate(ctx context.Context, count int) (domadmin.GenerateResult, error) {
	m.generated = append(m.generated, count)
	if m.generateFn != nil {
		return m.generateFn(ctx, count)
	}
	return domadmin.NewGenerateResult(count, 1.5), nil
}

func (m *mockAdmin) Clear(ctx context.Context) (domadmin.ClearResult, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return domadmin.NewClearResult(0, 0, 0, nil), nil
}

func (m *mockAdmin) RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error) {
	if m.rebuildFn != nil {
		return m.rebuildFn(ctx)
	}
	return domadmin.NewRebuildResult("completed", 1), nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testEnv struct {
	search *mockSearch
	admin  *mockAdmin
	health *mockHealth
	router http.Handler
}

func newTestEnv(t *testing.T, cfg RouterConfig) *testEnv {
	t.Helper()
	env := &testEnv{
		search: &mockSearch{},
		admin:  &mockAdmin{},
		health: &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Database: healthuc.Connected}},
	}
	srv := NewServer(env.search, env.admin, env.health, nil)
	env.router = NewRouter(srv, cfg, srv.logger)
	return env
}

func (e *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func nopLogger() *zap.Logger { return zap.NewNop() }
