package worldsearch

import (
	"context"

	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	"github.com/kailas-cloud/worldsearch/internal/domain/stats"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/worldsearch/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, raw string) (searchuc.Outcome, error)
}

func (m *mockSearchUC) Search(ctx context.Context, raw string) (searchuc.Outcome, error) {
	return m.searchFn(ctx, raw)
}

// --- adminUseCase mock ---

type mockAdminUC struct {
	statsFn    func(ctx context.Context) (stats.Snapshot, error)
	generateFn func(ctx context.Context, count int) (domadmin.GenerateResult, error)
	clearFn    func(ctx context.Context) (domadmin.ClearResult, error)
	rebuildFn  func(ctx context.Context) (domadmin.RebuildResult, error)
}

func (m *mockAdminUC) Stats(ctx context.Context) (stats.Snapshot, error) {
	return m.statsFn(ctx)
}

func (m *mockAdminUC) Generate(ctx context.Context, count int) (domadmin.GenerateResult, error) {
	return m.generateFn(ctx, count)
}

func (m *mockAdminUC) Clear(ctx context.Context) (domadmin.ClearResult, error) {
	return m.clearFn(ctx)
}

func (m *mockAdminUC) RebuildIndexes(ctx context.Context) (domadmin.RebuildResult, error) {
	return m.rebuildFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(searchSvc searchUseCase, adminSvc adminUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		searchSvc: searchSvc,
		adminSvc:  adminSvc,
		healthSvc: healthSvc,
	}
}
