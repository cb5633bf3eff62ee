package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/worldsearch/internal/domain"
	domadmin "github.com/kailas-cloud/worldsearch/internal/domain/admin"
	logpkg "github.com/kailas-cloud/worldsearch/internal/logger"
	"github.com/kailas-cloud/worldsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/worldsearch/internal/usecase/health"
)

// maxGenerateBody caps the generate request body.
const maxGenerateBody = 1 << 10

// Admin failure labels.
const (
	labelStats    = "Failed to get stats"
	labelGenerate = "Failed to generate data"
	labelClear    = "Failed to clear data"
	labelRebuild  = "Failed to rebuild indexes"
	labelSearch   = "Search failed"
)

var errInvalidBody = errors.New("invalid request body")

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        SearchService
	admin         AdminService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, admin AdminService, health HealthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search: search,
		admin:  admin,
		health: health,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrInvalidCount, http.StatusBadRequest),
			sentinelHandler(errInvalidBody, http.StatusBadRequest),
			sentinelHandler(domain.ErrMaintenanceInProgress, http.StatusConflict),
		},
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	if report.Status != healthuc.Healthy {
		logpkg.FromContext(r.Context(), s.logger).Warn("Health check failed", zap.Error(report.Err))
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status:  string(report.Status),
			Message: causeMessage(report.Err),
		})
		return
	}

	records := report.Records
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   string(report.Status),
		Database: string(report.Database),
		Records:  &records,
	})
}

// Search handles GET /search?q=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeJSON(w, http.StatusBadRequest, searchErrorResponse{Error: "Invalid query", Message: err.Error()})
		return
	}
	raw := ""
	if q != nil {
		raw = *q
	}

	out, err := s.search.Search(r.Context(), raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			writeJSON(w, http.StatusBadRequest, searchErrorResponse{Error: "Invalid query", Message: err.Error()})
			return
		}
		logpkg.FromContext(r.Context(), s.logger).Error("Search failed", zap.String("query", raw), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, searchErrorResponse{Error: labelSearch, Message: causeMessage(err)})
		return
	}

	if out.Query != "" {
		metrics.SearchQueryDuration.Observe(out.QueryTime.Seconds())
		if len(out.Results) == 0 {
			metrics.SearchEmptyTotal.Inc()
		}
		for i := range out.Results {
			metrics.SearchResultsTotal.WithLabelValues(string(out.Results[i].MatchType())).Inc()
		}
	}

	writeJSON(w, http.StatusOK, searchOutcomeToDTO(out))
}

// Stats handles GET /admin/data/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.admin.Stats(r.Context())
	if err != nil {
		s.handleAdminError(w, r, labelStats, err)
		return
	}

	writeAdmin(w, statsData{
		TotalRecords: snap.TotalRecords(),
		TableSize:    snap.TableSize(),
		IndexSize:    snap.IndexSize(),
		TotalSize:    snap.TotalSize(),
	})
}

// Generate handles POST /admin/data/generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	count, err := parseGenerateCount(http.MaxBytesReader(w, r.Body, maxGenerateBody))
	if err != nil {
		s.handleAdminError(w, r, labelGenerate, err)
		return
	}

	res, err := s.admin.Generate(r.Context(), count)
	if err != nil {
		s.handleAdminError(w, r, labelGenerate, err)
		return
	}

	writeAdmin(w, generateData{
		InsertedCount:   res.InsertedCount(),
		ExecutionTimeMs: res.ExecutionTimeMs(),
	})
}

// Clear handles DELETE /admin/data/clear.
func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	res, err := s.admin.Clear(r.Context())
	if err != nil {
		s.handleAdminError(w, r, labelClear, err)
		return
	}

	data := clearData{
		DeletedCount:    res.DeletedCount(),
		ExecutionTimeMs: res.ExecutionTimeMs(),
		VacuumTimeMs:    res.VacuumTimeMs(),
	}
	if res.VacuumErr() != nil {
		data.VacuumError = causeMessage(res.VacuumErr())
	}
	writeAdmin(w, data)
}

// RebuildIndexes handles POST /admin/data/rebuild-indexes.
func (s *Server) RebuildIndexes(w http.ResponseWriter, r *http.Request) {
	res, err := s.admin.RebuildIndexes(r.Context())
	if err != nil {
		s.handleAdminError(w, r, labelRebuild, err)
		return
	}

	writeAdmin(w, rebuildData{
		Status:          res.Status(),
		ExecutionTimeMs: res.ExecutionTimeMs(),
	})
}

// parseGenerateCount reads {"count": n}. A missing body, missing count or null count yields the
// default. count may be a JSON number with an integral value (500, 500.0, 5e2) or a
// decimal-integer string.
func parseGenerateCount(body io.Reader) (int, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domadmin.DefaultGenerateCount, nil
	}

	var req struct {
		Count json.RawMessage `json:"count"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	raw := bytes.TrimSpace(req.Count)
	if len(raw) == 0 || string(raw) == "null" {
		return domadmin.DefaultGenerateCount, nil
	}

	var n int
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, domain.ErrInvalidCount
		}
		if n, err = strconv.Atoi(strings.TrimSpace(text)); err != nil {
			return 0, domain.ErrInvalidCount
		}
	} else {
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.Trunc(f) != f {
			return 0, domain.ErrInvalidCount
		}
		// Range check before the conversion so huge exponents cannot overflow int.
		if f < domadmin.MinGenerateCount || f > domadmin.MaxGenerateCount {
			return 0, domain.ErrInvalidCount
		}
		n = int(f)
	}
	if err := domadmin.ValidateCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAdmin(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, adminResponse{Success: true, Data: data})
}

func writeAdminError(w http.ResponseWriter, status int, label, message string) {
	writeJSON(w, status, adminErrorResponse{Success: false, Error: label, Message: message})
}

// sentinelHandler returns an errorHandler that answers with the sentinel's own text as the label.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := ""
		if err.Error() != sentinel.Error() {
			msg = err.Error()
		}
		writeAdminError(w, status, capitalize(sentinel.Error()), msg)
		return true
	}
}

func (s *Server) handleAdminError(w http.ResponseWriter, r *http.Request, label string, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	logpkg.FromContext(r.Context(), s.logger).Error(label, zap.Error(err))
	writeAdminError(w, http.StatusInternalServerError, label, causeMessage(err))
}

// causeMessage returns the innermost error text, which is the backend's own message.
func causeMessage(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
