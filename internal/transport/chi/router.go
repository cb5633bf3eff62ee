package chi

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/worldsearch/internal/metrics"
)

// RouterConfig holds HTTP surface settings.
type RouterConfig struct {
	APIKeys     []string
	CORSOrigins []string
	Compress    bool
	StaticDir   string
	IndexFile   string
	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
}

// NewRouter mounts every route and the middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(TracingMiddleware())
	r.Use(WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.HealthCheck)
	r.Get("/search", s.Search)

	r.Route("/admin/data", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(cfg.APIKeys))
		r.Get("/stats", s.Stats)
		r.Post("/generate", s.Generate)
		r.Delete("/clear", s.Clear)
		r.Post("/rebuild-indexes", s.RebuildIndexes)
	})

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	if cfg.StaticDir != "" {
		index := filepath.Join(cfg.StaticDir, cfg.IndexFile)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	if cfg.Compress {
		return gzhttp.GzipHandler(r)
	}
	return r
}
