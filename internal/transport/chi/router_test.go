package chi

import (
	"compress/gzip"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_AdminAuthOnlyOnAdminRoutes(t *testing.T) {
	env := newTestEnv(t, RouterConfig{APIKeys: []string{"secret"}})

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/search?q=", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/metrics", "").Code)

	rr := env.do(http.MethodGet, "/admin/data/stats", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized","message":"missing authorization header"}`, rr.Body.String())

	rr = env.do(http.MethodGet, "/admin/data/stats", "", "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})

	assert.Equal(t, http.StatusMethodNotAllowed, env.do(http.MethodGet, "/admin/data/clear", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(http.MethodPost, "/search", "").Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	env := newTestEnv(t, RouterConfig{})

	rr := env.do(http.MethodGet, "/health", "", "X-Request-Id", "req-123")
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
}

func TestRouter_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>worlds</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	env := newTestEnv(t, RouterConfig{StaticDir: dir, IndexFile: "index.html"})

	rr := env.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>worlds</h1>")

	rr = env.do(http.MethodGet, "/static/app.js", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	env := newTestEnv(t, RouterConfig{CORSOrigins: []string{"https://worlds.example"}})

	rr := env.do(http.MethodGet, "/health", "", "Origin", "https://worlds.example")
	assert.Equal(t, "https://worlds.example", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = env.do(http.MethodGet, "/health", "", "Origin", "https://evil.example")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Gzip(t *testing.T) {
	dir := t.TempDir()
	page := "<html>" + strings.Repeat("fuzzy worlds ", 200) + "</html>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o600))

	env := newTestEnv(t, RouterConfig{Compress: true, StaticDir: dir, IndexFile: "index.html"})

	rr := env.do(http.MethodGet, "/", "", "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, page, string(got))
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(nopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	env := &testEnv{router: h}
	rr := env.do(http.MethodGet, "/search?q=x", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rr.Body.String())
}
