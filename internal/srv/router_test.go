package srv

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, showHidden bool) *Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secret"), []byte("nope"), 0o644))
	return &Config{Directory: dir, IndexFile: "index.html", ShowHidden: showHidden}
}

func TestStaticFileHandler_ServesIndexForDirectory(t *testing.T) {
	cfg := newTestConfig(t, false)
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "hello", w.Body.String())
}

func TestStaticFileHandler_HidesDotfilesByDefault(t *testing.T) {
	cfg := newTestConfig(t, false)
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/.secret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticFileHandler_ShowsDotfilesWhenEnabled(t *testing.T) {
	cfg := newTestConfig(t, true)
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/.secret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "nope", w.Body.String())
}

func TestCORSMiddleware_PreflightShortCircuits(t *testing.T) {
	cfg := newTestConfig(t, false)
	cfg.EnableCORS = true
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NoCORSHeaderWhenDisabled(t *testing.T) {
	cfg := newTestConfig(t, false)
	cfg.EnableCORS = false
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
