package srv

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/devrs/devrs/internal/log"
)

// NewRouter builds the HTTP handler for cfg: a single static-file route
// mounted at "/", with structured request logging always on and CORS
// wired in only when cfg.EnableCORS is set.
func NewRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	if cfg.EnableCORS {
		r.Use(CORSMiddleware)
	}
	r.Handle("/*", staticFileHandler{cfg: cfg})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// staticFileHandler serves cfg.Directory, excluding hidden files (any path
// segment beginning with ".") unless cfg.ShowHidden is set, and resolving
// cfg.IndexFile when a directory is requested.
type staticFileHandler struct {
	cfg *Config
}

func (h staticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cleaned := path.Clean("/" + r.URL.Path)
	if !h.cfg.ShowHidden && containsHiddenSegment(cleaned) {
		http.NotFound(w, r)
		return
	}

	fsPath := filepath.Join(h.cfg.Directory, filepath.FromSlash(cleaned))

	info, err := os.Stat(fsPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if info.IsDir() {
		indexPath := filepath.Join(fsPath, h.cfg.IndexFile)
		indexInfo, err := os.Stat(indexPath)
		if err != nil || indexInfo.IsDir() {
			http.Error(w, "directory listing not available", http.StatusForbidden)
			return
		}
		fsPath = indexPath
		info = indexInfo
	}

	f, err := os.Open(fsPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func containsHiddenSegment(cleanedPath string) bool {
	for _, segment := range strings.Split(cleanedPath, "/") {
		if strings.HasPrefix(segment, ".") && segment != "" {
			return true
		}
	}
	return false
}
