// Package server serves a built site for local preview.
package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Config holds the preview handler options.
type Config struct {
	Dir      string
	BasePath string
	Log      *zap.Logger
}

// New constructs the HTTP server listening on address.
func New(address string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              address,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Live forwards requests to the handler most recently passed to Set. It lets
// a running server pick up a rebuilt router.
type Live struct {
	h atomic.Pointer[http.Handler]
}

func NewLive(h http.Handler) *Live {
	l := &Live{}
	l.Set(h)
	return l
}

func (l *Live) Set(h http.Handler) {
	l.h.Store(&h)
}

func (l *Live) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*l.h.Load()).ServeHTTP(w, r)
}

// Handler routes requests under BasePath to the files in Dir.
func Handler(cfg Config) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(noCache)

	files := &fileHandler{dir: cfg.Dir}
	base := strings.TrimSuffix(cfg.BasePath, "/")
	if base == "" {
		router.Handle("/*", files)
		return router
	}
	router.Handle(base+"/*", http.StripPrefix(base, files))
	router.Handle(base, http.RedirectHandler(base+"/", http.StatusMovedPermanently))
	return router
}

// fileHandler serves pretty URLs: /docs/faq maps to docs/faq/index.html.
// Unknown paths get 404.html with a 404 status.
type fileHandler struct {
	dir string
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	candidates := []string{name}
	if !strings.Contains(path.Base(name), ".") {
		candidates = []string{path.Join(name, "index.html"), name + ".html"}
	}
	for _, c := range candidates {
		p := filepath.Join(h.dir, filepath.FromSlash(c))
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, p)
			return
		}
	}

	notFound, err := os.ReadFile(filepath.Join(h.dir, "404.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(notFound)
}

// noCache sets headers to prevent caching during development.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.Int("bytes", ww.BytesWritten()),
			}
			if status >= http.StatusInternalServerError {
				log.Error("request completed", fields...)
			} else {
				log.Debug("request completed", fields...)
			}
		})
	}
}
