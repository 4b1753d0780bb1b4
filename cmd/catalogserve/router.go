package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	galleryimage "gallery/internal/image"
	"gallery/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const catalogFile = "products.json"

// Options configures the catalog routes.
type Options struct {
	Dir   string
	Delay time.Duration
}

// NewRouter serves the catalog at /products.json and the supported image
// files below Dir.
func NewRouter(opts Options, logger *zap.Logger) http.Handler {
	logger = logging.OrNop(logger)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/"+catalogFile, func(w http.ResponseWriter, req *http.Request) {
		if opts.Delay > 0 {
			select {
			case <-time.After(opts.Delay):
			case <-req.Context().Done():
				return
			}
		}
		data, err := os.ReadFile(filepath.Join(opts.Dir, catalogFile))
		if err != nil {
			logger.Warn("catalog unreadable", zap.Error(err))
			http.Error(w, "catalog unavailable", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	})

	files := http.FileServer(http.Dir(opts.Dir))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		clean := path.Clean("/" + chi.URLParam(req, "*"))
		if strings.Contains(clean, "/.") || !galleryimage.IsSupportedFormat(clean) {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=60")
		files.ServeHTTP(w, req)
	})
	return r
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)))
		})
	}
}
