// Package server serves a built PWA directory with the headers installable
// apps need, and answers deep links with index.html so the client router
// can take over.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vcrobe/nojs-pwa/assets"
	"github.com/vcrobe/nojs-pwa/manifest"
	"github.com/vcrobe/nojs-pwa/serviceworker"
)

// Cache-Control values.
const (
	CacheNoCache   = "no-cache"
	CacheImmutable = "public, max-age=31536000, immutable"
)

const (
	indexFile    = "index.html"
	manifestFile = "manifest.json"
)

// Options configures a Server.
type Options struct {
	Addr            string
	Metrics         bool
	WorkerScript    string // URL of the service worker, default serviceworker.DefaultScriptURL
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server serves one site directory.
type Server struct {
	site    fs.FS
	opts    Options
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router
}

// New returns a server for site, typically os.DirFS of the build output.
// A nil logger discards output.
func New(site fs.FS, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.WorkerScript == "" {
		opts.WorkerScript = serviceworker.DefaultScriptURL
	}
	s := &Server{site: site, opts: opts, logger: logger}
	if opts.Metrics {
		s.metrics = newMetrics()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	// HEAD reaches the GET handlers, as it does the fallback.
	r.Use(middleware.GetHead)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
		r.Handle("/metrics", s.metrics.handler())
	}

	r.Get("/"+manifestFile, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", manifest.ContentType)
		w.Header().Set("Cache-Control", CacheNoCache)
		s.serveFile(w, r, manifestFile)
	})
	// Service-Worker-Allowed widens the scope to the whole app wherever the
	// worker script lives.
	worker := s.opts.WorkerScript
	r.Get(worker, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Service-Worker-Allowed", "/")
		w.Header().Set("Cache-Control", CacheNoCache)
		s.serveFile(w, r, strings.TrimPrefix(worker, "/"))
	})
	r.Get("/"+assets.FileName, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", CacheNoCache)
		s.serveFile(w, r, assets.FileName)
	})
	// Everything under /static is content-hashed.
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		name := "static/" + chi.URLParam(r, "*")
		if path.Ext(name) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		w.Header().Set("Cache-Control", CacheImmutable)
		s.serveFile(w, r, name)
	})
	r.Get("/", s.serveIndex)
	r.NotFound(s.fallback)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// fallback serves other files in the site root (favicon, icons) and
// answers extension-less GET paths with index.html.
func (s *Server) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if path.Ext(name) == "" {
		if s.metrics != nil {
			s.metrics.fallback.Inc()
		}
		s.serveIndex(w, r)
		return
	}
	w.Header().Set("Cache-Control", CacheNoCache)
	s.serveFile(w, r, name)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", CacheNoCache)
	s.serveFile(w, r, indexFile)
}

// serveFile writes name from the site, or 404 when it is missing or a
// directory.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	if !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}
	f, err := s.site.Open(name)
	if err != nil {
		s.notFound(w, r, name, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.notFound(w, r, name, err)
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			s.logger.Error("read site file", "file", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	http.ServeContent(w, r, name, info.ModTime(), content)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, name string, err error) {
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("open site file", "file", name, "error", err)
	}
	// Headers set for the file must not leak onto the 404.
	w.Header().Del("Cache-Control")
	w.Header().Del("Content-Type")
	w.Header().Del("Service-Worker-Allowed")
	http.NotFound(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		ReadTimeout:       s.opts.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String(), "metrics", s.metrics != nil)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errc
	s.logger.Info("server stopped")
	return nil
}
