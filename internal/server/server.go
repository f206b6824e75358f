// Package server exposes canvases and presence over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/canvases/{id}
//	PATCH  /api/canvases/{id}
//	GET    /api/canvases/{id}/presence
//	POST   /api/canvases/{id}/presence
//	DELETE /api/canvases/{id}/presence
//	GET    /api/canvases/{id}/presence/ws
//
// The server does no authentication. The caller's identity is taken from
// the X-User-ID and X-User-Name headers set by an upstream gateway.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/presence"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Options configures a [Server]. Canvases and Presence are required.
type Options struct {
	Canvases persist.Store
	Presence presence.Store

	// Freshness is the activity window applied to presence lists.
	Freshness time.Duration
	// Interval is the push period of the websocket presence feed.
	Interval time.Duration

	Now    func() time.Time
	Logger *log.Logger
}

// Server serves the artboard HTTP API.
type Server struct {
	canvases  persist.Store
	presence  presence.Store
	freshness time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *log.Logger
	feeds     *feeds
	router    chi.Router
}

// New returns a server. Zero durations select the presence defaults.
func New(opts Options) *Server {
	s := &Server{
		canvases:  opts.Canvases,
		presence:  opts.Presence,
		freshness: opts.Freshness,
		interval:  opts.Interval,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if s.freshness <= 0 {
		s.freshness = presence.Freshness
	}
	if s.interval <= 0 {
		s.interval = presence.PollInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.feeds = newFeeds(s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/canvases/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetCanvas)
		r.Patch("/", s.handleSaveCanvas)
		r.Route("/presence", func(r chi.Router) {
			r.Get("/", s.handleListPresence)
			r.Post("/", s.handleUpsertPresence)
			r.Delete("/", s.handleDeletePresence)
			r.Get("/ws", s.handlePresenceFeed)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within timeout and closes open presence feeds.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.feeds.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
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
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
