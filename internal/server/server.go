// Package server serves processform pages over HTTP. Each browser session
// owns a bound page; the runtime script replays user events against it and
// swaps in the live regions that changed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "processform_session"
	// AssetsPrefix is where the runtime assets are mounted.
	AssetsPrefix = "/assets/"

	maxEventBytes = 64 << 10

	minPruneInterval = time.Second
)

// Options configures a Server.
type Options struct {
	Addr        string
	Title       string
	Slides      []orchestrator.Slide
	SessionTTL  time.Duration
	MaxSessions int
	Logger      *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// Server serves pages built by an orchestrator.
type Server struct {
	orch     *orchestrator.Orchestrator
	opts     Options
	logger   *slog.Logger
	sessions *sessionStore
	router   *chi.Mux
}

// New constructs a Server. A nil orchestrator builds pages that link the
// embedded stylesheet and runtime script.
func New(orch *orchestrator.Orchestrator, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxSessions < 1 {
		opts.MaxSessions = 1000
	}
	if orch == nil {
		renderer, err := vanilla.New(
			vanilla.WithStylesheet(AssetsPrefix+vanilla.StylesheetName),
			vanilla.WithScript(AssetsPrefix+vanilla.RuntimeScriptName),
		)
		if err != nil {
			return nil, fmt.Errorf("server: page renderer: %w", err)
		}
		orch = orchestrator.New(
			orchestrator.WithPageRenderer(renderer),
			orchestrator.WithLogger(opts.Logger),
		)
	}

	s := &Server{
		orch:     orch,
		opts:     opts,
		logger:   opts.Logger,
		sessions: newSessionStore(opts.SessionTTL, opts.MaxSessions, opts.now),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Post("/events", s.handleEvent)
	r.Handle(AssetsPrefix+"*", http.StripPrefix(AssetsPrefix, http.FileServerFS(vanilla.AssetsFS())))
	return r
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// pruneInterval is half the session TTL, never below minPruneInterval.
func (s *Server) pruneInterval() time.Duration {
	return max(s.opts.SessionTTL/2, minPruneInterval)
}

func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.pruneInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.prune(); n > 0 {
				s.logger.Debug("sessions expired", "count", n)
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.len()})
}

// handlePage builds a fresh page for every load, replacing any session the
// browser already had.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.orch.Build(r.Context(), orchestrator.Request{
		Title:  s.opts.Title,
		Slides: s.opts.Slides,
	})
	if err != nil {
		s.logger.Error("build page", "error", err)
		http.Error(w, "failed to build page", http.StatusInternalServerError)
		return
	}
	markup, err := page.HTML()
	if err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.remove(c.Value)
	}
	id, evicted := s.sessions.create(page)
	if evicted > 0 {
		s.logger.Debug("sessions evicted", "count", evicted)
	}

	s.setSessionCookie(w, r, id)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, markup)
}

// setSessionCookie issues the session cookie with a lifetime matching the
// session TTL. Events refresh it along with the session.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
		MaxAge:   max(int(s.opts.SessionTTL/time.Second), 1),
	})
}

type eventResponse struct {
	Regions map[string]string `json:"regions"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	sess, ok := s.sessions.get(c.Value)
	if !ok {
		writeJSON(w, http.StatusGone, map[string]string{"error": "session expired"})
		return
	}
	s.setSessionCookie(w, r, c.Value)

	var ev orchestrator.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event body"})
		return
	}

	sess.mu.Lock()
	regions, err := sess.page.Apply(ev)
	sess.mu.Unlock()

	switch {
	case errors.Is(err, orchestrator.ErrUnknownTarget), errors.Is(err, orchestrator.ErrUnsupportedEvent):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("apply event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "event failed"})
		return
	}

	s.logger.Debug("event applied", "target", ev.Target, "type", ev.Type, "regions", len(regions))
	writeJSON(w, http.StatusOK, eventResponse{Regions: regions})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
