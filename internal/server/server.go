package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/cors"

	"github.com/wcatz/widget-layout/internal/config"
	"github.com/wcatz/widget-layout/internal/session"
)

// Options configures a Server.
type Options struct {
	Session *session.Controller
	Hub     *Hub
	// Static holds the stylesheet under static/.
	Static fs.FS
	// Store, when set, persists templates replaced through the API.
	Store          *config.TemplateStore
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server exposes a layout session over HTTP.
type Server struct {
	session  *session.Controller
	hub      *Hub
	store    *config.TemplateStore
	widths   *session.WidthFeed
	origins  []string
	logger   *slog.Logger
	staticFS http.FileSystem
	mux      *http.ServeMux
	handler  http.Handler
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Session == nil {
		return nil, errors.New("server: session is required")
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Logger)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		session: opts.Session,
		hub:     opts.Hub,
		store:   opts.Store,
		widths:  session.NewWidthFeed(),
		origins: opts.AllowedOrigins,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	if opts.Static != nil {
		staticSub, err := fs.Sub(opts.Static, "static")
		if err != nil {
			return nil, fmt.Errorf("creating static FS: %w", err)
		}
		s.staticFS = http.FS(staticSub)
	}

	// released when the session closes
	if _, err := s.session.Attach(s.widths); err != nil {
		return nil, fmt.Errorf("attaching width feed: %w", err)
	}

	s.registerRoutes()
	s.handler = newCORS(s.origins).Handler(s.mux)
	return s, nil
}

func newCORS(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts)
}

// originPatterns turns allowed origins into host patterns for the
// websocket origin check.
func originPatterns(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}

// Hub returns the event hub fed by the session callbacks.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Widths returns the feed that relays measured container widths to the
// session.
func (s *Server) Widths() *session.WidthFeed {
	return s.widths
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
