// Package server exposes the calculators over HTTP: an HTML form at / and a
// JSON API under /api, with per-visitor results kept in a session store.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/emissionmission/internal/assistant"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/refdata"
	"github.com/rshade/emissionmission/internal/session"
)

// Defaults applied to zero Options fields.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCleanupInterval = time.Minute
)

// Options configures a Server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CleanupInterval time.Duration

	// Store holds per-visitor results. Nil creates one with the default TTL.
	Store *session.Store
	// Assistant answers /api/chat. Nil uses the offline responder.
	Assistant assistant.Responder
	// Dataset supplies state averages and coordinates. Nil uses the embedded one.
	Dataset *refdata.Dataset
	// ReportAuthor is stamped on exported PDFs.
	ReportAuthor string
	// SecureCookies sets the Secure flag on the session cookie.
	SecureCookies bool

	Logger zerolog.Logger
	Now    func() time.Time
}

// Server serves the web form and API.
type Server struct {
	opts    Options
	store   *session.Store
	chat    assistant.Responder
	data    *refdata.Dataset
	issues  []refdata.Issue
	log     zerolog.Logger
	page    *template.Template
	handler http.Handler
}

// New builds a Server. It validates the reference data once and logs every
// issue as a warning.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:  opts,
		store: opts.Store,
		chat:  opts.Assistant,
		data:  opts.Dataset,
		log:   logging.ComponentLogger(opts.Logger, "server"),
	}
	if s.store == nil {
		s.store = session.NewStore(nil)
	}
	if s.chat == nil {
		s.chat = assistant.NewStatic()
	}
	if s.data == nil {
		s.data = refdata.Default()
	}

	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	s.page = page

	s.issues = s.data.Validate()
	for _, issue := range s.issues {
		s.log.Warn().Str("state", issue.State).Str("kind", string(issue.Kind)).
			Msg("reference data issue")
	}

	s.handler = s.withLogging(s.routes())
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /calculate", s.handleFormCalculate)
	mux.HandleFunc("POST /api/emissions", s.handleEmissions)
	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/savings", s.handleSavings)
	mux.HandleFunc("GET /api/states", s.handleStates)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/report.pdf", s.handleReport)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("DELETE /api/session", s.handleEndSession)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Issues returns the reference data issues found at startup.
func (s *Server) Issues() []refdata.Issue {
	return append([]refdata.Issue(nil), s.issues...)
}

// Run listens on Options.Addr until ctx is cancelled, then shuts down
// gracefully. The session janitor runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.log.WithContext(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.store.RunJanitor(s.log.WithContext(gctx), s.opts.CleanupInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Dur("timeout", s.opts.ShutdownTimeout).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
