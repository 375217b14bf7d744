// Package server exposes the repository sequencer as a small JSON API.
//
// Every handler is a thin shell: it decodes the request, calls exactly one
// sequencer operation, and encodes the outcome. Operation failures are
// reported with HTTP 200 and success=false; malformed requests get 400 and a
// busy repository gets 409.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/gitmate/internal/constants"
	"github.com/mrz1836/gitmate/internal/repository"
)

// RequestIDHeader carries the per-request id in responses.
const RequestIDHeader = "X-Request-Id"

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 5 * time.Second

// Repository is the set of sequencer operations the API exposes.
type Repository interface {
	Root() string
	CheckInstallation(ctx context.Context) (*repository.Installation, error)
	State(ctx context.Context) (*repository.State, error)
	Initialize(ctx context.Context, req repository.InitRequest) *repository.Outcome
	Stage(ctx context.Context, req repository.StageRequest) *repository.Outcome
	CommitStaged(ctx context.Context, req repository.CommitRequest) *repository.Outcome
	History(ctx context.Context, limit int, detailed bool) ([]string, error)
	Branches(ctx context.Context) (*repository.BranchList, error)
	CreateBranch(ctx context.Context, name string) *repository.Outcome
	SwitchBranch(ctx context.Context, target string) *repository.Outcome
	Publish(ctx context.Context, req repository.PublishRequest) *repository.Outcome
	Push(ctx context.Context, req repository.PushRequest) *repository.Outcome
	Pull(ctx context.Context) *repository.Outcome
	QuickBackup(ctx context.Context) *repository.Outcome
}

var _ Repository = (*repository.Sequencer)(nil)

// Server serves the JSON API for one repository.
type Server struct {
	repo         Repository
	logger       zerolog.Logger
	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
	historyLimit int
	identity     repository.InitRequest
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithTimeouts sets the read and write timeouts. Zero values keep the defaults.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// WithHistoryLimit sets the limit used when /api/history has no limit parameter.
func WithHistoryLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithDefaultIdentity sets the identity applied by /api/init when the
// request body names none.
func WithDefaultIdentity(name, email string) Option {
	return func(s *Server) {
		s.identity = repository.InitRequest{Name: name, Email: email}
	}
}

// New creates a Server for repo.
func New(repo Repository, opts ...Option) *Server {
	s := &Server{
		repo:         repo,
		logger:       zerolog.Nop(),
		addr:         constants.DefaultServerAddr,
		readTimeout:  constants.DefaultServerReadTimeout,
		writeTimeout: constants.DefaultServerWriteTimeout,
		historyLimit: constants.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed API wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/init", s.handleInit)
	mux.HandleFunc("POST /api/add", s.handleAdd)
	mux.HandleFunc("POST /api/commit", s.handleCommit)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/branches", s.handleBranches)
	mux.HandleFunc("POST /api/branch/create", s.handleCreateBranch)
	mux.HandleFunc("POST /api/branch/switch", s.handleSwitchBranch)
	mux.HandleFunc("POST /api/remote/setup", s.handleRemoteSetup)
	mux.HandleFunc("POST /api/push", s.handlePush)
	mux.HandleFunc("POST /api/pull", s.handlePull)
	mux.HandleFunc("POST /api/backup", s.handleBackup)

	return chain(mux,
		hlog.NewHandler(s.logger),
		requestID,
		hlog.RemoteAddrHandler("remote_addr"),
		hlog.MethodHandler("method"),
		hlog.URLHandler("url"),
		hlog.AccessHandler(logAccess),
	)
}

// Run listens on the configured address until ctx ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("repository", s.repo.Root()).
			Msg("api server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info().Msg("api server stopped")
		return nil
	})
	return g.Wait()
}

// chain wraps h so that the first middleware is the outermost.
func chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// requestID tags the request logger and the response with a fresh UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

func logAccess(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusBadRequest {
		event = hlog.FromRequest(r).Warn()
	}
	event.
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
