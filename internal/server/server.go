package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/filter"
	"grantify/internal/search"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Searcher interface {
	Prepare(ctx context.Context, f filter.Filter) (filter.Filter, url.Values)
	Search(ctx context.Context, f filter.Filter) (*search.Result, error)
	Grant(ctx context.Context, grantID string) (*grants.GrantItem, error)
}

type SessionStore interface {
	GetFilterSession(ctx context.Context, sessionID string) (filter.Filter, error)
	SetFilterSession(ctx context.Context, sessionID string, f filter.Filter) error
}

type RateLimiter interface {
	IncrementClientRateLimit(ctx context.Context, client string) (int64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Searcher     Searcher
	Sessions     SessionStore
	Limiter      RateLimiter
	Health       map[string]Pinger
	RequestLimit int
	Logger       *zap.Logger
}

type Server struct {
	deps     Deps
	router   *mux.Router
	validate *validator.Validate
	logger   *zap.Logger
}

func New(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		router:   mux.NewRouter(),
		validate: newValidator(),
		logger:   deps.Logger,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting HTTP server", zap.String("addr", addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	s.logger.Info("HTTP server stopped", zap.String("addr", addr))
	return nil
}
