// Package server exposes scoring sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/session"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/gin-gonic/gin"
)

// Defaults used when a request names no survey or policy.
const (
	DefaultSurvey = "aia"
	DefaultPolicy = "default"
)

// Options configures a Server.
type Options struct {
	Version string
	Logger  *slog.Logger

	// Redact masks secrets and contact details in returned answers.
	Redact bool

	// Surveys are served in addition to the built-ins and take precedence over them.
	Surveys map[string]*survey.Survey
}

// Server holds the session store and HTTP routes.
type Server struct {
	store   *session.Store
	metrics *Metrics
	logger  *slog.Logger
	version string
	redact  bool

	mu      sync.Mutex
	surveys map[string]*survey.Survey
}

// New creates a server with an empty session store.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	surveys := make(map[string]*survey.Survey, len(opts.Surveys))
	for name, s := range opts.Surveys {
		surveys[name] = s
	}
	return &Server{
		store:   session.NewStore(),
		metrics: NewMetrics(),
		logger:  logger,
		version: opts.Version,
		redact:  opts.Redact,
		surveys: surveys,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.Middleware())

	r.GET("/health", s.HandleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/score", s.HandleScore)
	v1.POST("/sessions", s.HandleCreateSession)
	v1.PUT("/sessions/:id/answers", s.HandleUpdateAnswers)
	v1.GET("/sessions/:id/score", s.HandleGetScore)
	v1.GET("/sessions/:id/sections", s.HandleGetSections)
	v1.POST("/sessions/:id/reset", s.HandleReset)
	v1.DELETE("/sessions/:id", s.HandleDeleteSession)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server.Run: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Run: shutdown: %w", err)
	}
	return nil
}

// resolve loads the named survey and policy, falling back to the defaults.
func (s *Server) resolve(surveyName, policyName string) (*survey.Survey, policy.Policy, error) {
	if surveyName == "" {
		surveyName = DefaultSurvey
	}
	if policyName == "" {
		policyName = DefaultPolicy
	}

	sv, err := s.survey(surveyName)
	if err != nil {
		return nil, policy.Policy{}, err
	}
	p, err := policy.LoadBuiltin(policyName)
	if err != nil {
		return nil, policy.Policy{}, err
	}
	return sv, *p, nil
}

func (s *Server) survey(name string) (*survey.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sv, ok := s.surveys[name]; ok {
		return sv, nil
	}
	sv, err := survey.LoadBuiltin(name)
	if err != nil {
		return nil, err
	}
	s.surveys[name] = sv
	return sv, nil
}
