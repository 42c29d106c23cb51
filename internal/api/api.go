// Package api provides the HTTP control surface and the main server logic for
// dailybot.
//
// It exposes the survey kick endpoint used by external schedulers and a health
// endpoint, and wires every module together in Run.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opsline/dailybot/internal/survey"
)

// Default server parameters.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
)

// Opts holds API server configuration.
type Opts struct {
	Addr      string
	APIKey    string
	DailyCron string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithAPIKey sets the bearer token required on mutating endpoints. Empty
// disables auth.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithDailyCron sets the cron expression for the built-in daily kick.
func WithDailyCron(expr string) Option {
	return func(o *Opts) { o.DailyCron = expr }
}

// Server is the HTTP control surface.
type Server struct {
	addr        string
	apiKey      string
	coordinator *survey.Coordinator
	registry    *survey.Registry
	httpServer  *http.Server
}

// NewServer creates the API server.
func NewServer(coordinator *survey.Coordinator, registry *survey.Registry, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	slog.Debug("api.NewServer: creating server", "addr", cfg.Addr, "auth_enabled", cfg.APIKey != "")
	return &Server{
		addr:        cfg.Addr,
		apiKey:      cfg.APIKey,
		coordinator: coordinator,
		registry:    registry,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/start_survey", s.startSurveyHandler)
	mux.HandleFunc("/health", s.healthHandler)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  DefaultRequestTimeout,
		WriteTimeout: DefaultRequestTimeout,
	}

	go func() {
		slog.Info("Server.Start: API listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server.Start: listener failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	slog.Info("Server.Stop: shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}

// authorized checks the bearer token when auth is enabled.
func (s *Server) authorized(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.apiKey
}
