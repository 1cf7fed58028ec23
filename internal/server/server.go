// Package server serves the upload widget to browsers. Each visitor gets a
// session holding one widget whose surfaces render an HTML fragment that is
// pushed to the page over Server-Sent Events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jonathan/resume-intake/internal/metrics"
	"github.com/jonathan/resume-intake/internal/server/ratelimit"
	"github.com/jonathan/resume-intake/internal/server/web"
	"github.com/jonathan/resume-intake/internal/widget"
)

// Config holds server configuration
type Config struct {
	Port   int
	Widget widget.Config
	// MaxRequestBytes caps a file upload request body.
	MaxRequestBytes int64
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	// KeepAlive is the interval of comment lines on idle event streams.
	KeepAlive time.Duration
	// SubmitTimeout bounds one submission to the intake API.
	SubmitTimeout   time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		Widget:          widget.DefaultConfig(),
		MaxRequestBytes: 32 << 20,
		SessionTTL:      30 * time.Minute,
		CleanupInterval: time.Minute,
		KeepAlive:       15 * time.Second,
		SubmitTimeout:   2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

func (c *Config) mergeDefaults() {
	d := DefaultConfig()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.MaxRequestBytes <= 0 {
		c.MaxRequestBytes = d.MaxRequestBytes
	}
	if c.Widget.MaxFileSize <= 0 {
		c.Widget.MaxFileSize = d.Widget.MaxFileSize
	}
	// A file cut off by the request cap must also fail the widget's check.
	if c.MaxRequestBytes < c.Widget.MaxFileSize {
		c.MaxRequestBytes = c.Widget.MaxFileSize
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = d.KeepAlive
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = d.SubmitTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
}

// Option customizes a Server.
type Option func(*Server)

// WithMetrics sets the collectors. By default the server creates its own.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLimiter replaces the limiter built from RATE_LIMIT_* variables.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.rateLimiter = l
	}
}

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Server represents the HTTP server
type Server struct {
	cfg         Config
	httpServer  *http.Server
	submitter   widget.Submitter
	sessions    *SessionStore
	metrics     *metrics.Metrics
	rateLimiter *ratelimit.Limiter
	templates   *template.Template
	logger      *log.Logger

	// streams ends every event stream when the server shuts down.
	streams     context.Context
	stopStreams context.CancelFunc
	submits     sync.WaitGroup
	closeOnce   sync.Once
}

// New creates a new server instance. Cleanup of idle sessions starts
// immediately; Close stops it.
func New(cfg Config, submitter widget.Submitter, opts ...Option) (*Server, error) {
	if submitter == nil {
		return nil, errors.New("server: submitter is required")
	}
	cfg.mergeDefaults()

	s := &Server{
		cfg:       cfg,
		submitter: submitter,
		templates: web.Templates,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	s.streams, s.stopStreams = context.WithCancel(context.Background())

	s.sessions = NewSessionStore(cfg.SessionTTL, s.newWidget, s.metrics)
	s.sessions.StartCleanup(cfg.CleanupInterval)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Event streams clear their own write deadline.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) newWidget(view *View) (*widget.Widget, error) {
	return widget.New(s.cfg.Widget, view.Surfaces(), s.submitter,
		widget.WithLogger(s.logger),
		widget.WithRecorder(s.metrics),
	)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Println("Shutting down server...")
	s.stopStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Println("Server stopped")
	return nil
}

// Close ends event streams, waits for submissions in flight, closes every
// session and stops the rate limiter. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.stopStreams()
		s.submits.Wait()
		s.sessions.Close()
		s.rateLimiter.Stop()
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("[error] %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
