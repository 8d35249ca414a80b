// Package server exposes the estimator and the optional code runner over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/config"
	"bigocheck/internal/models"
	"bigocheck/internal/runner"

	"github.com/go-playground/validator/v10"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	runner   *runner.Runner
	logger   *slog.Logger
	validate *validator.Validate
}

func New(cfg *config.Config, a *analyzer.Analyzer, r *runner.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	validate, err := newValidator()
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:      cfg,
		analyzer: a,
		runner:   r,
		logger:   logger,
		validate: validate,
	}
}

// newValidator registers the custom tags used by request structs.
func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	err := validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, err := models.ParseLanguage(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register language validation: %w", err)
	}
	return validate, nil
}

// Handler returns the routed handler with request ids, logging and CORS
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /run/{lang}", s.handleRun)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestID(s.withLogging(s.withCORS(mux)))
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Server.Addr, "runner_enabled", s.runner.Enabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
