package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"priceview/internal/metrics"
)

// Options configure the HTTP server.
type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORS            bool
	// MetricsPath mounts the Prometheus endpoint when non-empty.
	MetricsPath string
}

// Server wraps the echo HTTP server.
type Server struct {
	echo   *echo.Echo
	opts   Options
	logger zerolog.Logger
}

// New creates the HTTP server and registers handler's routes.
func New(handler *Handler, rec *metrics.Recorder, opts Options, logger zerolog.Logger) *Server {
	if opts.Host == "" {
		opts.Host = "0.0.0.0"
	}
	if opts.Port == 0 {
		opts.Port = 8050
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	logger = logger.With().Str("component", "http_server").Logger()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Use(Recover(logger))
	e.Use(RequestLogging(logger))
	e.Use(Metrics(rec))
	if opts.CORS {
		e.Use(CORS())
	}

	if handler != nil {
		handler.RegisterRoutes(e)
	}
	if opts.MetricsPath != "" {
		e.GET(opts.MetricsPath, echo.WrapHandler(rec.Handler()))
	}

	return &Server{echo: e, opts: opts, logger: logger}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.Addr()).Msg("http server listening")
		errCh <- s.echo.Start(s.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info().Msg("http server stopped gracefully")
	return nil
}

// CORS allows cross-origin reads of the JSON API.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", echo.HeaderOrigin+", "+echo.HeaderContentType+", "+echo.HeaderAccept)
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
