package infra

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HTTPServer runs the API listener with graceful shutdown tied to a context.
type HTTPServer struct {
	server          *http.Server
	logger          Logger
	shutdownTimeout time.Duration
}

// NewHTTPServer builds the listener from the shared config.
func NewHTTPServer(cfg *Config, handler http.Handler, logger Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
		},
		logger:          logger,
		shutdownTimeout: cfg.HTTPIdleTimeout,
	}
}

// Run serves until the context is cancelled, then drains in-flight requests
// within the shutdown timeout. A listener failure is returned immediately;
// a clean shutdown returns nil.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("http: listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("http: drained and stopped")
	return nil
}
