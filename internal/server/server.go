package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agbru/forgetbench/internal/logging"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 3 * time.Second
)

// Server exposes the Prometheus metrics endpoint while a run is in progress.
// It is optional; the harness only starts it when a listen address is
// configured.
type Server struct {
	addr     string
	logger   logging.Logger
	metrics  *Metrics
	security SecurityConfig
	httpSrv  *http.Server
}

// New creates a metrics server bound to addr.
func New(addr string, metrics *Metrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Server{
		addr:     addr,
		logger:   logger,
		metrics:  metrics,
		security: DefaultSecurityConfig(),
	}
}

// Metrics returns the server's instrument set.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start serves /metrics until ctx is canceled, then shuts down gracefully.
// It blocks; run it in its own goroutine. A closed listener after shutdown is
// not reported as an error.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleMetrics)))

	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("metrics server listening", logging.String("addr", s.addr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// metricsMiddleware tracks request counts around the next handler.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}

// handleMetrics serves the Prometheus exposition; only GET is allowed.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("rejected metrics request",
			logging.String("method", r.Method),
			logging.String("remote", r.RemoteAddr))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}
