package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server exposes /metrics and health endpoints on a sidecar port.
type Server struct {
	httpServer *http.Server
	port       int
	checker    *Checker
}

func NewServer(port int, checker *Checker) *Server {
	if checker == nil {
		checker = NewChecker()
	}
	return &Server{port: port, checker: checker}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.checker.HealthHandler())
	mux.HandleFunc("/health/live", LivenessHandler())
	mux.Handle("/metrics", MetricsHandler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
