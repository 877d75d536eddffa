// Package service exposes Prometheus metrics and a health endpoint while a
// benchmark run is in progress.
package service

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/benchkit/benchrun/metrics"
)

type Service struct {
	server *http.Server
	log    log.Logger
}

// New creates a metrics service listening on addr. An empty addr disables
// the service entirely.
func New(addr string, logger log.Logger) *Service {
	if addr == "" {
		return &Service{log: logger}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Service{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logger,
	}
}

// Start begins serving in the background. Serve errors other than a clean
// shutdown are logged, not fatal: metrics are best effort.
func (s *Service) Start(ctx context.Context) {
	if s.server == nil {
		return
	}
	s.log.Info("Starting metrics server", "addr", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Metrics server failed", "err", err)
			metrics.RecordError("metrics server failed")
		}
	}()
}

// Shutdown stops the metrics server, waiting briefly for in-flight scrapes.
func (s *Service) Shutdown() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Error("Metrics server shutdown failed", "err", err)
	}
}
