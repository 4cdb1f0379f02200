package metrics

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gw31415/eschaton/internal/logging"
)

// PrometheusServer serves Prometheus metrics via HTTP.
type PrometheusServer struct {
	addr      string
	collector *Collector
	logger    logging.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server.
//
// Parameters:
//   - addr: Address to listen on (e.g., ":9090")
//   - collector: Metrics collector to expose
//   - logger: Logger for server events
//
// Returns:
//   - *PrometheusServer: Initialized server
func NewPrometheusServer(addr string, collector *Collector, logger logging.Logger) *PrometheusServer {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PrometheusServer{
		addr:      addr,
		collector: collector,
		logger:    logger,
	}
}

// Start starts the Prometheus HTTP server and blocks until the context
// is cancelled.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Error if shutdown fails
func (s *PrometheusServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.healthHandler)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.collectSystemMetrics(ctx)

	s.logger.Info("[Metrics] Starting Prometheus server", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("[Metrics] Server error", "error", err)
		}
	}()

	<-ctx.Done()

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server.
//
// Returns:
//   - error: Error if shutdown fails
func (s *PrometheusServer) Shutdown() error {
	s.logger.Info("[Metrics] Shutting down Prometheus server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// healthHandler handles health check requests.
func (s *PrometheusServer) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK\n")
}

// collectSystemMetrics periodically collects system-level metrics.
func (s *PrometheusServer) collectSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			s.collector.UpdateSystemMetrics(runtime.NumGoroutine(), m.Alloc)
		}
	}
}
