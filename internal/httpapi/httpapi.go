package httpapi

/*
Health and metrics server (spec.md §6: "expose liveness and Prometheus
metrics on --port"). Grounded on the teacher pack's
`lueurxax-TelegramDigestBot/internal/observability.Server` — same
mux/shutdown-goroutine shape, adapted from a DB-ping readiness check
(that package's domain) to a frontier-ping readiness check (ours).
*/

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Pinger reports whether the service this server fronts is reachable.
// internal/frontier.Store satisfies this with its existing Ping method.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes /healthz, /readyz, and /metrics on a single port.
type Server struct {
	ping     Pinger
	port     int
	log      *zap.Logger
	registry *prometheus.Registry
}

// New builds a Server. registry is the same Registerer passed to
// metadata.NewRecorder, so /metrics reports the exact counters the
// Recorder maintains.
func New(ping Pinger, registry *prometheus.Registry, port int, log *zap.Logger) *Server {
	return &Server{ping: ping, port: port, log: log, registry: registry}
}

// Run starts the server and blocks until ctx is cancelled, then shuts
// down within shutdownTimeout. Mirrors the teacher's Start contract.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.ping.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "frontier unreachable: %v", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("health/metrics server starting", zap.Int("port", s.port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpapi: listen and serve: %w", err)
	}
	return nil
}
