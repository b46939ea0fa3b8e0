package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultProbeTimeout = 5 * time.Second

// Server exposes health, metrics and on-demand reachability probes.
type Server struct {
	probe        ports.ReachabilityProbe
	gatherer     prometheus.Gatherer
	hosts        map[string]string
	ready        func(ctx context.Context) error
	probeTimeout time.Duration
	logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHosts resolves probe targets through a name to address table.
func WithHosts(hosts map[string]string) Option {
	return func(s *Server) {
		s.hosts = hosts
	}
}

// WithReadiness makes /healthz fail while check returns an error.
func WithReadiness(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.ready = check
	}
}

// WithProbeTimeout bounds each /probe request.
func WithProbeTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.probeTimeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// ProbeResponse is the body of GET /probe/{host}.
type ProbeResponse struct {
	Host      string `json:"host"`
	Address   string `json:"address,omitempty"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// NewHandler creates the HTTP handler.
func NewHandler(probe ports.ReachabilityProbe, opts ...Option) http.Handler {
	s := &Server{
		probe:        probe,
		gatherer:     prometheus.DefaultGatherer,
		probeTimeout: defaultProbeTimeout,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/probe/{host}", s.Probe)
	return r
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "err", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// Probe handles GET /probe/{host}.
func (s *Server) Probe(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "host")
	resp := ProbeResponse{Host: host}

	target := host
	if addr, ok := s.hosts[host]; ok {
		target = addr
		resp.Address = addr
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.probeTimeout)
	defer cancel()

	reachable, err := s.probe.IsReachable(ctx, target)
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusBadGateway
		if !errors.Is(err, domain.ErrProbeFailure) {
			status = http.StatusGatewayTimeout
		}
		s.logger.Error("probe failed", "host", host, "err", err)
	}
	resp.Reachable = reachable

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
