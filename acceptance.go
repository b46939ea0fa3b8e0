package acceptance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/acceptance/internal/config"
	"github.com/aretw0/acceptance/internal/logging"
	httpAdapter "github.com/aretw0/acceptance/pkg/adapters/http"
	"github.com/aretw0/acceptance/pkg/adapters/memory"
	"github.com/aretw0/acceptance/pkg/adapters/process"
	"github.com/aretw0/acceptance/pkg/adapters/redis"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/lifecycle"
	"github.com/aretw0/acceptance/pkg/metrics"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/aretw0/acceptance/pkg/probe"
	"github.com/aretw0/acceptance/pkg/scenario"
	"github.com/aretw0/acceptance/pkg/steps"
	"github.com/aretw0/acceptance/pkg/uiguard"
	"github.com/cucumber/godog"
	"github.com/prometheus/client_golang/prometheus"
)

// ChannelFactory opens a command channel to the node at address.
type ChannelFactory func(address string) ports.CommandChannel

// Harness wires the polling engine, the lifecycle watcher and the scenario
// context store for an acceptance suite.
type Harness struct {
	cfg      config.Config
	store    ports.ContextStore
	vars     *scenario.Context
	probe    ports.ReachabilityProbe
	channels ChannelFactory
	watcher  *lifecycle.Watcher
	registry *prometheus.Registry
	observer *metrics.Observer
	logger   *slog.Logger
}

var _ steps.Harness = (*Harness)(nil)

// Option defines a functional option for configuring the Harness.
type Option func(*Harness)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithStore replaces the in-memory context store.
func WithStore(store ports.ContextStore) Option {
	return func(h *Harness) {
		h.store = store
	}
}

// WithProbe replaces the ping based reachability probe.
func WithProbe(p ports.ReachabilityProbe) Option {
	return func(h *Harness) {
		h.probe = p
	}
}

// WithChannelFactory replaces the ssh command channel.
func WithChannelFactory(f ChannelFactory) Option {
	return func(h *Harness) {
		h.channels = f
	}
}

// WithRegistry registers poll metrics with reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *Harness) {
		h.registry = reg
	}
}

// WithHosts maps suite host names to addresses.
func WithHosts(hosts map[string]string) Option {
	return func(h *Harness) {
		for name, addr := range hosts {
			h.cfg.Hosts[name] = addr
		}
	}
}

// WithRebootTimeout bounds each reboot phase.
func WithRebootTimeout(d time.Duration) Option {
	return func(h *Harness) {
		h.cfg.RebootTimeout = d
	}
}

// WithProbeInterval sets the pause between lifecycle probes.
func WithProbeInterval(d time.Duration) Option {
	return func(h *Harness) {
		h.cfg.ProbeInterval = d
	}
}

// WithCommandTimeout bounds each readiness command.
func WithCommandTimeout(d time.Duration) Option {
	return func(h *Harness) {
		h.cfg.CommandTimeout = d
	}
}

func withConfig(cfg config.Config) Option {
	return func(h *Harness) {
		h.cfg = cfg
	}
}

// New builds a Harness from defaults and opts.
func New(opts ...Option) (*Harness, error) {
	h := &Harness{cfg: config.Default()}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}

	if h.logger == nil {
		h.logger = logging.NewNop()
	}
	if h.store == nil {
		h.store = memory.NewStore()
	}
	if h.registry == nil {
		h.registry = prometheus.NewRegistry()
	}
	if h.probe == nil {
		h.probe = probe.NewPinger(process.NewRunner(process.WithLogger(h.logger)), probe.WithLogger(h.logger))
	}
	if h.channels == nil {
		h.channels = func(address string) ports.CommandChannel {
			return process.NewRunner(process.WithSSH(address), process.WithLogger(h.logger))
		}
	}

	h.vars = scenario.NewContext(h.store)
	h.observer = metrics.NewObserver(h.registry)
	h.watcher = lifecycle.NewWatcher(h.probe,
		lifecycle.WithInterval(h.cfg.ProbeInterval),
		lifecycle.WithCommandTimeout(h.cfg.CommandTimeout),
		lifecycle.WithLogger(h.logger),
		lifecycle.WithObserver(h.observer),
	)
	return h, nil
}

// NewFromFile loads path (see internal/config) and builds a Harness from it.
// A redis address in the file selects the shared Redis store. opts are applied last.
func NewFromFile(path string, opts ...Option) (*Harness, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	base := []Option{withConfig(cfg), WithLogger(logging.New(level))}
	if cfg.Redis.Addr != "" {
		var storeOpts []redis.Option
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		base = append(base, WithStore(redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)))
	}
	return New(append(base, opts...)...)
}

// Resolve returns the address configured for host, or host itself.
func (h *Harness) Resolve(host string) string {
	return h.cfg.Resolve(host)
}

// RebootTimeout is the per-phase bound used by Reboot.
func (h *Harness) RebootTimeout() time.Duration {
	return h.cfg.RebootTimeout
}

// DefaultTimeout is the bound of a plain poll.
func (h *Harness) DefaultTimeout() time.Duration {
	return h.cfg.DefaultTimeout
}

// Channel opens a command channel to host.
func (h *Harness) Channel(host string) ports.CommandChannel {
	return h.channels(h.Resolve(host))
}

// Vars is the scenario context bound to the scope carried by ctx.
func (h *Harness) Vars() *scenario.Context {
	return h.vars
}

// Store is the underlying context store.
func (h *Harness) Store() ports.ContextStore {
	return h.store
}

// Probe is the reachability probe shared by the watcher and the HTTP surface.
func (h *Harness) Probe() ports.ReachabilityProbe {
	return h.probe
}

// Registry holds the poll metrics.
func (h *Harness) Registry() *prometheus.Registry {
	return h.registry
}

// Observer reports polls into Registry; pass it to poll.WithObserver for custom polls.
func (h *Harness) Observer() *metrics.Observer {
	return h.observer
}

// WaitForShutdown waits until host stops answering.
func (h *Harness) WaitForShutdown(ctx context.Context, host string, timeout time.Duration) (domain.HostState, error) {
	return h.watcher.WaitForShutdown(ctx, h.Resolve(host), timeout)
}

// WaitForRestart waits until host answers and accepts commands again.
func (h *Harness) WaitForRestart(ctx context.Context, host string, timeout time.Duration) (domain.HostState, error) {
	return h.watcher.WaitForRestart(ctx, h.Resolve(host), h.Channel(host), timeout)
}

// Reboot reboots host and waits for it to come back, each phase bounded by RebootTimeout.
func (h *Harness) Reboot(ctx context.Context, host string) (domain.HostState, error) {
	return h.watcher.Reboot(ctx, h.Resolve(host), h.Channel(host), h.cfg.RebootTimeout)
}

// UIGuard returns a transition guard for page using the configured UI settings.
func (h *Harness) UIGuard(page ports.Page) *uiguard.Guard {
	return uiguard.New(page,
		uiguard.WithMarker(h.cfg.UI.Marker),
		uiguard.WithWait(h.cfg.UI.Wait),
		uiguard.WithTextTimeout(h.cfg.DefaultTimeout),
		uiguard.WithRequestTimeoutPopup(h.cfg.UI.RequestTimeoutText, h.cfg.UI.ReloadButton),
		uiguard.WithLogger(h.logger),
		uiguard.WithObserver(h.observer),
	)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves /healthz, /metrics and /probe/{host}.
func (h *Harness) Handler() http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithGatherer(h.registry),
		httpAdapter.WithHosts(h.cfg.Hosts),
		httpAdapter.WithLogger(h.logger),
	}
	if p, ok := h.store.(pinger); ok {
		opts = append(opts, httpAdapter.WithReadiness(p.Ping))
	}
	return httpAdapter.NewHandler(h.probe, opts...)
}

// InitializeScenario registers the step definitions; use it as a godog ScenarioInitializer.
func (h *Harness) InitializeScenario(sc *godog.ScenarioContext) {
	steps.Register(sc, h)
}

// Close releases the store connection, if any.
func (h *Harness) Close() error {
	if c, ok := h.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
