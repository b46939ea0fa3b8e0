package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/poll"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Watcher observes a host going down and coming back with its command channel ready.
type Watcher struct {
	probe          ports.ReachabilityProbe
	interval       time.Duration
	commandTimeout time.Duration
	readyCommand   string
	rebootCommand  string
	logger         *slog.Logger
	observer       poll.Observer
}

// Option configures the Watcher.
type Option func(*Watcher)

// WithInterval sets the pause between unsuccessful probes.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithCommandTimeout bounds each command channel probe.
func WithCommandTimeout(d time.Duration) Option {
	return func(w *Watcher) {
		w.commandTimeout = d
	}
}

// WithReadyCommand overrides the lightweight command used to check the channel (default: ls).
func WithReadyCommand(cmd string) Option {
	return func(w *Watcher) {
		w.readyCommand = cmd
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithObserver reports every phase to o.
func WithObserver(o poll.Observer) Option {
	return func(w *Watcher) {
		w.observer = o
	}
}

// NewWatcher creates a Watcher probing reachability with probe.
func NewWatcher(probe ports.ReachabilityProbe, opts ...Option) *Watcher {
	w := &Watcher{
		probe:          probe,
		interval:       domain.DefaultProbeInterval,
		commandTimeout: domain.DefaultCommandTimeout,
		readyCommand:   "ls",
		rebootCommand:  "reboot",
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// watch is the per-call state. It is discarded when the public call returns.
type watch struct {
	host   string
	fsm    *fsm.FSM
	logger *slog.Logger
}

func (w *Watcher) newWatch(host string) *watch {
	logger := w.logger.With("host", host, "watch_id", uuid.NewString())
	return &watch{
		host:   host,
		logger: logger,
		fsm: fsm.NewFSM(
			string(domain.HostUnknown),
			fsm.Events{
				{Name: domain.EventWentDown, Src: []string{string(domain.HostUnknown)}, Dst: string(domain.HostNetworkDown)},
				{Name: domain.EventNetworkUp, Src: []string{string(domain.HostUnknown), string(domain.HostNetworkDown)}, Dst: string(domain.HostNetworkUp)},
				{Name: domain.EventChannelReady, Src: []string{string(domain.HostNetworkUp)}, Dst: string(domain.HostCommandChannelReady)},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logger.Debug("host state changed", "from", e.Src, "to", e.Dst)
				},
			},
		),
	}
}

func (wt *watch) state() domain.HostState {
	return domain.HostState(wt.fsm.Current())
}

func (wt *watch) advance(ctx context.Context, event string) error {
	if err := wt.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("host %s: %s from %s: %w", wt.host, event, wt.fsm.Current(), err)
	}
	return nil
}

func (w *Watcher) pollOptions(name string, logger *slog.Logger) []poll.Option {
	return []poll.Option{
		poll.WithName(name),
		poll.WithLogger(logger),
		poll.WithObserver(w.observer),
	}
}

// WaitForShutdown returns as soon as host stops answering the reachability probe.
// It fails with domain.ErrTimeoutExceeded ("machine didn't reboot") if host stays reachable.
func (w *Watcher) WaitForShutdown(ctx context.Context, host string, timeout time.Duration) (domain.HostState, error) {
	wt := w.newWatch(host)
	if err := w.shutdown(ctx, wt, timeout); err != nil {
		return domain.HostUnknown, err
	}
	return wt.state(), nil
}

// WaitForRestart waits for host to answer the reachability probe and then for ch to run
// a command successfully. Each phase gets the full timeout.
// It fails with domain.ErrTimeoutExceeded ("machine didn't come up") if either phase runs out.
func (w *Watcher) WaitForRestart(ctx context.Context, host string, ch ports.CommandChannel, timeout time.Duration) (domain.HostState, error) {
	wt := w.newWatch(host)
	if err := w.restart(ctx, wt, ch, timeout); err != nil {
		return domain.HostUnknown, err
	}
	return wt.state(), nil
}

// Reboot triggers a reboot through ch and follows the host through shutdown and restart.
func (w *Watcher) Reboot(ctx context.Context, host string, ch ports.CommandChannel, timeout time.Duration) (domain.HostState, error) {
	wt := w.newWatch(host)

	// The channel usually drops in the middle of the reboot, so the exit status is meaningless.
	if _, err := ch.Run(ctx, w.rebootCommand, ports.WithCheckErrors(false), ports.WithTimeout(w.commandTimeout)); err != nil {
		wt.logger.Debug("reboot command returned error", "err", err)
	}

	if err := w.shutdown(ctx, wt, timeout); err != nil {
		return domain.HostUnknown, err
	}
	if err := w.restart(ctx, wt, ch, timeout); err != nil {
		return domain.HostUnknown, err
	}
	return wt.state(), nil
}

// pauses is the fixed delay between unsuccessful probes, built fresh for every poll.
func (w *Watcher) pauses() backoff.BackOff {
	return backoff.NewConstantBackOff(w.interval)
}

func (w *Watcher) shutdown(ctx context.Context, wt *watch, timeout time.Duration) error {
	policy := domain.TimeoutPolicy{
		Timeout: timeout,
		Message: domain.MsgShutdownTimeout,
		Backoff: w.pauses,
	}

	_, err := poll.Repeat(ctx, policy, func(ctx context.Context) (bool, bool, error) {
		up, err := w.probe.IsReachable(ctx, wt.host)
		if err != nil {
			return up, false, err
		}
		return up, !up, nil
	}, w.pollOptions("wait_for_shutdown", wt.logger)...)
	if err != nil {
		return err
	}

	wt.logger.Info("machine went down")
	return wt.advance(ctx, domain.EventWentDown)
}

func (w *Watcher) restart(ctx context.Context, wt *watch, ch ports.CommandChannel, timeout time.Duration) error {
	policy := domain.TimeoutPolicy{
		Timeout: timeout,
		Message: domain.MsgRestartTimeout,
		Backoff: w.pauses,
	}

	_, err := poll.Repeat(ctx, policy, func(ctx context.Context) (bool, bool, error) {
		up, err := w.probe.IsReachable(ctx, wt.host)
		if err != nil {
			return up, false, err
		}
		return up, up, nil
	}, w.pollOptions("wait_for_restart_network", wt.logger)...)
	if err != nil {
		return err
	}
	wt.logger.Info("machine network is up")
	if err := wt.advance(ctx, domain.EventNetworkUp); err != nil {
		return err
	}

	_, err = poll.Repeat(ctx, policy, func(ctx context.Context) (int, bool, error) {
		result, err := ch.Run(ctx, w.readyCommand, ports.WithCheckErrors(false), ports.WithTimeout(w.commandTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return result.ExitCode, false, ctx.Err()
			}
			return result.ExitCode, false, &domain.ProbeError{Probe: "command channel", Target: wt.host, Err: err}
		}
		return result.ExitCode, result.Success(), nil
	}, w.pollOptions("wait_for_restart_channel", wt.logger)...)
	if err != nil {
		return err
	}
	wt.logger.Info("machine command channel is up")
	return wt.advance(ctx, domain.EventChannelReady)
}
