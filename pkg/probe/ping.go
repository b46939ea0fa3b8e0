package probe

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

// Executor runs a local binary and reports its exit status.
// process.Runner satisfies it.
type Executor interface {
	Exec(ctx context.Context, name string, args ...string) (domain.CommandResult, error)
}

// Pinger is a ports.ReachabilityProbe backed by the system ping binary.
// One packet is sent per probe; zero exit status means reachable.
type Pinger struct {
	exec    Executor
	binary  string
	waitSec int
	logger  *slog.Logger
}

// Ensure Pinger implements ReachabilityProbe
var _ ports.ReachabilityProbe = (*Pinger)(nil)

// Option configures the Pinger.
type Option func(*Pinger)

// WithBinary overrides the ping executable (e.g. "ping6").
func WithBinary(binary string) Option {
	return func(p *Pinger) {
		p.binary = binary
	}
}

// WithReplyWait sets how long ping waits for the single reply, in seconds.
func WithReplyWait(seconds int) Option {
	return func(p *Pinger) {
		p.waitSec = seconds
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pinger) {
		p.logger = logger
	}
}

// NewPinger creates a ping based probe.
func NewPinger(exec Executor, opts ...Option) *Pinger {
	p := &Pinger{
		exec:    exec,
		binary:  "ping",
		waitSec: 1,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsReachable sends one echo request to host.
// It returns a *domain.ProbeError when ping itself could not run.
func (p *Pinger) IsReachable(ctx context.Context, host string) (bool, error) {
	result, err := p.exec.Exec(ctx, p.binary, "-c1", "-W"+strconv.Itoa(p.waitSec), host)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, &domain.ProbeError{Probe: p.binary, Target: host, Err: err}
	}

	reachable := result.ExitCode == 0
	p.logger.Debug("ping", "host", host, "reachable", reachable)
	return reachable, nil
}
