package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

const waitDelay = 500 * time.Millisecond

// Runner executes local processes.
// As a ports.CommandChannel it runs shell commands, optionally through a prefix
// such as "ssh -o BatchMode=yes minion" so the command lands on another node.
type Runner struct {
	prefix  []string
	shell   string
	baseDir string
	env     []string
	logger  *slog.Logger
}

// Ensure Runner implements CommandChannel
var _ ports.CommandChannel = (*Runner)(nil)

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithPrefix runs every shell command through the given argv prefix.
// The command string is passed as the last argument.
func WithPrefix(argv ...string) RunnerOption {
	return func(r *Runner) {
		r.prefix = argv
	}
}

// WithSSH is shorthand for a non-interactive ssh prefix targeting host.
func WithSSH(host string) RunnerOption {
	return WithPrefix("ssh", "-o", "BatchMode=yes", "-o", "ConnectTimeout=5", host)
}

// WithShell sets the local shell used when no prefix is configured (default: sh).
func WithShell(shell string) RunnerOption {
	return func(r *Runner) {
		r.shell = shell
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:  "sh",
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exec runs name with args and reports its exit code.
// An error is returned only when the process could not be started or the context ended;
// a non-zero exit is a normal result.
func (r *Runner) Exec(ctx context.Context, name string, args ...string) (domain.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.baseDir
	// Children holding the output pipes open must not outlive a cancelled context.
	cmd.WaitDelay = waitDelay
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := domain.CommandResult{Output: stdout.String()}

	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		return domain.CommandResult{Output: result.Output, ExitCode: -1}, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		r.logger.Debug("process exited non-zero", "command", name, "code", result.ExitCode, "stderr", strings.TrimSpace(stderr.String()))
		return result, nil
	}

	return domain.CommandResult{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", name, err)
}

// Run satisfies ports.CommandChannel.
// A per-call timeout that fires is reported as exit code -1 rather than an error,
// so pollers treat it as "not ready yet".
func (r *Runner) Run(ctx context.Context, command string, opts ...ports.RunOption) (domain.CommandResult, error) {
	o := ports.NewRunOptions(opts...)

	runCtx := ctx
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	name, args := r.argv(command)
	result, err := r.Exec(runCtx, name, args...)
	if err != nil {
		if ctx.Err() != nil || runCtx.Err() == nil {
			return result, err
		}
		r.logger.Debug("command timed out", "command", command, "timeout", o.Timeout)
		result = domain.CommandResult{Output: result.Output, ExitCode: -1}
	}

	if o.CheckErrors && !result.Success() {
		return result, &domain.CommandError{Command: command, Result: result}
	}
	return result, nil
}

func (r *Runner) argv(command string) (string, []string) {
	if len(r.prefix) > 0 {
		args := append([]string{}, r.prefix[1:]...)
		return r.prefix[0], append(args, command)
	}
	return r.shell, []string{"-c", command}
}
