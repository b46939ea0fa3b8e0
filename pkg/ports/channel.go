package ports

import (
	"context"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
)

// RunOptions tunes a single command invocation.
type RunOptions struct {
	// Timeout bounds the command. Zero leaves it to the caller's context.
	Timeout time.Duration

	// CheckErrors turns a non-zero exit into a *domain.CommandError.
	CheckErrors bool
}

// RunOption configures RunOptions.
type RunOption func(*RunOptions)

// WithTimeout bounds the command duration.
func WithTimeout(d time.Duration) RunOption {
	return func(o *RunOptions) {
		o.Timeout = d
	}
}

// WithCheckErrors controls whether a non-zero exit is reported as an error.
func WithCheckErrors(check bool) RunOption {
	return func(o *RunOptions) {
		o.CheckErrors = check
	}
}

// NewRunOptions applies opts over the defaults (errors checked, no timeout).
func NewRunOptions(opts ...RunOption) RunOptions {
	o := RunOptions{CheckErrors: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CommandChannel runs commands on a remote node and returns output and exit code.
type CommandChannel interface {
	// Run executes command. A command that cannot be started at all returns an error
	// regardless of CheckErrors.
	Run(ctx context.Context, command string, opts ...RunOption) (domain.CommandResult, error)
}
