package poll

import (
	"log/slog"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
)

// Result labels passed to an Observer.
const (
	ResultSucceeded        = "succeeded"
	ResultTimeout          = "timeout"
	ResultRetriesExhausted = "retries_exhausted"
	ResultError            = "error"
)

// Observer receives one notification per polling invocation.
type Observer interface {
	ObservePoll(operation, result string, attempts int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObservePoll(string, string, int, time.Duration) {}

type config struct {
	name     string
	logger   *slog.Logger
	observer Observer
}

// Option configures a polling invocation.
type Option func(*config)

// WithName labels the invocation in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an Observer (e.g. Prometheus metrics).
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		name:     "poll",
		logger:   logging.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
