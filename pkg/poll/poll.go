package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/cenkalti/backoff/v4"
)

// Action is one polling attempt. Returning done == true stops the poll successfully.
// A non-nil error aborts the poll and is returned to the caller.
type Action[T any] func(ctx context.Context) (result T, done bool, err error)

var (
	errLoopTimeout = errors.New("repeat loop deadline")
	errLoopRetries = errors.New("repeat loop attempt ceiling")
)

// guardSlack lets the loop's own elapsed check fire before the outer guard.
const guardSlack = 25 * time.Millisecond

// actionError marks errors raised by the action itself, so they are never
// confused with the guard's own deadline.
type actionError struct {
	err error
}

func (e *actionError) Error() string { return e.err.Error() }
func (e *actionError) Unwrap() error { return e.err }

// Repeat invokes action until it reports done, the attempt ceiling is reached,
// or the policy deadline elapses.
//
// The deadline is enforced twice: the loop compares elapsed time on every iteration,
// and the whole loop runs inside Guard, which fires shortly after the deadline.
// Reaching the attempt ceiling always reports ErrRetriesExhausted, never a timeout.
// Attempts are strictly sequential.
// The outcome is returned on failure as well, next to a *domain.PollError.
func Repeat[T any](ctx context.Context, policy domain.TimeoutPolicy, action Action[T], opts ...Option) (domain.PollOutcome[T], error) {
	cfg := newConfig(opts)
	start := time.Now()

	var (
		mu    sync.Mutex
		state domain.PollOutcome[T]
	)

	snapshot := func() domain.PollOutcome[T] {
		mu.Lock()
		defer mu.Unlock()
		out := state
		out.Elapsed = time.Since(start)
		return out
	}

	fail := func(kind error, source string) (domain.PollOutcome[T], error) {
		out := snapshot()
		pollErr := &domain.PollError{
			Kind:         kind,
			Source:       source,
			Attempts:     out.Attempts,
			Timeout:      policy.Timeout,
			Message:      policy.Message,
			ReportResult: policy.ReportResult,
		}
		if out.HasResult {
			pollErr.LastResult = out.LastResult
		}
		result := ResultTimeout
		if errors.Is(kind, domain.ErrRetriesExhausted) {
			result = ResultRetriesExhausted
		}
		cfg.observer.ObservePoll(cfg.name, result, out.Attempts, out.Elapsed)
		cfg.logger.Debug("poll failed", "operation", cfg.name, "attempts", out.Attempts, "elapsed", out.Elapsed, "err", pollErr)
		return out, pollErr
	}

	if policy.HasRetries() && *policy.Retries <= 0 {
		return fail(domain.ErrRetriesExhausted, "")
	}
	if policy.Timeout <= 0 {
		return fail(domain.ErrTimeoutExceeded, domain.SourceRepeatLoop)
	}

	pause := newPauser(policy)

	loop := func(ctx context.Context) error {
		attempts := 0
		for {
			elapsed := time.Since(start)
			if elapsed > policy.Timeout {
				return errLoopTimeout
			}
			if ceilingReached(policy, attempts) {
				return errLoopRetries
			}

			result, done, err := action(ctx)
			attempts++

			mu.Lock()
			state.Attempts = attempts
			state.LastResult = result
			state.HasResult = true
			state.Succeeded = done && err == nil
			mu.Unlock()

			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return &actionError{err: err}
			}
			if done {
				return nil
			}
			if ceilingReached(policy, attempts) {
				return errLoopRetries
			}

			cfg.logger.Debug("poll attempt not done", "operation", cfg.name, "attempt", attempts)

			// Wake just past the deadline so the elapsed check above ends the loop.
			wait := pause.next()
			if remaining := policy.Timeout - time.Since(start) + time.Millisecond; wait > remaining {
				wait = remaining
			}
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				}
			}
		}
	}

	err := Guard(ctx, policy.Timeout+guardSlack, loop)

	var actErr *actionError
	switch {
	case err == nil:
		out := snapshot()
		cfg.observer.ObservePoll(cfg.name, ResultSucceeded, out.Attempts, out.Elapsed)
		return out, nil
	case errors.Is(err, errLoopRetries):
		return fail(domain.ErrRetriesExhausted, "")
	case errors.Is(err, errLoopTimeout):
		return fail(domain.ErrTimeoutExceeded, domain.SourceRepeatLoop)
	case errors.As(err, &actErr):
		out := snapshot()
		cfg.observer.ObservePoll(cfg.name, ResultError, out.Attempts, out.Elapsed)
		return out, fmt.Errorf("%s: attempt %d: %w", cfg.name, out.Attempts, actErr.err)
	case errors.Is(err, context.DeadlineExceeded) && ceilingReached(policy, snapshot().Attempts):
		return fail(domain.ErrRetriesExhausted, "")
	case errors.Is(err, context.DeadlineExceeded):
		return fail(domain.ErrTimeoutExceeded, domain.SourceDeadlineGuard)
	default:
		out := snapshot()
		cfg.observer.ObservePoll(cfg.name, ResultError, out.Attempts, out.Elapsed)
		return out, err
	}
}

func ceilingReached(policy domain.TimeoutPolicy, attempts int) bool {
	return policy.HasRetries() && attempts >= *policy.Retries
}

// pauser yields the wait between unsuccessful attempts.
type pauser struct {
	schedule backoff.BackOff
}

func newPauser(policy domain.TimeoutPolicy) *pauser {
	if policy.Backoff != nil {
		return &pauser{schedule: policy.Backoff()}
	}
	if policy.Interval <= 0 {
		return &pauser{schedule: &backoff.ZeroBackOff{}}
	}
	return &pauser{schedule: backoff.NewConstantBackOff(policy.Interval)}
}

func (p *pauser) next() time.Duration {
	d := p.schedule.NextBackOff()
	if d == backoff.Stop {
		return 0
	}
	return d
}
