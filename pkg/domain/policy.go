package domain

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultTimeout is the overall deadline used when a caller does not provide one.
const DefaultTimeout = 250 * time.Second

// TimeoutPolicy bounds a single polling invocation.
// Timeout is always present. Retries, when set, is a hard ceiling independent of elapsed time.
type TimeoutPolicy struct {
	Timeout      time.Duration
	Retries      *int
	Message      string
	ReportResult bool

	// Interval is the constant pause after an unsuccessful attempt. Zero means no pause.
	Interval time.Duration

	// Backoff, when set, replaces Interval as the pause schedule. It is called once
	// per invocation, so schedules are never shared between polls.
	// A backoff.Stop duration ends the pauses, not the polling.
	Backoff func() backoff.BackOff
}

// Retries returns a pointer suitable for TimeoutPolicy.Retries.
func Retries(n int) *int {
	return &n
}

// HasRetries reports whether an attempt ceiling is set.
func (p TimeoutPolicy) HasRetries() bool {
	return p.Retries != nil
}

// PollOutcome is produced once per polling invocation and never mutated after return.
type PollOutcome[T any] struct {
	Attempts   int
	LastResult T
	HasResult  bool
	Succeeded  bool
	Elapsed    time.Duration
}
