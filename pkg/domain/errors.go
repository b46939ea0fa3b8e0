package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTimeoutExceeded is returned when a deadline elapses before a polling action reports success.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// ErrRetriesExhausted is returned when the attempt ceiling is reached before success and before the deadline.
var ErrRetriesExhausted = errors.New("retries exhausted")

// ErrProbeFailure is returned when a probe could not be executed at all.
// It is distinct from a probe that ran and reported "down" or "failed".
var ErrProbeFailure = errors.New("probe failure")

// ErrInvalidPolicy is returned when a TimeoutPolicy cannot be honored.
var ErrInvalidPolicy = errors.New("invalid timeout policy")

// ErrScopeMissing is returned when a scoped operation runs without a FeatureScope in its context.
var ErrScopeMissing = errors.New("feature scope missing from context")

// Sources of a timeout. The loop check is the primary path, the guard the safety net.
const (
	SourceRepeatLoop    = "repeat loop"
	SourceDeadlineGuard = "deadline guard"
)

// PollError is the failure produced by a bounded polling invocation.
// Kind is either ErrTimeoutExceeded or ErrRetriesExhausted.
type PollError struct {
	Kind         error
	Source       string
	Attempts     int
	Timeout      time.Duration
	Message      string
	LastResult   any
	ReportResult bool
}

func (e *PollError) Error() string {
	detail := FormatDetail(e.Message, e.LastResult, e.ReportResult)
	if errors.Is(e.Kind, ErrRetriesExhausted) {
		return fmt.Sprintf("giving up after %d attempts%s", e.Attempts, detail)
	}
	source := e.Source
	if source == "" {
		source = SourceRepeatLoop
	}
	return fmt.Sprintf("timeout after %s (%s)%s", e.Timeout, source, detail)
}

// Unwrap exposes the error kind so callers can use errors.Is.
func (e *PollError) Unwrap() error {
	return e.Kind
}

// FormatDetail renders the optional diagnostic suffix shared by both failure kinds.
func FormatDetail(message string, lastResult any, reportResult bool) string {
	var b strings.Builder
	if message != "" {
		b.WriteString(": ")
		b.WriteString(message)
	}
	if reportResult && lastResult != nil {
		fmt.Fprintf(&b, ", last result was: %v", lastResult)
	}
	return b.String()
}

// ProbeError reports a probe that could not run.
type ProbeError struct {
	Probe  string
	Target string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s probe against %s could not run: %v", e.Probe, e.Target, e.Err)
}

// Unwrap returns ErrProbeFailure first so errors.Is matches the taxonomy,
// and the underlying cause second.
func (e *ProbeError) Unwrap() []error {
	return []error{ErrProbeFailure, e.Err}
}

// ErrCommandFailed is returned by a command channel when a command exits non-zero
// and the caller asked for errors to be checked.
var ErrCommandFailed = errors.New("command failed")

// CommandError carries the result of a command that exited non-zero.
type CommandError struct {
	Command string
	Result  CommandResult
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.Result.ExitCode, strings.TrimSpace(e.Result.Output))
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}
