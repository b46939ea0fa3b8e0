// Package probe provides single, non-retrying checks of external state.
// Retrying is the caller's job, normally through package poll.
package probe
