package domain

import "time"

// Defaults shared by the stack. Config files may override them.
const (
	DefaultProbeInterval  = 1 * time.Second
	DefaultCommandTimeout = 10 * time.Second
	DefaultRebootTimeout  = 600 * time.Second

	// DefaultTransitionMarker is the CSS selector shown while the console performs an AJAX transition.
	DefaultTransitionMarker = ".senna-loading"
	DefaultTransitionWait   = 20 * time.Second

	DefaultRequestTimeoutText = "Request has timed out"
	DefaultReloadButton       = "reload the page"
)

// Failure messages attached to lifecycle watches.
const (
	MsgShutdownTimeout = "machine didn't reboot"
	MsgRestartTimeout  = "machine didn't come up"
)
