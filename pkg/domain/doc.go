/*
Package domain contains the core types shared by the acceptance helpers.

It is kept free of I/O so every adapter and component can depend on it.

# Key Entities

  - TimeoutPolicy: the bounds of one polling invocation (deadline, attempt ceiling, diagnostics).
  - PollOutcome: the attempt count and last observed result of one invocation.
  - HostState: the lifecycle of a host during a reboot watch.
  - FeatureScope: the key under which scenario steps share values.
  - PollError / ProbeError: the failure taxonomy (TimeoutExceeded, RetriesExhausted, ProbeFailure).
*/
package domain
