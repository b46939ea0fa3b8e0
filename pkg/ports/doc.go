/*
Package ports defines the driven ports (interfaces) for the acceptance helpers.

These interfaces decouple the polling components from the concrete transports,
so the same watcher can run against a shell, an SSH client, or a test double.

# Key Interfaces

  - CommandChannel: runs a command on a node and reports output and exit code.
  - ReachabilityProbe: one-shot network reachability check.
  - Page: the slice of a UI driver the transition guard relies on.
  - ContextStore: scoped key-value scratch space shared by scenario steps.
*/
package ports
