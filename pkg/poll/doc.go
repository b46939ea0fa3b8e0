/*
Package poll implements the bounded polling engine used by every wait in the suite.

A poll invokes an Action until it reports done, an optional attempt ceiling is hit,
or the overall deadline elapses. The deadline is checked inside the loop on every
iteration and, as a safety net, by Guard around the whole loop.

# Usage

	policy := domain.TimeoutPolicy{
		Timeout:  30 * time.Second,
		Retries:  domain.Retries(10),
		Message:  "channel still not synced",
		Interval: time.Second,
	}

	outcome, err := poll.Repeat(ctx, policy, func(ctx context.Context) (string, bool, error) {
		out, err := ch.Run(ctx, "spacewalk-repo-sync --list")
		return out.Output, err == nil && out.Success(), nil
	})
	if errors.Is(err, domain.ErrTimeoutExceeded) {
		// scenario-fatal
	}
*/
package poll
