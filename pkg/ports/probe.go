package ports

import "context"

// ReachabilityProbe issues one network reachability check against a host.
// It does not retry. A probe that could not run returns an error wrapping domain.ErrProbeFailure.
type ReachabilityProbe interface {
	IsReachable(ctx context.Context, host string) (bool, error)
}
