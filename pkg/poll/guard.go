package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Guard runs work under an overall wall-clock deadline.
//
// When the deadline fires first, Guard returns an error wrapping context.DeadlineExceeded
// without waiting for work; work keeps only the cancelled context and must wind itself down.
// Guard is the secondary termination path. Loops running inside work are expected to
// recheck their own elapsed time on every iteration because some blocking calls do not
// observe cancellation promptly.
func Guard(ctx context.Context, timeout time.Duration, work func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- work(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// Work may have finished in the same instant; prefer its result.
		select {
		case err := <-done:
			return err
		default:
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("deadline guard after %s: %w", timeout, ctx.Err())
		}
		return ctx.Err()
	}
}
