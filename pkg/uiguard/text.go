package uiguard

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/poll"
)

// WaitForText waits up to window for text (or alt, when non-empty) to show up.
//
// When the console shows its request-timeout popup instead, the page is reloaded
// and the window starts over. The whole wait is bounded by the guard's text timeout.
// It returns false, without error, when the window elapses without a match.
func (g *Guard) WaitForText(ctx context.Context, text, alt string, window time.Duration) (bool, error) {
	policy := domain.TimeoutPolicy{
		Timeout: g.textTimeout,
		Message: fmt.Sprintf("'%s' still not visible", text),
	}

	outcome, err := poll.Repeat(ctx, policy, func(ctx context.Context) (bool, bool, error) {
		found, err := g.scanForText(ctx, text, alt, window)
		return found, true, err
	}, poll.WithName("wait_for_text"), poll.WithLogger(g.logger), poll.WithObserver(g.observer))
	if err != nil {
		return false, err
	}
	return outcome.LastResult, nil
}

func (g *Guard) scanForText(ctx context.Context, text, alt string, window time.Duration) (bool, error) {
	start := time.Now()
	for time.Since(start) <= window {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		found, err := g.page.HasText(ctx, text, g.textWait)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
		if alt != "" {
			found, err := g.page.HasText(ctx, alt, g.textWait)
			if err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
		}

		popup, err := g.page.HasText(ctx, g.requestTimeoutText, 0)
		if err != nil {
			return false, err
		}
		if !popup {
			continue
		}

		g.logger.Info("request timeout found, performing reload")
		if err := g.page.ClickButton(ctx, g.reloadButton); err != nil {
			return false, fmt.Errorf("reload after request timeout: %w", err)
		}
		start = time.Now()

		gone, err := g.page.HasNoText(ctx, g.requestTimeoutText, g.textWait)
		if err != nil {
			return false, err
		}
		if !gone {
			return false, fmt.Errorf("request timeout message still present after %s", g.textWait)
		}
	}
	return false, nil
}
