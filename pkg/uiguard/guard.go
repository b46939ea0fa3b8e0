package uiguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/poll"
	"github.com/aretw0/acceptance/pkg/ports"
)

// Guard waits for the console's in-flight transition marker to disappear after an interaction.
// The wait is best-effort: a marker that lingers is logged, never returned.
type Guard struct {
	page   ports.Page
	marker string
	wait   time.Duration
	logger *slog.Logger

	textTimeout        time.Duration
	textWait           time.Duration
	requestTimeoutText string
	reloadButton       string
	observer           poll.Observer
}

// Option configures the Guard.
type Option func(*Guard)

// WithMarker sets the CSS selector of the transition marker.
func WithMarker(selector string) Option {
	return func(g *Guard) {
		g.marker = selector
	}
}

// WithWait sets how long to wait for the marker to disappear.
func WithWait(d time.Duration) Option {
	return func(g *Guard) {
		g.wait = d
	}
}

// WithTextTimeout sets the overall deadline of WaitForText.
func WithTextTimeout(d time.Duration) Option {
	return func(g *Guard) {
		g.textTimeout = d
	}
}

// WithRequestTimeoutPopup configures the popup text and the button that dismisses it.
func WithRequestTimeoutPopup(text, reloadButton string) Option {
	return func(g *Guard) {
		g.requestTimeoutText = text
		g.reloadButton = reloadButton
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithObserver reports WaitForText polls to o.
func WithObserver(o poll.Observer) Option {
	return func(g *Guard) {
		g.observer = o
	}
}

// New creates a Guard for page.
func New(page ports.Page, opts ...Option) *Guard {
	g := &Guard{
		page:               page,
		marker:             domain.DefaultTransitionMarker,
		wait:               domain.DefaultTransitionWait,
		logger:             logging.NewNop(),
		textTimeout:        domain.DefaultTimeout,
		textWait:           4 * time.Second,
		requestTimeoutText: domain.DefaultRequestTimeoutText,
		reloadButton:       domain.DefaultReloadButton,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AfterInteraction performs interaction and then waits for the transition marker to go away.
// Errors from interaction are returned; a failed wait is only logged.
func (g *Guard) AfterInteraction(ctx context.Context, interaction func(ctx context.Context) error) error {
	if err := interaction(ctx); err != nil {
		return err
	}
	if err := g.awaitTransition(ctx); err != nil {
		g.logger.Warn("skipping transition wait", "marker", g.marker, "err", err)
	}
	return nil
}

// errTransitionPending is logged when the marker is still present after the wait.
var errTransitionPending = errors.New("timeout: waiting AJAX transition")

func (g *Guard) awaitTransition(ctx context.Context) error {
	// The page driver owns the wait; the guard only bounds it in case the driver hangs.
	return poll.Guard(ctx, g.wait+time.Second, func(ctx context.Context) error {
		gone, err := g.page.HasNoCSS(ctx, g.marker, g.wait)
		if err != nil {
			return err
		}
		if !gone {
			return errTransitionPending
		}
		return nil
	})
}

// ClickButton clicks the button identified by locator and waits for the transition.
func (g *Guard) ClickButton(ctx context.Context, locator string) error {
	return g.AfterInteraction(ctx, func(ctx context.Context) error {
		return g.page.ClickButton(ctx, locator)
	})
}

// ClickLink clicks the link identified by locator and waits for the transition.
func (g *Guard) ClickLink(ctx context.Context, locator string) error {
	return g.AfterInteraction(ctx, func(ctx context.Context) error {
		return g.page.ClickLink(ctx, locator)
	})
}

// ClickLinkOrButton clicks whichever of a button or a link matches locator.
func (g *Guard) ClickLinkOrButton(ctx context.Context, locator string) error {
	return g.AfterInteraction(ctx, func(ctx context.Context) error {
		buttonErr := g.page.ClickButton(ctx, locator)
		if buttonErr == nil {
			return nil
		}
		if linkErr := g.page.ClickLink(ctx, locator); linkErr != nil {
			return fmt.Errorf("no link or button %q: %w", locator, errors.Join(buttonErr, linkErr))
		}
		return nil
	})
}

// Wrap returns an element whose Click also waits for the transition.
func (g *Guard) Wrap(el ports.Clickable) ports.Clickable {
	return &guardedElement{el: el, guard: g}
}

type guardedElement struct {
	el    ports.Clickable
	guard *Guard
}

func (e *guardedElement) Click(ctx context.Context) error {
	return e.guard.AfterInteraction(ctx, e.el.Click)
}
