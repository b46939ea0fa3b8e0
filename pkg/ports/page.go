package ports

import (
	"context"
	"time"
)

// Page is the UI driving surface the transition guard needs.
type Page interface {
	// HasText reports whether text is visible, waiting up to wait for it to appear.
	HasText(ctx context.Context, text string, wait time.Duration) (bool, error)

	// HasNoText reports whether text is absent, waiting up to wait for it to disappear.
	HasNoText(ctx context.Context, text string, wait time.Duration) (bool, error)

	// HasNoCSS reports whether no element matches selector, waiting up to wait for it to disappear.
	HasNoCSS(ctx context.Context, selector string, wait time.Duration) (bool, error)

	// ClickButton clicks the button identified by locator.
	ClickButton(ctx context.Context, locator string) error

	// ClickLink clicks the link identified by locator.
	ClickLink(ctx context.Context, locator string) error
}

// Clickable is a located UI element.
type Clickable interface {
	Click(ctx context.Context) error
}
