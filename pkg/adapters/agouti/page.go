package agouti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/acceptance/internal/logging"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/poll"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/sclevine/agouti"
)

const defaultPollInterval = 100 * time.Millisecond

type queryKind int

const (
	byCSS queryKind = iota
	byXPath
	byButton
	byLink
)

// driver is the slice of WebDriver behaviour the Page needs.
type driver interface {
	count(kind queryKind, selector string) (int, error)
	click(kind queryKind, locator string) error
}

// Page implements ports.Page over a WebDriver session.
type Page struct {
	driver   driver
	interval time.Duration
	logger   *slog.Logger
}

var _ ports.Page = (*Page)(nil)

// Option configures the Page.
type Option func(*Page)

// WithPollInterval sets how often a waiting assertion re-queries the DOM.
func WithPollInterval(d time.Duration) Option {
	return func(p *Page) {
		p.interval = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// New wraps an agouti page.
func New(page *agouti.Page, opts ...Option) *Page {
	return newPage(&agoutiDriver{page: page}, opts...)
}

func newPage(d driver, opts ...Option) *Page {
	p := &Page{
		driver:   d,
		interval: defaultPollInterval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HasText waits up to wait for text to be visible anywhere in the body.
func (p *Page) HasText(ctx context.Context, text string, wait time.Duration) (bool, error) {
	query := textQuery(text)
	return p.eventually(ctx, "has_text", wait, func() (bool, error) {
		n, err := p.driver.count(byXPath, query)
		return n > 0, err
	})
}

// HasNoText waits up to wait for text to be gone from the body.
func (p *Page) HasNoText(ctx context.Context, text string, wait time.Duration) (bool, error) {
	query := textQuery(text)
	return p.eventually(ctx, "has_no_text", wait, func() (bool, error) {
		n, err := p.driver.count(byXPath, query)
		return n == 0, err
	})
}

// HasNoCSS waits up to wait for no element to match selector.
func (p *Page) HasNoCSS(ctx context.Context, selector string, wait time.Duration) (bool, error) {
	return p.eventually(ctx, "has_no_css", wait, func() (bool, error) {
		n, err := p.driver.count(byCSS, selector)
		return n == 0, err
	})
}

// ClickButton clicks the button whose text is locator.
func (p *Page) ClickButton(ctx context.Context, locator string) error {
	if err := p.driver.click(byButton, locator); err != nil {
		return fmt.Errorf("click button %q: %w", locator, err)
	}
	return nil
}

// ClickLink clicks the link whose text is locator.
func (p *Page) ClickLink(ctx context.Context, locator string) error {
	if err := p.driver.click(byLink, locator); err != nil {
		return fmt.Errorf("click link %q: %w", locator, err)
	}
	return nil
}

// eventually checks cond until it holds or wait elapses. A zero wait checks once.
func (p *Page) eventually(ctx context.Context, name string, wait time.Duration, cond func() (bool, error)) (bool, error) {
	if wait <= 0 {
		return cond()
	}

	_, err := poll.Repeat(ctx, domain.TimeoutPolicy{Timeout: wait, Interval: p.interval}, func(ctx context.Context) (bool, bool, error) {
		ok, err := cond()
		return ok, ok, err
	}, poll.WithName(name), poll.WithLogger(p.logger))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrTimeoutExceeded):
		return false, nil
	default:
		return false, err
	}
}

// textQuery matches the body when it contains text.
func textQuery(text string) string {
	return fmt.Sprintf("//body[contains(normalize-space(.), %s)]", xpathLiteral(text))
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, 2*len(parts))
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+part+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

type agoutiDriver struct {
	page *agouti.Page
}

// count uses multi-selections, which report zero matches without an error.
func (d *agoutiDriver) count(kind queryKind, selector string) (int, error) {
	var all *agouti.MultiSelection
	switch kind {
	case byXPath:
		all = d.page.AllByXPath(selector)
	case byButton:
		all = d.page.AllByButton(selector)
	case byLink:
		all = d.page.AllByLink(selector)
	default:
		all = d.page.All(selector)
	}
	return all.Count()
}

// click needs exactly one match.
func (d *agoutiDriver) click(kind queryKind, locator string) error {
	var one *agouti.Selection
	switch kind {
	case byXPath:
		one = d.page.FindByXPath(locator)
	case byButton:
		one = d.page.FindByButton(locator)
	case byLink:
		one = d.page.FindByLink(locator)
	default:
		one = d.page.Find(locator)
	}
	return one.Click()
}
