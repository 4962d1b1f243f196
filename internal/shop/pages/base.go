// Package pages implements the page objects of the Fender checkout flow.
// Each page binds a browser.Driver to a set of locator sections and exposes
// the captured values as typed records.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"go.uber.org/zap"
)

// HeaderElements holds the elements shared by every page.
type HeaderElements struct {
	HeaderNav        browser.Element
	SearchBar        browser.Element
	NavProducts      browser.Element
	NavItemList      []browser.Element
	Cart             browser.Element
	CartQuantityText string
}

type sectionResolver struct {
	name    string
	resolve func(ctx context.Context) error
}

// BasePage carries the driver, the wait policy and the locator sections
// shared by all pages, plus the mini cart available from the header.
type BasePage struct {
	Name string
	URL  string

	driver browser.Driver
	wait   browser.WaitPolicy
	log    *zap.Logger

	Header           HeaderElements
	MiniCartItems    map[int]MiniCartItem
	MiniCartQuantity CartQuantity

	// PageElements and FailedElements list, in resolution order, the names
	// that were found and not found. Diagnostics only.
	PageElements   []string
	FailedElements []string

	sections []sectionResolver
}

// Option configures a page.
type Option func(*BasePage)

// WithLogger sets the page logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *BasePage) {
		p.log = l
	}
}

// WithWaitPolicy sets the budget of the page's blocking waits.
func WithWaitPolicy(w browser.WaitPolicy) Option {
	return func(p *BasePage) {
		p.wait = w
	}
}

// WithURL overrides the storefront URL used by Navigate.
func WithURL(url string) Option {
	return func(p *BasePage) {
		p.URL = url
	}
}

func newBasePage(name string, d browser.Driver, opts ...Option) *BasePage {
	p := &BasePage{
		Name:          name,
		URL:           DefaultURL,
		driver:        d,
		wait:          browser.DefaultWaitPolicy(),
		log:           zap.NewNop(),
		MiniCartItems: make(map[int]MiniCartItem),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(zap.String("page", name))

	p.register(SectionHeader, func(ctx context.Context) error {
		return resolveFields(ctx, p, headerSection.Fields, &p.Header)
	})
	return p
}

// register adds a locator section. Sections are only ever added.
func (p *BasePage) register(name string, resolve func(ctx context.Context) error) {
	p.sections = append(p.sections, sectionResolver{name: name, resolve: resolve})
}

// Driver returns the browser session the page is bound to.
func (p *BasePage) Driver() browser.Driver {
	return p.driver
}

// WaitPolicy returns the page's wait budget.
func (p *BasePage) WaitPolicy() browser.WaitPolicy {
	return p.wait
}

// Sections lists the locator section names in registration order.
func (p *BasePage) Sections() []string {
	names := make([]string, len(p.sections))
	for i, s := range p.sections {
		names[i] = s.name
	}
	return names
}

// Navigate loads the page's URL.
func (p *BasePage) Navigate(ctx context.Context) error {
	if err := p.driver.Navigate(ctx, p.URL); err != nil {
		return &PageError{Page: p.Name, Operation: "Navigate", Cause: err, Details: p.URL}
	}
	return nil
}

func (p *BasePage) Title(ctx context.Context) (string, error) {
	return p.driver.Title(ctx)
}

func (p *BasePage) CurrentURL(ctx context.Context) (string, error) {
	return p.driver.CurrentURL(ctx)
}

// Maximize maximizes the browser window.
func (p *BasePage) Maximize(ctx context.Context) error {
	return p.driver.Maximize(ctx)
}

// Pause blocks for the policy's settle delay.
func (p *BasePage) Pause(ctx context.Context) error {
	return p.wait.Pause(ctx)
}

func (p *BasePage) String() string {
	var b strings.Builder
	if p.URL != "" {
		fmt.Fprintf(&b, "\nURL: %s\n\n", p.URL)
	}
	if len(p.PageElements) > 0 {
		b.WriteString("Page Elements\n\n")
		for _, name := range p.PageElements {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GetElements resolves every locator of the named section, or of all
// sections when section is empty.
func (p *BasePage) GetElements(ctx context.Context, section string) error {
	if section == "" {
		for _, s := range p.sections {
			if err := s.resolve(ctx); err != nil {
				return &PageError{Page: p.Name, Operation: "GetElements", Cause: err, Details: s.name}
			}
		}
		return nil
	}

	for _, s := range p.sections {
		if s.name != section {
			continue
		}
		if err := s.resolve(ctx); err != nil {
			return &PageError{Page: p.Name, Operation: "GetElements", Cause: err, Details: s.name}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

func (p *BasePage) GetHeaderElements(ctx context.Context) error {
	return p.GetElements(ctx, SectionHeader)
}

// WaitUntilTitleContains blocks until the title contains phrase or the
// wait budget is spent.
func (p *BasePage) WaitUntilTitleContains(ctx context.Context, phrase string) error {
	return browser.WaitUntilTitleContains(ctx, p.driver, p.wait, phrase)
}

// WaitForVisibilityOfElement blocks until loc is displayed.
func (p *BasePage) WaitForVisibilityOfElement(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	return browser.WaitForVisible(ctx, p.driver, p.wait, loc)
}

func (p *BasePage) HoverOver(ctx context.Context, el browser.Element) error {
	return el.Hover(ctx)
}

func (p *BasePage) HoverOverAndClick(ctx context.Context, el browser.Element) error {
	if err := el.Hover(ctx); err != nil {
		return err
	}
	return el.Click(ctx)
}

// SearchAndSubmit types phrase into the header search bar and presses Enter.
func (p *BasePage) SearchAndSubmit(ctx context.Context, phrase string) error {
	if p.Header.SearchBar == nil {
		el, err := p.driver.Find(ctx, browser.CSS(SelectorSearchBar))
		if err != nil {
			return &PageError{Page: p.Name, Operation: "SearchAndSubmit", Cause: err}
		}
		p.Header.SearchBar = el
	}
	if err := p.Header.SearchBar.SendKeys(ctx, phrase); err != nil {
		return &PageError{Page: p.Name, Operation: "SearchAndSubmit", Cause: err}
	}
	if err := p.Header.SearchBar.Submit(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "SearchAndSubmit", Cause: err}
	}
	p.log.Info("search submitted", zap.String("phrase", phrase))
	return nil
}
