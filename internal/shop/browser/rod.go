package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// RodDriver drives a Chromium session through the DevTools protocol.
type RodDriver struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter

	policy      WaitPolicy
	log         *zap.Logger
	headless    bool
	humanTyping bool
}

type rodConfig struct {
	bin         string
	headless    bool
	stealth     bool
	humanTyping bool
	hijacker    func(*rod.Hijack)
	policy      WaitPolicy
	log         *zap.Logger
}

// RodOption configures a RodDriver.
type RodOption func(*rodConfig)

// WithBin sets the browser binary. Rod downloads one when empty.
func WithBin(path string) RodOption {
	return func(c *rodConfig) {
		c.bin = path
	}
}

// WithHeadless toggles headless mode (default true).
func WithHeadless(enabled bool) RodOption {
	return func(c *rodConfig) {
		c.headless = enabled
	}
}

// WithStealth opens the page through go-rod/stealth to mask automation flags.
func WithStealth(enabled bool) RodOption {
	return func(c *rodConfig) {
		c.stealth = enabled
	}
}

// WithHumanTyping paces keystrokes like a person.
func WithHumanTyping(enabled bool) RodOption {
	return func(c *rodConfig) {
		c.humanTyping = enabled
	}
}

// WithHijacker routes every request through h, e.g. a HAR replayer.
func WithHijacker(h func(*rod.Hijack)) RodOption {
	return func(c *rodConfig) {
		c.hijacker = h
	}
}

// WithRodWaitPolicy sets the element lookup budget.
func WithRodWaitPolicy(p WaitPolicy) RodOption {
	return func(c *rodConfig) {
		c.policy = p
	}
}

// WithRodLogger sets the driver logger.
func WithRodLogger(l *zap.Logger) RodOption {
	return func(c *rodConfig) {
		c.log = l
	}
}

// NewRodDriver launches a browser and opens a blank page.
func NewRodDriver(opts ...RodOption) (*RodDriver, error) {
	cfg := &rodConfig{
		headless: true,
		policy:   DefaultWaitPolicy(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	l := launcher.New().
		Headless(cfg.headless).
		Set("window-size", "1920,1080").
		Set("no-first-run").
		Set("no-default-browser-check")
	if cfg.bin != "" {
		l = l.Bin(cfg.bin)
	}
	if cfg.stealth {
		l = l.Set("disable-blink-features", "AutomationControlled")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	d := &RodDriver{
		browser:     browser,
		policy:      cfg.policy,
		log:         cfg.log.Named("rod"),
		headless:    cfg.headless,
		humanTyping: cfg.humanTyping,
	}

	if cfg.hijacker != nil {
		d.router = browser.HijackRequests()
		if err := d.router.Add("*", "", cfg.hijacker); err != nil {
			_ = browser.Close()
			return nil, fmt.Errorf("add hijack route: %w", err)
		}
		go d.router.Run()
	}

	if cfg.stealth {
		d.page, err = stealth.Page(browser)
	} else {
		d.page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	d.log.Debug("browser ready",
		zap.Bool("headless", cfg.headless),
		zap.Bool("stealth", cfg.stealth),
		zap.Bool("hijacked", cfg.hijacker != nil))

	return d, nil
}

// Page exposes the underlying Rod page for capture tooling.
func (d *RodDriver) Page() *rod.Page {
	return d.page
}

func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	p := d.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	d.log.Debug("navigated", zap.String("url", url))
	return nil
}

func (d *RodDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	p := d.page.Context(ctx).Timeout(d.policy.Find)
	defer p.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	switch loc.Strategy {
	case StrategyCSS:
		el, err = p.Element(loc.Selector)
	case StrategyXPath:
		el, err = p.ElementX(loc.Selector)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, loc.Strategy)
	}
	if err != nil {
		return nil, d.lookupError(ctx, loc, err)
	}

	// Detach the element from the lookup timeout.
	return &rodElement{el: el.Context(ctx), human: d.humanTyping}, nil
}

func (d *RodDriver) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	p := d.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	switch loc.Strategy {
	case StrategyCSS:
		els, err = p.Elements(loc.Selector)
	case StrategyXPath:
		els, err = p.ElementsX(loc.Selector)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, loc.Strategy)
	}
	if err != nil {
		return nil, d.lookupError(ctx, loc, err)
	}

	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el, human: d.humanTyping}
	}
	return out, nil
}

// lookupError maps Rod's retry exhaustion onto ErrElementNotFound while
// keeping caller cancellation distinguishable.
func (d *RodDriver) lookupError(ctx context.Context, loc Locator, err error) error {
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
		return fmt.Errorf("%w: %s", ErrElementNotFound, loc)
	}
	return fmt.Errorf("find %s: %w", loc, err)
}

func (d *RodDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

func (d *RodDriver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// HTML returns a snapshot of the current document with iframes inlined.
func (d *RodDriver) HTML(ctx context.Context) (string, error) {
	html, _, err := Snapshot(d.page.Context(ctx))
	return html, err
}

// Maximize is a no-op in headless mode, which has no window.
func (d *RodDriver) Maximize(ctx context.Context) error {
	if d.headless {
		return nil
	}
	return d.page.Context(ctx).SetWindow(&proto.BrowserBounds{
		WindowState: proto.BrowserWindowStateMaximized,
	})
}

// Close tears down the hijack router and the browser process.
func (d *RodDriver) Close() error {
	if d.router != nil {
		_ = d.router.Stop()
	}
	if d.browser != nil {
		return d.browser.Close()
	}
	return nil
}

type rodElement struct {
	el    *rod.Element
	human bool
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *rodElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Type(input.Backspace)
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if e.human {
		return TypeHuman(el, text)
	}
	return TypeFast(el, text)
}

func (e *rodElement) Submit(ctx context.Context) error {
	return e.el.Context(ctx).Type(input.Enter)
}

func (e *rodElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *rodElement) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

func (e *rodElement) Options(ctx context.Context) ([]string, error) {
	opts, err := e.el.Context(ctx).Elements("option")
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(opts))
	for _, opt := range opts {
		text, err := opt.Text()
		if err != nil {
			return nil, err
		}
		labels = append(labels, strings.TrimSpace(text))
	}
	return labels, nil
}

func (e *rodElement) SelectedOption(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => {
		const opt = this.options && this.options[this.selectedIndex];
		return opt ? opt.text : "";
	}`)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Value.Str()), nil
}

// SelectByLabel matches the whole option text. rod's text selector matches
// substrings, so "Virginia" would pick an earlier "West Virginia".
func (e *rodElement) SelectByLabel(ctx context.Context, label string) error {
	pattern := `^\s*` + regexp.QuoteMeta(label) + `\s*$`
	return e.el.Context(ctx).Select([]string{pattern}, true, rod.SelectorTypeRegex)
}
