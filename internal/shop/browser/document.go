package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
)

// Site maps URL paths to static HTML documents.
type Site map[string]string

// DocumentDriver is an offline Driver over a Site. CSS locators are
// resolved with goquery and XPath locators with htmlquery on the same node
// tree. Navigation follows anchors and GET form submissions; input values,
// selections and clicks mutate the in-memory document only.
type DocumentDriver struct {
	site Site
	log  *zap.Logger

	current *url.URL
	doc     *goquery.Document
	history []string
	closed  bool
}

// DocumentOption configures a DocumentDriver.
type DocumentOption func(*DocumentDriver)

// WithDocumentLogger sets the driver logger.
func WithDocumentLogger(l *zap.Logger) DocumentOption {
	return func(d *DocumentDriver) {
		d.log = l
	}
}

// NewDocumentDriver returns a driver with no page loaded.
func NewDocumentDriver(site Site, opts ...DocumentOption) *DocumentDriver {
	d := &DocumentDriver{
		site: site,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.Named("document")
	return d
}

// History lists every URL loaded, in order.
func (d *DocumentDriver) History() []string {
	return append([]string(nil), d.history...)
}

func (d *DocumentDriver) Navigate(ctx context.Context, rawURL string) error {
	if err := d.usable(ctx); err != nil {
		return err
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if d.current != nil {
		target = d.current.ResolveReference(target)
	}

	html, ok := d.site[target.Path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPageNotFound, target)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse %s: %w", target, err)
	}

	d.current = target
	d.doc = doc
	d.history = append(d.history, target.String())
	d.log.Debug("navigated", zap.String("url", target.String()))
	return nil
}

func (d *DocumentDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	els, err := d.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, loc)
	}
	return els[0], nil
}

func (d *DocumentDriver) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	if err := d.loaded(ctx); err != nil {
		return nil, err
	}

	var sel *goquery.Selection
	switch loc.Strategy {
	case StrategyCSS:
		sel = d.doc.Find(loc.Selector)
	case StrategyXPath:
		nodes, err := htmlquery.QueryAll(d.doc.Get(0), loc.Selector)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", loc.Selector, err)
		}
		sel = d.doc.FindNodes(nodes...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, loc.Strategy)
	}

	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &docElement{d: d, sel: s})
	})
	return out, nil
}

func (d *DocumentDriver) Title(ctx context.Context) (string, error) {
	if err := d.loaded(ctx); err != nil {
		return "", err
	}
	return normalizeSpace(d.doc.Find("title").First().Text()), nil
}

func (d *DocumentDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.loaded(ctx); err != nil {
		return "", err
	}
	return d.current.String(), nil
}

func (d *DocumentDriver) HTML(ctx context.Context) (string, error) {
	if err := d.loaded(ctx); err != nil {
		return "", err
	}
	return d.doc.Html()
}

func (d *DocumentDriver) Maximize(ctx context.Context) error {
	return d.usable(ctx)
}

func (d *DocumentDriver) Close() error {
	d.closed = true
	return nil
}

func (d *DocumentDriver) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.closed {
		return fmt.Errorf("document driver closed")
	}
	return nil
}

func (d *DocumentDriver) loaded(ctx context.Context) error {
	if err := d.usable(ctx); err != nil {
		return err
	}
	if d.doc == nil {
		return fmt.Errorf("%w: no page loaded", ErrPageNotFound)
	}
	return nil
}

// submit follows a GET form submission, encoding named inputs and selects
// into the query string.
func (d *DocumentDriver) submit(ctx context.Context, form *goquery.Selection) error {
	action := form.AttrOr("action", "")
	if action == "" {
		action = d.current.Path
	}

	query := url.Values{}
	form.Find("input[name], select[name], textarea[name]").Each(func(_ int, field *goquery.Selection) {
		name := field.AttrOr("name", "")
		switch goquery.NodeName(field) {
		case "select":
			query.Set(name, field.Find("option[selected]").First().AttrOr("value", ""))
		default:
			if t := field.AttrOr("type", ""); t == "submit" || t == "button" {
				return
			}
			query.Set(name, field.AttrOr("value", ""))
		}
	})

	target, err := url.Parse(action)
	if err != nil {
		return fmt.Errorf("parse form action %q: %w", action, err)
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return d.Navigate(ctx, target.String())
}

type docElement struct {
	d   *DocumentDriver
	sel *goquery.Selection
}

func (e *docElement) Text(ctx context.Context) (string, error) {
	if err := e.d.usable(ctx); err != nil {
		return "", err
	}
	return normalizeSpace(e.sel.Text()), nil
}

func (e *docElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.d.usable(ctx); err != nil {
		return "", false, err
	}
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

// Click follows the closest anchor, or submits the enclosing form when the
// element is (or sits inside) a button.
func (e *docElement) Click(ctx context.Context) error {
	if err := e.d.usable(ctx); err != nil {
		return err
	}
	if visible, _ := e.Visible(ctx); !visible {
		return fmt.Errorf("click %s: element not interactable", goquery.NodeName(e.sel))
	}

	if a := e.sel.Closest("a[href]"); a.Length() > 0 {
		return e.d.Navigate(ctx, a.AttrOr("href", ""))
	}
	if btn := e.sel.Closest("button, input[type=submit]"); btn.Length() > 0 {
		if form := btn.Closest("form"); form.Length() > 0 && btn.AttrOr("type", "submit") == "submit" {
			return e.d.submit(ctx, form)
		}
	}
	return nil
}

func (e *docElement) Clear(ctx context.Context) error {
	if err := e.d.usable(ctx); err != nil {
		return err
	}
	e.sel.SetAttr("value", "")
	return nil
}

func (e *docElement) SendKeys(ctx context.Context, text string) error {
	if err := e.d.usable(ctx); err != nil {
		return err
	}
	e.sel.SetAttr("value", e.sel.AttrOr("value", "")+text)
	return nil
}

func (e *docElement) Submit(ctx context.Context) error {
	if err := e.d.usable(ctx); err != nil {
		return err
	}
	form := e.sel.Closest("form")
	if form.Length() == 0 {
		return nil
	}
	return e.d.submit(ctx, form)
}

// Visible reports false when the element or an ancestor is hidden through
// the hidden attribute or an inline display/visibility style.
func (e *docElement) Visible(ctx context.Context) (bool, error) {
	if err := e.d.usable(ctx); err != nil {
		return false, err
	}
	hidden := false
	e.sel.Union(e.sel.Parents()).Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("hidden"); ok {
			hidden = true
		}
		style := strings.ReplaceAll(strings.ToLower(s.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			hidden = true
		}
	})
	return !hidden, nil
}

func (e *docElement) Hover(ctx context.Context) error {
	return e.d.usable(ctx)
}

func (e *docElement) Options(ctx context.Context) ([]string, error) {
	if err := e.d.usable(ctx); err != nil {
		return nil, err
	}
	var labels []string
	e.sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		labels = append(labels, normalizeSpace(opt.Text()))
	})
	return labels, nil
}

func (e *docElement) SelectedOption(ctx context.Context) (string, error) {
	if err := e.d.usable(ctx); err != nil {
		return "", err
	}
	opt := e.sel.Find("option[selected]").First()
	if opt.Length() == 0 {
		opt = e.sel.Find("option").First()
	}
	return normalizeSpace(opt.Text()), nil
}

func (e *docElement) SelectByLabel(ctx context.Context, label string) error {
	if err := e.d.usable(ctx); err != nil {
		return err
	}
	var match *goquery.Selection
	e.sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if normalizeSpace(opt.Text()) == label {
			match = opt
			return false
		}
		return true
	})
	if match == nil {
		return fmt.Errorf("%w: option %q", ErrElementNotFound, label)
	}
	e.sel.Find("option").RemoveAttr("selected")
	match.SetAttr("selected", "selected")
	return nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
