// Package checkout drives one guest checkout through the page objects, from
// product search to the submitted shipping address, and checks the values
// the shop shows on the way.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/pages"
	"go.uber.org/zap"
)

// ErrMismatch is returned when the shop shows a value other than the
// expected one.
var ErrMismatch = errors.New("unexpected value")

// MismatchError reports the first value that did not match.
type MismatchError struct {
	Step  string
	Field string
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s is %q, want %q", e.Step, e.Field, e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Expectation is the product a checkout buys and what the shop should
// display for it.
type Expectation struct {
	SearchPhrase string
	// ProductTitle is a fragment of the product page title.
	ProductTitle string

	Name        string
	ModelNumber string
	Color       string
	Fingerboard string
	Price       string
	Quantity    int

	// CartColor and CartFingerboard are the cart page's spelling of Color
	// and Fingerboard.
	CartColor       string
	CartFingerboard string

	Address pages.ShippingAddress
}

// JimiHendrixStratocaster is the checkout of one Olympic White Jimi Hendrix
// Stratocaster shipped to California.
func JimiHendrixStratocaster() Expectation {
	return Expectation{
		SearchPhrase:    "jimi hendrix stratocaster",
		ProductTitle:    "Jimi Hendrix",
		Name:            "JIMI HENDRIX STRATOCASTER",
		ModelNumber:     "0145802305",
		Color:           "OLYMPIC WHITE",
		Fingerboard:     "MAPLE",
		Price:           "$899.99",
		Quantity:        1,
		CartColor:       "Olympic White",
		CartFingerboard: "Maple",
		Address:         pages.DefaultShippingAddress(),
	}
}

// Result is what the shop displayed during a checkout.
type Result struct {
	Product          pages.ProductMetadata
	MiniCartQuantity pages.CartQuantity
	MiniCartItem     pages.MiniCartItem
	Cart             pages.CartItem
	FinalURL         string

	// FailedElements collects the names no page could resolve.
	FailedElements []string
}

// Scenario is one checkout run bound to a browser session. It does not own
// the session.
type Scenario struct {
	driver   browser.Driver
	expect   Expectation
	pageOpts []pages.Option
	log      *zap.Logger
}

// Option configures a Scenario.
type Option func(*Scenario)

// WithPageOptions is applied to every page the scenario opens.
func WithPageOptions(opts ...pages.Option) Option {
	return func(s *Scenario) {
		s.pageOpts = append(s.pageOpts, opts...)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scenario) {
		s.log = l
	}
}

func New(d browser.Driver, expect Expectation, opts ...Option) *Scenario {
	s := &Scenario{
		driver: d,
		expect: expect,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("checkout")
	return s
}

// Run walks the checkout. The first failed step or unexpected value stops
// the run; the returned Result holds what was read up to that point.
func (s *Scenario) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	steps := []struct {
		name string
		run  func(ctx context.Context, res *Result) error
	}{
		{"search", s.search},
		{"product", s.product},
		{"mini_cart", s.miniCart},
		{"cart", s.cart},
		{"guest_checkout", s.guestCheckout},
		{"shipping", s.shipping},
	}

	for _, step := range steps {
		if err := step.run(ctx, res); err != nil {
			s.log.Error("step failed", zap.String("step", step.name), zap.Error(err))
			return res, fmt.Errorf("%s: %w", step.name, err)
		}
		s.log.Info("step passed", zap.String("step", step.name))
	}

	url, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return res, err
	}
	res.FinalURL = url
	return res, nil
}

func (s *Scenario) options() []pages.Option {
	return append([]pages.Option{pages.WithLogger(s.log)}, s.pageOpts...)
}

func (s *Scenario) search(ctx context.Context, res *Result) error {
	home := pages.NewHomePage(s.driver, s.options()...)
	if err := home.Navigate(ctx); err != nil {
		return err
	}
	if err := home.WaitUntilTitleContains(ctx, "Fender"); err != nil {
		return err
	}
	if err := home.Maximize(ctx); err != nil {
		return err
	}
	if err := home.Pause(ctx); err != nil {
		return err
	}
	if err := home.SearchAndSubmit(ctx, s.expect.SearchPhrase); err != nil {
		return err
	}
	return home.Pause(ctx)
}

// product checks the product page, adds it to the cart and leaves the mini
// cart open.
func (s *Scenario) product(ctx context.Context, res *Result) error {
	p := pages.NewProductPage(s.driver, s.options()...)
	defer func() { res.FailedElements = append(res.FailedElements, p.FailedElements...) }()

	if err := p.WaitUntilTitleContains(ctx, s.expect.ProductTitle); err != nil {
		return err
	}
	if err := p.GetMetadataElements(ctx); err != nil {
		return err
	}
	res.Product = p.Metadata

	m := p.Metadata
	if err := firstMismatch("product",
		contains("name", s.expect.Name, m.ProductHeaderText),
		equal("color", s.expect.Color, m.SelectedColorText),
		equal("fingerboard", s.expect.Fingerboard, m.FingerboardMaterialText),
		equal("model number", s.expect.ModelNumber, m.ModelNumberText),
	); err != nil {
		return err
	}

	if err := p.AddToCart(ctx); err != nil {
		return err
	}
	return p.Pause(ctx)
}

// miniCart checks the overlay against the product page and opens the cart.
func (s *Scenario) miniCart(ctx context.Context, res *Result) error {
	p := pages.NewProductPage(s.driver, s.options()...)
	defer func() { res.FailedElements = append(res.FailedElements, p.FailedElements...) }()

	shown, err := p.MiniCartContentIsDisplayed(ctx)
	if err != nil {
		return err
	}
	if !shown {
		return &MismatchError{Step: "mini_cart", Field: "displayed", Want: "true", Got: "false"}
	}

	qty, err := p.GetMiniCartQuantity(ctx)
	if err != nil {
		return err
	}
	res.MiniCartQuantity = qty

	item, err := p.GetMiniCartProductMetadata(ctx, 1)
	if err != nil {
		return err
	}
	res.MiniCartItem = item

	want := strconv.Itoa(s.expect.Quantity)
	if err := firstMismatch("mini_cart",
		equal("cart quantity", want, strconv.Itoa(qty.Value)),
		equal("name", res.Product.ProductHeaderText, item.Name),
		equalFold("color", res.Product.SelectedColorText, item.Color),
		equalFold("fingerboard", res.Product.FingerboardMaterialText, item.Fingerboard),
		equal("price", res.Product.PriceText, item.Price),
		equal("quantity", want, strconv.Itoa(item.Quantity)),
	); err != nil {
		return err
	}

	return p.ClickMiniCartButton(ctx)
}

func (s *Scenario) cart(ctx context.Context, res *Result) error {
	c := pages.NewCartPage(s.driver, s.options()...)
	defer func() { res.FailedElements = append(res.FailedElements, c.FailedElements...) }()

	if err := c.WaitUntilTitleContains(ctx, "Cart"); err != nil {
		return err
	}
	if err := c.GetCartProductMetadata(ctx); err != nil {
		return err
	}
	res.Cart = c.Item

	if err := firstMismatch("cart",
		contains("name", s.expect.Name, c.Item.Name),
		equal("model number", s.expect.ModelNumber, c.Item.ModelNumber),
		equal("color", s.expect.CartColor, c.Item.Color),
		equal("fingerboard", s.expect.CartFingerboard, c.Item.Fingerboard),
		equal("price", s.expect.Price, c.Item.Price),
		equal("quantity", strconv.Itoa(s.expect.Quantity), c.Item.Quantity),
	); err != nil {
		return err
	}

	if err := c.ClickSecureCheckoutButton(ctx); err != nil {
		return err
	}
	return c.Pause(ctx)
}

func (s *Scenario) guestCheckout(ctx context.Context, _ *Result) error {
	login, err := pages.NewCheckoutLoginPage(ctx, s.driver, s.options()...)
	if err != nil {
		return err
	}
	if err := login.ClickCheckoutAsGuestButton(ctx); err != nil {
		return err
	}
	return login.Pause(ctx)
}

func (s *Scenario) shipping(ctx context.Context, _ *Result) error {
	ship, err := pages.NewShippingPage(ctx, s.driver, s.options()...)
	if err != nil {
		return err
	}
	if err := ship.FillInAndSubmitShippingAddress(ctx, s.expect.Address); err != nil {
		return err
	}
	return ship.Pause(ctx)
}

type check struct {
	field string
	want  string
	got   string
	ok    bool
}

func equal(field, want, got string) check {
	return check{field, want, got, want == got}
}

func equalFold(field, want, got string) check {
	return check{field, want, got, strings.EqualFold(want, got)}
}

func contains(field, want, got string) check {
	return check{field, want, got, strings.Contains(got, want)}
}

func firstMismatch(step string, checks ...check) error {
	for _, c := range checks {
		if !c.ok {
			return &MismatchError{Step: step, Field: c.field, Want: c.want, Got: c.got}
		}
	}
	return nil
}
