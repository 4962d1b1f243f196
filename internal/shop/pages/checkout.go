package pages

import (
	"context"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
)

// CheckoutTitle is the title fragment shared by the checkout steps.
const CheckoutTitle = "Checkout"

// CheckoutLoginPage offers login or guest checkout.
type CheckoutLoginPage struct {
	*BasePage
}

// NewCheckoutLoginPage waits for the checkout title before returning.
func NewCheckoutLoginPage(ctx context.Context, d browser.Driver, opts ...Option) (*CheckoutLoginPage, error) {
	p := &CheckoutLoginPage{BasePage: newBasePage("checkout_login", d, opts...)}
	if err := p.WaitUntilTitleContains(ctx, CheckoutTitle); err != nil {
		return nil, &PageError{Page: p.Name, Operation: "Load", Cause: err}
	}
	return p, nil
}

// ClickCheckoutAsGuestButton continues to the shipping step without an account.
func (p *CheckoutLoginPage) ClickCheckoutAsGuestButton(ctx context.Context) error {
	el, err := p.driver.Find(ctx, browser.XPath(XPathCheckoutAsGuest))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "ClickCheckoutAsGuestButton", Cause: err}
	}
	if err := el.Click(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "ClickCheckoutAsGuestButton", Cause: err}
	}
	return nil
}
