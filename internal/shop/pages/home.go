package pages

import "github.com/grez-lucas/fender-checkout/internal/shop/browser"

// HomePage is the storefront landing page.
type HomePage struct {
	*BasePage
}

func NewHomePage(d browser.Driver, opts ...Option) *HomePage {
	return &HomePage{BasePage: newBasePage("home", d, opts...)}
}
