package pages

import (
	"context"
	"fmt"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
)

// secureCheckoutButton is the position of "Secure Checkout" among the
// checkout form's buttons.
const secureCheckoutButton = 2

// CartItem is the first line item of the cart page.
type CartItem struct {
	Name             string
	ModelNumber      string
	Color            string
	Fingerboard      string
	Price            string
	QuantityDropdown browser.Element
	Quantity         string
}

// CartPage is the full cart page.
type CartPage struct {
	*BasePage

	Item CartItem
}

func NewCartPage(d browser.Driver, opts ...Option) *CartPage {
	return &CartPage{BasePage: newBasePage("cart", d, opts...)}
}

// GetCartProductMetadata reads the cart line item, including the selected
// quantity of its dropdown.
func (p *CartPage) GetCartProductMetadata(ctx context.Context) error {
	var item CartItem
	if err := resolveFields(ctx, p.BasePage, cartItemFields, &item); err != nil {
		return &PageError{Page: p.Name, Operation: "GetCartProductMetadata", Cause: err}
	}

	if item.QuantityDropdown != nil {
		qty, err := item.QuantityDropdown.SelectedOption(ctx)
		if err != nil {
			return &PageError{Page: p.Name, Operation: "GetCartProductMetadata", Cause: err, Details: "quantity"}
		}
		item.Quantity = qty
	}

	p.Item = item
	return nil
}

func (p *CartPage) ClickSecureCheckoutButton(ctx context.Context) error {
	buttons, err := p.driver.FindAll(ctx, browser.CSS(SelectorCheckoutButtons))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "ClickSecureCheckoutButton", Cause: err}
	}
	if len(buttons) <= secureCheckoutButton {
		return &PageError{
			Page:      p.Name,
			Operation: "ClickSecureCheckoutButton",
			Cause:     browser.ErrElementNotFound,
			Details:   fmt.Sprintf("found %d checkout buttons", len(buttons)),
		}
	}
	if err := buttons[secureCheckoutButton].Click(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "ClickSecureCheckoutButton", Cause: err}
	}
	return nil
}
