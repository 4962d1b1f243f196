package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"go.uber.org/zap"
)

// MiniCartItem is one line of the mini cart overlay.
type MiniCartItem struct {
	Name         string
	Color        string
	Fingerboard  string
	Price        string
	QuantityText string
	Quantity     int
}

// QuantityStatus tells how a cart quantity was obtained.
type QuantityStatus int

const (
	QuantityFound QuantityStatus = iota
	QuantityAbsent
	QuantityMalformed
)

func (s QuantityStatus) String() string {
	switch s {
	case QuantityFound:
		return "found"
	case QuantityAbsent:
		return "absent"
	default:
		return "malformed"
	}
}

// CartQuantity is the header cart badge. Value is 0 unless Status is
// QuantityFound.
type CartQuantity struct {
	Value  int
	Status QuantityStatus
	Raw    string
}

// ParseCartQuantity parses badge text such as "(3)". Surrounding whitespace
// and parentheses are stripped before the integer is read.
func ParseCartQuantity(text string) CartQuantity {
	inner := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "()"))
	n, err := strconv.Atoi(inner)
	if err != nil {
		return CartQuantity{Status: QuantityMalformed, Raw: text}
	}
	return CartQuantity{Value: n, Status: QuantityFound, Raw: text}
}

// GetMiniCartQuantity reads the cart badge from the header. An absent or
// malformed badge degrades to 0 and is recorded as a failed element.
func (p *BasePage) GetMiniCartQuantity(ctx context.Context) (CartQuantity, error) {
	v, err := p.Resolve(ctx, browser.CSS(SelectorMiniCartQuantity), KindText)
	switch {
	case errors.Is(err, browser.ErrElementNotFound):
		p.MiniCartQuantity = CartQuantity{Status: QuantityAbsent}
		p.markFailed("mini_cart_quantity")
	case err != nil:
		return CartQuantity{}, &PageError{Page: p.Name, Operation: "GetMiniCartQuantity", Cause: err}
	default:
		p.MiniCartQuantity = ParseCartQuantity(v.Text)
		if p.MiniCartQuantity.Status == QuantityMalformed {
			p.markFailed("mini_cart_quantity")
			p.log.Warn("cart quantity unreadable", zap.String("raw", v.Text))
		}
	}
	return p.MiniCartQuantity, nil
}

// GetMiniCartProductMetadata reads the index-th mini cart item (1-based, in
// display order) into MiniCartItems[index]. Missing sub-fields are recorded
// as failed elements; a quantity that is not an integer is an error.
func (p *BasePage) GetMiniCartProductMetadata(ctx context.Context, index int) (MiniCartItem, error) {
	if index < 1 {
		return MiniCartItem{}, fmt.Errorf("mini cart index must be 1-based, got %d", index)
	}

	var item MiniCartItem
	if err := resolveFields(ctx, p, miniCartItemFields(index), &item); err != nil {
		return MiniCartItem{}, &PageError{Page: p.Name, Operation: "GetMiniCartProductMetadata", Cause: err}
	}

	if item.QuantityText != "" {
		n, err := strconv.Atoi(strings.TrimSpace(item.QuantityText))
		if err != nil {
			return MiniCartItem{}, &PageError{
				Page:      p.Name,
				Operation: "GetMiniCartProductMetadata",
				Cause:     fmt.Errorf("%w: %q", ErrMalformedQuantity, item.QuantityText),
				Details:   fmt.Sprintf("item %d", index),
			}
		}
		item.Quantity = n
	}

	p.MiniCartItems[index] = item
	return item, nil
}

// MiniCartContentIsDisplayed reports whether the mini cart overlay is shown.
func (p *BasePage) MiniCartContentIsDisplayed(ctx context.Context) (bool, error) {
	el, err := p.driver.Find(ctx, browser.CSS(SelectorMiniCartContent))
	if err != nil {
		return false, &PageError{Page: p.Name, Operation: "MiniCartContentIsDisplayed", Cause: err}
	}
	return el.Visible(ctx)
}

// ClickMiniCartButton opens the cart page from the header.
func (p *BasePage) ClickMiniCartButton(ctx context.Context) error {
	el, err := p.driver.Find(ctx, browser.CSS(SelectorMiniCartLink))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "ClickMiniCartButton", Cause: err}
	}
	if err := el.Click(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "ClickMiniCartButton", Cause: err}
	}
	return nil
}
