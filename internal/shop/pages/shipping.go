package pages

import (
	"context"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"go.uber.org/zap"
)

// ShippingAddress is the data entered on the shipping step.
type ShippingAddress struct {
	FirstName string
	LastName  string
	Address1  string
	City      string
	Zip       string
	Phone     string
	// State is the visible label of the state dropdown, e.g. "California".
	State string
}

// DefaultShippingAddress is a deliverable test address.
func DefaultShippingAddress() ShippingAddress {
	return ShippingAddress{
		FirstName: "Jane",
		LastName:  "Doe",
		Address1:  "833 S Plymouth Blvd Apt. 3",
		City:      "Los Angeles",
		Zip:       "90005",
		Phone:     "3105550100",
		State:     "California",
	}
}

type formField struct {
	name    string
	locator browser.Locator
	value   string
}

func shippingFields(addr ShippingAddress) []formField {
	return []formField{
		{"first_name", browser.CSS(SelectorShippingFirstName), addr.FirstName},
		{"last_name", browser.CSS(SelectorShippingLastName), addr.LastName},
		{"address1", browser.CSS(SelectorShippingAddress1), addr.Address1},
		{"city", browser.CSS(SelectorShippingCity), addr.City},
		{"zip", browser.CSS(SelectorShippingZip), addr.Zip},
		{"phone", browser.CSS(SelectorShippingPhone), addr.Phone},
	}
}

// ShippingPage is the guest shipping address form.
type ShippingPage struct {
	*BasePage
}

// NewShippingPage waits for the checkout title before returning.
func NewShippingPage(ctx context.Context, d browser.Driver, opts ...Option) (*ShippingPage, error) {
	p := &ShippingPage{BasePage: newBasePage("shipping", d, opts...)}
	if err := p.WaitUntilTitleContains(ctx, CheckoutTitle); err != nil {
		return nil, &PageError{Page: p.Name, Operation: "Load", Cause: err}
	}
	return p, nil
}

// FillInAndSubmitShippingAddress fills the shipping form, selects the state
// and submits.
func (p *ShippingPage) FillInAndSubmitShippingAddress(ctx context.Context, addr ShippingAddress) error {
	for _, f := range shippingFields(addr) {
		if err := p.FillFormElement(ctx, f.locator, f.value); err != nil {
			return err
		}
	}

	state, err := p.driver.Find(ctx, browser.CSS(SelectorShippingState))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "FillInAndSubmitShippingAddress", Cause: err, Details: "state"}
	}
	if err := p.SelectFromDropdown(ctx, state, addr.State); err != nil {
		return err
	}

	submit, err := p.driver.Find(ctx, browser.CSS(SelectorShippingSubmit))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "FillInAndSubmitShippingAddress", Cause: err, Details: "submit"}
	}
	if err := submit.Click(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "FillInAndSubmitShippingAddress", Cause: err, Details: "submit"}
	}

	p.log.Info("shipping address submitted", zap.String("state", addr.State))
	return nil
}
