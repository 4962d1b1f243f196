package pages

import (
	"context"
	"errors"
	"slices"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"go.uber.org/zap"
)

// SelectFromDropdown selects the option whose visible label is exactly
// label. An unknown label fails with *InvalidOptionError listing the valid
// options; it never silently does nothing.
func (p *BasePage) SelectFromDropdown(ctx context.Context, dropdown browser.Element, label string) error {
	options, err := dropdown.Options(ctx)
	if err != nil {
		return &PageError{Page: p.Name, Operation: "SelectFromDropdown", Cause: err}
	}

	if !slices.Contains(options, label) {
		p.log.Warn("not a valid dropdown option",
			zap.String("label", label),
			zap.Strings("options", options))
		return &InvalidOptionError{Label: label, Options: options}
	}

	if err := dropdown.SelectByLabel(ctx, label); err != nil {
		return &PageError{Page: p.Name, Operation: "SelectFromDropdown", Cause: err, Details: label}
	}
	return nil
}

// FillFormElement clears the field at loc and types value into it. A field
// that is absent from the page is logged and skipped; any other failure is
// returned.
func (p *BasePage) FillFormElement(ctx context.Context, loc browser.Locator, value string) error {
	field, err := p.driver.Find(ctx, loc)
	if errors.Is(err, browser.ErrElementNotFound) {
		p.log.Warn("form element not present", zap.Stringer("locator", loc))
		return nil
	}
	if err != nil {
		return &PageError{Page: p.Name, Operation: "FillFormElement", Cause: err, Details: loc.String()}
	}

	if err := field.Clear(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "FillFormElement", Cause: err, Details: loc.String()}
	}
	if err := field.SendKeys(ctx, value); err != nil {
		return &PageError{Page: p.Name, Operation: "FillFormElement", Cause: err, Details: loc.String()}
	}
	return nil
}
