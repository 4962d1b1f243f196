// Package browser defines the driver boundary used by the page objects and
// provides Rod-backed and static-document implementations of it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrElementNotFound     = errors.New("element not found")
	ErrTimeout             = errors.New("timed out")
	ErrUnsupportedStrategy = errors.New("unsupported locator strategy")
	ErrPageNotFound        = errors.New("page not found")
)

// Strategy is the lookup mechanism of a Locator.
type Strategy string

const (
	StrategyCSS   Strategy = "css selector"
	StrategyXPath Strategy = "xpath"
)

// Locator identifies an element in the live document.
type Locator struct {
	Strategy Strategy
	Selector string
}

// CSS returns a css-selector locator.
func CSS(selector string) Locator {
	return Locator{Strategy: StrategyCSS, Selector: selector}
}

// XPath returns an xpath locator.
func XPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Selector: expr}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// Driver is the browser session a page object talks to.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// Find returns the first element matching loc, or ErrElementNotFound.
	Find(ctx context.Context, loc Locator) (Element, error)
	// FindAll returns every match in document order. No match is not an error.
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
	Title(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Maximize(ctx context.Context) error
	Close() error
}

// Element is a live handle on a document node.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	// Submit presses Enter on the element.
	Submit(ctx context.Context) error
	Visible(ctx context.Context) (bool, error)
	Hover(ctx context.Context) error

	// Options lists the visible labels of a <select> element.
	Options(ctx context.Context) ([]string, error)
	SelectedOption(ctx context.Context) (string, error)
	SelectByLabel(ctx context.Context, label string) error
}

// TimeoutError reports a wait whose condition never held within budget.
type TimeoutError struct {
	Condition string
	After     time.Duration
	Last      error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("waiting for %s: timed out after %s (last error: %v)", e.Condition, e.After, e.Last)
	}
	return fmt.Sprintf("waiting for %s: timed out after %s", e.Condition, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}
