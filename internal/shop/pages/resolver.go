package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"go.uber.org/zap"
)

// Kind selects what a resolved locator is captured as.
type Kind int

const (
	// KindElement captures a single element handle.
	KindElement Kind = iota
	// KindText captures the element's rendered text.
	KindText
	// KindList captures every matching element in document order.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	default:
		return "element"
	}
}

// KindOf derives the capture kind from an element name: names containing
// "text" capture text, names containing "list" capture a list.
func KindOf(name string) Kind {
	switch {
	case strings.Contains(name, "text"):
		return KindText
	case strings.Contains(name, "list"):
		return KindList
	default:
		return KindElement
	}
}

// Value is a resolved locator.
type Value struct {
	Kind    Kind
	Element browser.Element
	Text    string
	List    []browser.Element
}

// Field binds a named locator to a slot of the record R.
type Field[R any] struct {
	Name    string
	Locator browser.Locator
	Kind    Kind
	Assign  func(r *R, v Value)
}

// Section is a named, ordered table of fields populating one record type.
type Section[R any] struct {
	Name   string
	Fields []Field[R]
}

func elementField[R any](name string, loc browser.Locator, slot func(*R) *browser.Element) Field[R] {
	return Field[R]{Name: name, Locator: loc, Kind: KindElement, Assign: func(r *R, v Value) { *slot(r) = v.Element }}
}

func textField[R any](name string, loc browser.Locator, slot func(*R) *string) Field[R] {
	return Field[R]{Name: name, Locator: loc, Kind: KindText, Assign: func(r *R, v Value) { *slot(r) = v.Text }}
}

func listField[R any](name string, loc browser.Locator, slot func(*R) *[]browser.Element) Field[R] {
	return Field[R]{Name: name, Locator: loc, Kind: KindList, Assign: func(r *R, v Value) { *slot(r) = v.List }}
}

// Resolve looks up a single locator and captures it as kind.
func (p *BasePage) Resolve(ctx context.Context, loc browser.Locator, kind Kind) (Value, error) {
	v := Value{Kind: kind}
	switch kind {
	case KindList:
		els, err := p.driver.FindAll(ctx, loc)
		if err != nil {
			return v, err
		}
		v.List = els
	default:
		el, err := p.driver.Find(ctx, loc)
		if err != nil {
			return v, err
		}
		if kind == KindText {
			text, err := el.Text(ctx)
			if err != nil {
				return v, fmt.Errorf("read text of %s: %w", loc, err)
			}
			v.Text = text
			return v, nil
		}
		v.Element = el
	}
	return v, nil
}

// resolveFields resolves each field into rec. A field that is not found is
// recorded in FailedElements and skipped; other driver errors abort.
func resolveFields[R any](ctx context.Context, p *BasePage, fields []Field[R], rec *R) error {
	for _, f := range fields {
		v, err := p.Resolve(ctx, f.Locator, f.Kind)
		if errors.Is(err, browser.ErrElementNotFound) {
			p.markFailed(f.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f.Name, err)
		}
		f.Assign(rec, v)
		p.PageElements = append(p.PageElements, f.Name)
	}
	return nil
}

func (p *BasePage) markFailed(name string) {
	p.FailedElements = append(p.FailedElements, name)
	p.log.Warn("element not found", zap.String("element", name))
}
