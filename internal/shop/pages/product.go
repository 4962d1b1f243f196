package pages

import (
	"context"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
)

// ProductMetadata is the product_metadata section of a product page.
type ProductMetadata struct {
	ProductHeader           browser.Element
	ProductHeaderText       string
	ModelNumberText         string
	SelectedColorText       string
	FingerboardMaterialText string
	PriceText               string
}

// ProductPage is a product detail page.
type ProductPage struct {
	*BasePage

	Metadata ProductMetadata
}

func NewProductPage(d browser.Driver, opts ...Option) *ProductPage {
	p := &ProductPage{BasePage: newBasePage("product", d, opts...)}
	p.register(SectionProductMetadata, func(ctx context.Context) error {
		return resolveFields(ctx, p.BasePage, productMetadataSection.Fields, &p.Metadata)
	})
	return p
}

func (p *ProductPage) GetMetadataElements(ctx context.Context) error {
	return p.GetElements(ctx, SectionProductMetadata)
}

// AddToCart adds the currently configured product to the cart. The shop
// answers by opening the mini cart overlay.
func (p *ProductPage) AddToCart(ctx context.Context) error {
	el, err := p.driver.Find(ctx, browser.CSS(SelectorAddToCart))
	if err != nil {
		return &PageError{Page: p.Name, Operation: "AddToCart", Cause: err}
	}
	if err := el.Click(ctx); err != nil {
		return &PageError{Page: p.Name, Operation: "AddToCart", Cause: err}
	}
	return nil
}
