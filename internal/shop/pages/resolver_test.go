package pages

import (
	"context"
	"fmt"
	"testing"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"product_header_text", KindText},
		{"nav_item_list", KindList},
		{"search_bar", KindElement},
		{"textarea_list", KindText},
		{"", KindElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.name))
		})
	}
}

func TestRegistrySections_KindsFollowNames(t *testing.T) {
	for _, f := range headerSection.Fields {
		assert.Equal(t, KindOf(f.Name), f.Kind, "header field %s", f.Name)
	}
	for _, f := range productMetadataSection.Fields {
		assert.Equal(t, KindOf(f.Name), f.Kind, "product field %s", f.Name)
	}
}

func TestMiniCartItemFields_Names(t *testing.T) {
	for _, index := range []int{1, 2, 7} {
		fields := miniCartItemFields(index)
		require.Len(t, fields, 5)

		var names []string
		for _, f := range fields {
			names = append(names, f.Name)
			assert.Equal(t, KindText, f.Kind)
			assert.Contains(t, f.Locator.Selector, ":nth-child(")
		}
		prefix := fmt.Sprintf("mini_cart_item_%d_", index)
		assert.Equal(t, []string{
			prefix + "name",
			prefix + "color",
			prefix + "fingerboard",
			prefix + "price",
			prefix + "quantity",
		}, names)
	}
}

func TestBasePage_Resolve(t *testing.T) {
	ctx := context.Background()
	p := NewHomePage(fixtureDriver(t, "cart-add"), testOptions(t)...)

	v, err := p.Resolve(ctx, browser.CSS(SelectorNavItems), KindList)
	require.NoError(t, err)
	assert.Len(t, v.List, 3)

	v, err = p.Resolve(ctx, browser.CSS(SelectorMiniCartQuantity), KindText)
	require.NoError(t, err)
	assert.Equal(t, "(1)", v.Text)
	assert.Nil(t, v.Element)

	v, err = p.Resolve(ctx, browser.CSS(SelectorSearchBar), KindElement)
	require.NoError(t, err)
	assert.NotNil(t, v.Element)

	_, err = p.Resolve(ctx, browser.CSS("#nope"), KindText)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)

	v, err = p.Resolve(ctx, browser.CSS("#nope"), KindList)
	require.NoError(t, err, "an empty list is not a failure")
	assert.Empty(t, v.List)
}

func TestGetElements_Header(t *testing.T) {
	ctx := context.Background()
	p := NewHomePage(fixtureDriver(t, ""), testOptions(t)...)

	require.NoError(t, p.GetHeaderElements(ctx))

	assert.NotNil(t, p.Header.HeaderNav)
	assert.NotNil(t, p.Header.SearchBar)
	assert.NotNil(t, p.Header.NavProducts)
	assert.Len(t, p.Header.NavItemList, 3)
	assert.NotNil(t, p.Header.Cart)
	assert.Equal(t, "(0)", p.Header.CartQuantityText)
	assert.Empty(t, p.FailedElements)
	assert.Equal(t, []string{
		"header_nav", "search_bar", "nav_products", "nav_item_list", "cart", "cart_quantity_text",
	}, p.PageElements)
	assert.Contains(t, p.String(), "- nav_item_list\n")
}

func TestGetElements_MissingFieldsAreRecorded(t *testing.T) {
	ctx := context.Background()
	html := `<html><head><title>Bare</title></head><body>
		<div id="navigation"><input id="search-value"></div>
	</body></html>`
	p := NewHomePage(htmlDriver(t, html), testOptions(t)...)

	require.NoError(t, p.GetElements(ctx, SectionHeader))

	assert.NotNil(t, p.Header.HeaderNav)
	assert.NotNil(t, p.Header.SearchBar)
	assert.Nil(t, p.Header.NavProducts)
	assert.Empty(t, p.Header.NavItemList)
	assert.Equal(t, []string{"nav_products", "cart", "cart_quantity_text"}, p.FailedElements)
}

func TestGetElements_UnknownSection(t *testing.T) {
	p := NewHomePage(fixtureDriver(t, ""), testOptions(t)...)

	err := p.GetElements(context.Background(), "footer")
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Empty(t, p.PageElements)
}

func TestGetElements_DriverFailureAborts(t *testing.T) {
	d := fixtureDriver(t, "")
	p := NewHomePage(d, testOptions(t)...)
	require.NoError(t, d.Close())

	err := p.GetElements(context.Background(), "")
	require.Error(t, err)

	var pe *PageError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "GetElements", pe.Operation)
	assert.Equal(t, SectionHeader, pe.Details)
}

func TestSections_RegistrationOrder(t *testing.T) {
	d := fixtureDriver(t, "")
	assert.Equal(t, []string{SectionHeader}, NewHomePage(d).Sections())
	assert.Equal(t, []string{SectionHeader, SectionProductMetadata}, NewProductPage(d).Sections())
}

func TestProbes_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Probes() {
		key := p.Page + "/" + p.Name
		assert.False(t, seen[key], "duplicate probe %s", key)
		seen[key] = true
		assert.NotEmpty(t, p.Locator.Selector)
	}
	assert.True(t, seen["product/mini_cart_item_1_name"])
	assert.True(t, seen["checkout_login/checkout_as_guest"])
}
