package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCartQuantity(t *testing.T) {
	tests := []struct {
		text   string
		value  int
		status QuantityStatus
	}{
		{"(3)", 3, QuantityFound},
		{"(0)", 0, QuantityFound},
		{" ( 12 ) ", 12, QuantityFound},
		{"3", 3, QuantityFound},
		{"((2))", 2, QuantityFound},
		{"()", 0, QuantityMalformed},
		{"", 0, QuantityMalformed},
		{"(three)", 0, QuantityMalformed},
		{"(1 item)", 0, QuantityMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseCartQuantity(tt.text)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.text, got.Raw)
		})
	}
}

func TestGetMiniCartQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		p := NewHomePage(fixtureDriver(t, ""), testOptions(t)...)
		q, err := p.GetMiniCartQuantity(ctx)
		require.NoError(t, err)
		assert.Equal(t, CartQuantity{Value: 0, Status: QuantityFound, Raw: "(0)"}, q)
		assert.Empty(t, p.FailedElements)
	})

	t.Run("after add to cart", func(t *testing.T) {
		p := NewHomePage(fixtureDriver(t, "cart-add"), testOptions(t)...)
		q, err := p.GetMiniCartQuantity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, q.Value)
		assert.Equal(t, q, p.MiniCartQuantity)
	})

	t.Run("badge absent", func(t *testing.T) {
		p := NewHomePage(htmlDriver(t, `<html><body><div class="mini-cart-total"></div></body></html>`), testOptions(t)...)
		q, err := p.GetMiniCartQuantity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, q.Value)
		assert.Equal(t, QuantityAbsent, q.Status)
		assert.Equal(t, []string{"mini_cart_quantity"}, p.FailedElements)
	})

	t.Run("badge malformed", func(t *testing.T) {
		p := NewHomePage(htmlDriver(t, `<html><body><span class="mini-cart-qty">(many)</span></body></html>`), testOptions(t)...)
		q, err := p.GetMiniCartQuantity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, q.Value)
		assert.Equal(t, QuantityMalformed, q.Status)
		assert.Equal(t, "(many)", q.Raw)
		assert.Equal(t, []string{"mini_cart_quantity"}, p.FailedElements)
	})
}

func TestGetMiniCartProductMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("first item", func(t *testing.T) {
		p := NewProductPage(fixtureDriver(t, "cart-add"), testOptions(t)...)
		item, err := p.GetMiniCartProductMetadata(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, MiniCartItem{
			Name:         "JIMI HENDRIX STRATOCASTER",
			Color:        "Olympic White",
			Fingerboard:  "Maple",
			Price:        "$899.99",
			QuantityText: "1",
			Quantity:     1,
		}, item)
		assert.Equal(t, item, p.MiniCartItems[1])
		assert.Equal(t, []string{
			"mini_cart_item_1_name",
			"mini_cart_item_1_color",
			"mini_cart_item_1_fingerboard",
			"mini_cart_item_1_price",
			"mini_cart_item_1_quantity",
		}, p.PageElements)
	})

	t.Run("index past the last item", func(t *testing.T) {
		p := NewProductPage(fixtureDriver(t, "cart-add"), testOptions(t)...)
		item, err := p.GetMiniCartProductMetadata(ctx, 2)
		require.NoError(t, err)
		assert.Zero(t, item)
		assert.Len(t, p.FailedElements, 5)
		assert.Equal(t, "mini_cart_item_2_name", p.FailedElements[0])
	})

	t.Run("index is one-based", func(t *testing.T) {
		p := NewProductPage(fixtureDriver(t, "cart-add"), testOptions(t)...)
		_, err := p.GetMiniCartProductMetadata(ctx, 0)
		assert.Error(t, err)
		assert.Empty(t, p.MiniCartItems)
	})

	t.Run("malformed quantity", func(t *testing.T) {
		html := strings.Replace(testutil.LoadFixture(t, "product_added"),
			`<span class="label">Qty:</span> <span class="value">1</span>`,
			`<span class="label">Qty:</span> <span class="value">one</span>`, 1)
		p := NewProductPage(htmlDriver(t, html), testOptions(t)...)

		_, err := p.GetMiniCartProductMetadata(ctx, 1)
		assert.ErrorIs(t, err, ErrMalformedQuantity)
		assert.NotContains(t, p.MiniCartItems, 1)
	})
}

func TestMiniCartContentIsDisplayed(t *testing.T) {
	ctx := context.Background()

	shown, err := NewHomePage(fixtureDriver(t, ""), testOptions(t)...).MiniCartContentIsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, shown)

	shown, err = NewHomePage(fixtureDriver(t, "cart-add"), testOptions(t)...).MiniCartContentIsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, shown)
}

func TestClickMiniCartButton(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "cart-add")
	p := NewHomePage(d, testOptions(t)...)

	require.NoError(t, p.ClickMiniCartButton(ctx))

	title, err := d.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cart | Fender", title)
}
