package pages

import (
	"context"
	"net/url"
	"testing"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage_NavigateAndSearch(t *testing.T) {
	ctx := context.Background()
	d := browser.NewDocumentDriver(testutil.FixtureSite(t))
	home := NewHomePage(d, testOptions(t)...)

	require.NoError(t, home.Navigate(ctx))
	require.NoError(t, home.WaitUntilTitleContains(ctx, "Fender"))
	require.NoError(t, home.SearchAndSubmit(ctx, "jimi hendrix stratocaster"))

	current, err := home.CurrentURL(ctx)
	require.NoError(t, err)
	u, err := url.Parse(current)
	require.NoError(t, err)
	assert.Equal(t, "/en-US/search", u.Path)
	assert.Equal(t, "jimi hendrix stratocaster", u.Query().Get("q"))
}

func TestBasePage_NavigateUnknownURL(t *testing.T) {
	d := browser.NewDocumentDriver(testutil.FixtureSite(t))
	home := NewHomePage(d, append(testOptions(t), WithURL("https://shop.fender.com/fr-FR/"))...)

	err := home.Navigate(context.Background())
	var pe *PageError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Navigate", pe.Operation)
	assert.ErrorIs(t, err, browser.ErrPageNotFound)
}

func TestBasePage_WaitUntilTitleContainsTimesOut(t *testing.T) {
	home := NewHomePage(fixtureDriver(t, ""), testOptions(t)...)

	err := home.WaitUntilTitleContains(context.Background(), "Jimi Hendrix")
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestProductPage_Metadata(t *testing.T) {
	ctx := context.Background()
	p := NewProductPage(fixtureDriver(t, "search?q=jimi+hendrix+stratocaster"), testOptions(t)...)

	require.NoError(t, p.GetMetadataElements(ctx))

	assert.NotNil(t, p.Metadata.ProductHeader)
	assert.Equal(t, "JIMI HENDRIX STRATOCASTER", p.Metadata.ProductHeaderText)
	assert.Equal(t, "0145802305", p.Metadata.ModelNumberText)
	assert.Equal(t, "OLYMPIC WHITE", p.Metadata.SelectedColorText)
	assert.Equal(t, "MAPLE", p.Metadata.FingerboardMaterialText)
	assert.Equal(t, "$899.99", p.Metadata.PriceText)
	assert.Empty(t, p.FailedElements)
}

func TestProductPage_AllSections(t *testing.T) {
	p := NewProductPage(fixtureDriver(t, "search"), testOptions(t)...)

	require.NoError(t, p.GetElements(context.Background(), ""))
	assert.Len(t, p.PageElements, len(headerSection.Fields)+len(productMetadataSection.Fields))
	assert.NotNil(t, p.Header.SearchBar)
	assert.Equal(t, "JIMI HENDRIX STRATOCASTER", p.Metadata.ProductHeaderText)
}

func TestProductPage_AddToCart(t *testing.T) {
	ctx := context.Background()
	p := NewProductPage(fixtureDriver(t, "search"), testOptions(t)...)

	require.NoError(t, p.AddToCart(ctx))

	shown, err := p.MiniCartContentIsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, shown)

	q, err := p.GetMiniCartQuantity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Value)
}

func TestCartPage(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "cart")
	p := NewCartPage(d, testOptions(t)...)

	require.NoError(t, p.GetCartProductMetadata(ctx))
	assert.Equal(t, "JIMI HENDRIX STRATOCASTER", p.Item.Name)
	assert.Equal(t, "0145802305", p.Item.ModelNumber)
	assert.Equal(t, "Olympic White", p.Item.Color)
	assert.Equal(t, "Maple", p.Item.Fingerboard)
	assert.Equal(t, "$899.99", p.Item.Price)
	assert.Equal(t, "1", p.Item.Quantity)
	assert.Empty(t, p.FailedElements)

	require.NoError(t, p.ClickSecureCheckoutButton(ctx))
	title, err := d.Title(ctx)
	require.NoError(t, err)
	assert.Contains(t, title, CheckoutTitle)
}

func TestCartPage_MissingCheckoutButtons(t *testing.T) {
	html := `<html><body><form id="checkout-form"><button>PayPal</button></form></body></html>`
	p := NewCartPage(htmlDriver(t, html), testOptions(t)...)

	err := p.ClickSecureCheckoutButton(context.Background())
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestCheckoutLoginPage(t *testing.T) {
	ctx := context.Background()

	t.Run("continues as guest", func(t *testing.T) {
		d := fixtureDriver(t, "checkout-login")
		p, err := NewCheckoutLoginPage(ctx, d, testOptions(t)...)
		require.NoError(t, err)

		require.NoError(t, p.ClickCheckoutAsGuestButton(ctx))
		current, err := d.CurrentURL(ctx)
		require.NoError(t, err)
		assert.Contains(t, current, "/en-US/shipping")
	})

	t.Run("wrong page times out", func(t *testing.T) {
		_, err := NewCheckoutLoginPage(ctx, fixtureDriver(t, "cart"), testOptions(t)...)
		assert.ErrorIs(t, err, browser.ErrTimeout)

		var timeout *browser.TimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Contains(t, timeout.Condition, CheckoutTitle)
	})
}

func TestShippingPage_FillInAndSubmit(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "shipping")
	p, err := NewShippingPage(ctx, d, testOptions(t)...)
	require.NoError(t, err)

	addr := DefaultShippingAddress()
	require.NoError(t, p.FillInAndSubmitShippingAddress(ctx, addr))

	current, err := d.CurrentURL(ctx)
	require.NoError(t, err)
	u, err := url.Parse(current)
	require.NoError(t, err)
	assert.Equal(t, "/en-US/billing", u.Path)

	q := u.Query()
	assert.Equal(t, "Jane", q.Get("dwfrm_singleshipping_shippingAddress_addressFields_firstName"))
	assert.Equal(t, "90005", q.Get("dwfrm_singleshipping_shippingAddress_addressFields_zip"))
	assert.Equal(t, "CA", q.Get("dwfrm_singleshipping_shippingAddress_addressFields_states_state"))
}

func TestShippingPage_InvalidState(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "shipping")
	p, err := NewShippingPage(ctx, d, testOptions(t)...)
	require.NoError(t, err)

	addr := DefaultShippingAddress()
	addr.State = "Narnia"
	err = p.FillInAndSubmitShippingAddress(ctx, addr)
	assert.ErrorIs(t, err, ErrInvalidOption)

	title, _ := d.Title(ctx)
	assert.Equal(t, "Checkout | Fender", title, "form is not submitted")
}

func TestBasePage_HoverOverAndClick(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "")
	home := NewHomePage(d, testOptions(t)...)

	link, err := d.Find(ctx, browser.CSS("a.mini-cart-link"))
	require.NoError(t, err)
	require.NoError(t, home.HoverOver(ctx, link))

	require.NoError(t, home.HoverOverAndClick(ctx, link))
	title, err := home.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cart | Fender", title)
}

func TestBasePage_HoverOverClosedDriver(t *testing.T) {
	ctx := context.Background()
	d := fixtureDriver(t, "")
	home := NewHomePage(d, testOptions(t)...)

	link, err := d.Find(ctx, browser.CSS("a.mini-cart-link"))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	assert.Error(t, home.HoverOver(ctx, link))
	assert.Error(t, home.HoverOverAndClick(ctx, link))
}
