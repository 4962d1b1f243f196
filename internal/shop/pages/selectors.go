package pages

import (
	"fmt"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
)

// DefaultURL is the storefront entry point.
const DefaultURL = "http://shop.fender.com/en-US/"

// Selectors for the Fender storefront (Demandware).
const (
	// Header
	SelectorHeaderNav        = "div#navigation"
	SelectorSearchBar        = "input#search-value"
	SelectorNavProducts      = "nav#siteNav ul li.item a[data-category-id=fender-products]"
	SelectorNavItems         = "nav#siteNav ul li.item"
	SelectorCart             = "div.mini-cart-total"
	SelectorCartQuantityText = "div.mini-cart-total span.mini-cart-qty"

	// Mini cart
	SelectorMiniCartQuantity = "span.mini-cart-qty"
	SelectorMiniCartContent  = "div.mini-cart-content"
	SelectorMiniCartLink     = "a.mini-cart-link"

	// Product page
	SelectorProductHeader       = "h1.prod-name"
	SelectorModelNumber         = "span#pdpProductID"
	SelectorSelectedColor       = "div.product-variations ul li.attribute:nth-child(1) div.selected-value span"
	SelectorFingerboardMaterial = "div.product-variations ul li.attribute:nth-child(2) div.selected-value span"
	SelectorPrice               = "span.price-sales"
	SelectorAddToCart           = "button#add-to-cart"

	// Cart page
	SelectorCartQuantityDropdown = "select#dw_frmquantity"
	SelectorCheckoutButtons      = "#checkout-form button"

	// Shipping page
	SelectorShippingFirstName = "input#dwfrm_singleshipping_shippingAddress_addressFields_firstName"
	SelectorShippingLastName  = "input#dwfrm_singleshipping_shippingAddress_addressFields_lastName"
	SelectorShippingAddress1  = "input#dwfrm_singleshipping_shippingAddress_addressFields_address1"
	SelectorShippingCity      = "input#dwfrm_singleshipping_shippingAddress_addressFields_city"
	SelectorShippingZip       = "input#dwfrm_singleshipping_shippingAddress_addressFields_zip"
	SelectorShippingPhone     = "input#dwfrm_singleshipping_shippingAddress_addressFields_phone"
	SelectorShippingState     = "select#dwfrm_singleshipping_shippingAddress_addressFields_states_state"
	SelectorShippingSubmit    = "button[name=dwfrm_singleshipping_shippingAddress_save]"
)

// XPaths for pages whose markup carries no stable classes.
const (
	XPathCartItemName        = `//*[@id="cart-items-form"]/fieldset/div/div/div[2]/div[2]/div[1]/h2`
	XPathCartItemModel       = `//*[@id="cart-items-form"]/fieldset/div/div/div[2]/div[2]/div[1]/p/span[2]`
	XPathCartItemColor       = `//*[@id="cart-items-form"]/fieldset/div/div/div[2]/div[2]/div[2]/div[1]/span[2]`
	XPathCartItemFingerboard = `//*[@id="cart-items-form"]/fieldset/div/div/div[2]/div[2]/div[2]/div[2]/span[2]`
	XPathCartItemPrice       = `//*[@id="cart-items-form"]/fieldset/div/div/div[2]/div[3]/span`

	XPathCheckoutAsGuest = `//*[@id="primary"]/div[2]/div[3]/div/div/form/fieldset/div/button/span`
)

// Index-parameterised mini cart item selectors. Items are 1-based, in the
// order the mini cart renders them.
const (
	miniCartItemName        = "div.mini-cart-product:nth-child(%d) div.mini-cart-name a"
	miniCartItemColor       = "div.mini-cart-product:nth-child(%d) div.attribute:nth-child(1) span.value"
	miniCartItemFingerboard = "div.mini-cart-product:nth-child(%d) div.attribute:nth-child(2) span.value"
	miniCartItemPrice       = "div.mini-cart-product:nth-child(%d) span.mini-cart-price"
	miniCartItemQuantity    = "div.mini-cart-product:nth-child(%d) div.mini-cart-qty p span.value"
)

// Section names of the locator registry.
const (
	SectionHeader          = "header"
	SectionProductMetadata = "product_metadata"
)

// headerSection lists the elements shared by every page.
var headerSection = Section[HeaderElements]{
	Name: SectionHeader,
	Fields: []Field[HeaderElements]{
		elementField("header_nav", browser.CSS(SelectorHeaderNav), func(h *HeaderElements) *browser.Element { return &h.HeaderNav }),
		elementField("search_bar", browser.CSS(SelectorSearchBar), func(h *HeaderElements) *browser.Element { return &h.SearchBar }),
		elementField("nav_products", browser.CSS(SelectorNavProducts), func(h *HeaderElements) *browser.Element { return &h.NavProducts }),
		listField("nav_item_list", browser.CSS(SelectorNavItems), func(h *HeaderElements) *[]browser.Element { return &h.NavItemList }),
		elementField("cart", browser.CSS(SelectorCart), func(h *HeaderElements) *browser.Element { return &h.Cart }),
		textField("cart_quantity_text", browser.CSS(SelectorCartQuantityText), func(h *HeaderElements) *string { return &h.CartQuantityText }),
	},
}

var productMetadataSection = Section[ProductMetadata]{
	Name: SectionProductMetadata,
	Fields: []Field[ProductMetadata]{
		elementField("product_header", browser.CSS(SelectorProductHeader), func(m *ProductMetadata) *browser.Element { return &m.ProductHeader }),
		textField("product_header_text", browser.CSS(SelectorProductHeader), func(m *ProductMetadata) *string { return &m.ProductHeaderText }),
		textField("model_number_text", browser.CSS(SelectorModelNumber), func(m *ProductMetadata) *string { return &m.ModelNumberText }),
		textField("selected_color_text", browser.CSS(SelectorSelectedColor), func(m *ProductMetadata) *string { return &m.SelectedColorText }),
		textField("fingerboard_material_text", browser.CSS(SelectorFingerboardMaterial), func(m *ProductMetadata) *string { return &m.FingerboardMaterialText }),
		textField("price_text", browser.CSS(SelectorPrice), func(m *ProductMetadata) *string { return &m.PriceText }),
	},
}

// miniCartItemFields returns the lookup table for the index-th mini cart item.
func miniCartItemFields(index int) []Field[MiniCartItem] {
	name := func(field string) string {
		return fmt.Sprintf("mini_cart_item_%d_%s", index, field)
	}
	loc := func(format string) browser.Locator {
		return browser.CSS(fmt.Sprintf(format, index))
	}
	return []Field[MiniCartItem]{
		textField(name("name"), loc(miniCartItemName), func(i *MiniCartItem) *string { return &i.Name }),
		textField(name("color"), loc(miniCartItemColor), func(i *MiniCartItem) *string { return &i.Color }),
		textField(name("fingerboard"), loc(miniCartItemFingerboard), func(i *MiniCartItem) *string { return &i.Fingerboard }),
		textField(name("price"), loc(miniCartItemPrice), func(i *MiniCartItem) *string { return &i.Price }),
		textField(name("quantity"), loc(miniCartItemQuantity), func(i *MiniCartItem) *string { return &i.QuantityText }),
	}
}

var cartItemFields = []Field[CartItem]{
	textField("cart_item_name", browser.XPath(XPathCartItemName), func(c *CartItem) *string { return &c.Name }),
	textField("cart_item_model_number", browser.XPath(XPathCartItemModel), func(c *CartItem) *string { return &c.ModelNumber }),
	textField("cart_item_color", browser.XPath(XPathCartItemColor), func(c *CartItem) *string { return &c.Color }),
	textField("cart_item_fingerboard", browser.XPath(XPathCartItemFingerboard), func(c *CartItem) *string { return &c.Fingerboard }),
	textField("cart_item_price", browser.XPath(XPathCartItemPrice), func(c *CartItem) *string { return &c.Price }),
	elementField("cart_item_dropdown", browser.CSS(SelectorCartQuantityDropdown), func(c *CartItem) *browser.Element { return &c.QuantityDropdown }),
}

// Probe is a named locator, used by tooling that checks the registry
// against a live page.
type Probe struct {
	Page    string
	Name    string
	Locator browser.Locator
}

// Probes lists every locator the page objects know about.
func Probes() []Probe {
	var probes []Probe
	for _, f := range headerSection.Fields {
		probes = append(probes, Probe{Page: "base", Name: f.Name, Locator: f.Locator})
	}
	for _, f := range productMetadataSection.Fields {
		probes = append(probes, Probe{Page: "product", Name: f.Name, Locator: f.Locator})
	}
	for _, f := range miniCartItemFields(1) {
		probes = append(probes, Probe{Page: "product", Name: f.Name, Locator: f.Locator})
	}
	probes = append(probes,
		Probe{Page: "base", Name: "mini_cart_quantity", Locator: browser.CSS(SelectorMiniCartQuantity)},
		Probe{Page: "base", Name: "mini_cart_content", Locator: browser.CSS(SelectorMiniCartContent)},
		Probe{Page: "base", Name: "mini_cart_link", Locator: browser.CSS(SelectorMiniCartLink)},
		Probe{Page: "product", Name: "add_to_cart", Locator: browser.CSS(SelectorAddToCart)},
	)
	for _, f := range cartItemFields {
		probes = append(probes, Probe{Page: "cart", Name: f.Name, Locator: f.Locator})
	}
	probes = append(probes,
		Probe{Page: "cart", Name: "checkout_buttons", Locator: browser.CSS(SelectorCheckoutButtons)},
		Probe{Page: "checkout_login", Name: "checkout_as_guest", Locator: browser.XPath(XPathCheckoutAsGuest)},
	)
	for _, f := range shippingFields(ShippingAddress{}) {
		probes = append(probes, Probe{Page: "shipping", Name: f.name, Locator: f.locator})
	}
	probes = append(probes,
		Probe{Page: "shipping", Name: "state", Locator: browser.CSS(SelectorShippingState)},
		Probe{Page: "shipping", Name: "submit", Locator: browser.CSS(SelectorShippingSubmit)},
	)
	return probes
}
