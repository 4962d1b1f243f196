package pages

import (
	"context"
	"testing"
	"time"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testPolicy() browser.WaitPolicy {
	return browser.WaitPolicy{
		Timeout:  200 * time.Millisecond,
		Interval: 10 * time.Millisecond,
		Find:     50 * time.Millisecond,
	}
}

func testOptions(t *testing.T) []Option {
	return []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithWaitPolicy(testPolicy()),
		WithURL(testutil.FixtureBaseURL),
	}
}

// fixtureDriver opens the fixture site at path, relative to the fixture
// storefront root.
func fixtureDriver(t *testing.T, path string) *browser.DocumentDriver {
	t.Helper()
	d := browser.NewDocumentDriver(testutil.FixtureSite(t))
	require.NoError(t, d.Navigate(context.Background(), testutil.FixtureBaseURL+path))
	return d
}

// htmlDriver serves a single document at the site root.
func htmlDriver(t *testing.T, html string) *browser.DocumentDriver {
	t.Helper()
	d := browser.NewDocumentDriver(browser.Site{"/": html})
	require.NoError(t, d.Navigate(context.Background(), "https://shop.test/"))
	return d
}
