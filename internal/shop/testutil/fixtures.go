// Package testutil provides fixtures, test-mode gating and HAR recording
// and replay for the checkout tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureBaseURL is the storefront origin the fixture site is served under.
const FixtureBaseURL = "https://shop.fender.com/en-US/"

// FixturePages maps storefront paths to fixture names. Together they form a
// static replica of one guest checkout.
var FixturePages = map[string]string{
	"/en-US/":               "home",
	"/en-US/search":         "product",
	"/en-US/cart-add":       "product_added",
	"/en-US/cart":           "cart",
	"/en-US/checkout-login": "checkout_login",
	"/en-US/shipping":       "shipping",
	"/en-US/billing":        "billing",
}

// FixturesDir returns internal/shop/testdata/fixtures.
func FixturesDir() string {
	_, filename, _, _ := runtime.Caller(0)
	baseDir := filepath.Dir(filepath.Dir(filename)) // up to shop/
	return filepath.Join(baseDir, "testdata", "fixtures")
}

// RecordingsDir returns internal/shop/testdata/recordings.
func RecordingsDir() string {
	return filepath.Join(filepath.Dir(FixturesDir()), "recordings")
}

// LoadFixture reads the named HTML fixture.
func LoadFixture(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(FixturesDir(), name+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return string(data)
}

// ReadSite loads the fixture pages found in dir, keyed by storefront path.
func ReadSite(dir string) (map[string]string, error) {
	site := make(map[string]string, len(FixturePages))
	for path, name := range FixturePages {
		data, err := os.ReadFile(filepath.Join(dir, name+".html"))
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", name, err)
		}
		site[path] = string(data)
	}
	return site, nil
}

// FixtureSite loads every fixture page keyed by its storefront path.
func FixtureSite(t *testing.T) map[string]string {
	t.Helper()

	site, err := ReadSite(FixturesDir())
	if err != nil {
		t.Fatalf("Failed to load fixture site: %v", err)
	}
	return site
}
