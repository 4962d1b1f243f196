package testutil

import (
	"os"
	"testing"
)

// TestMode selects what the browser tests run against.
type TestMode string

const (
	TestModeMock   TestMode = "mock"   // Offline document driver over fixtures
	TestModeReplay TestMode = "replay" // Real browser, responses served from HAR
	TestModeLive   TestMode = "live"   // Real browser against the live shop
)

// ModeEnv is the environment variable holding the test mode.
const ModeEnv = "SHOP_TEST_MODE"

// GetTestMode reads SHOP_TEST_MODE, defaulting to mock.
func GetTestMode() TestMode {
	mode := os.Getenv(ModeEnv)
	if mode == "" {
		return TestModeMock
	}
	return TestMode(mode)
}

// SkipUnlessMode skips the test unless the required mode is active.
func SkipUnlessMode(t *testing.T, required TestMode) {
	t.Helper()
	if GetTestMode() != required {
		t.Skipf("Skipping: requires %s=%s", ModeEnv, required)
	}
}
