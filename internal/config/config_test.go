package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envOf(nil))

	require.NoError(t, err)
	assert.Equal(t, "http://shop.fender.com/en-US/", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Stealth)
	assert.Equal(t, 30*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Wait.Find)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(envOf(map[string]string{
		"SHOP_BASE_URL":     "https://shop.fender.com/en-GB/",
		"SHOP_HEADLESS":     "false",
		"SHOP_STEALTH":      "true",
		"SHOP_WAIT_TIMEOUT": "45s",
		"SHOP_SETTLE":       "0s",
	}))

	require.NoError(t, err)
	assert.Equal(t, "https://shop.fender.com/en-GB/", cfg.BaseURL)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.Stealth)
	assert.Equal(t, 45*time.Second, cfg.Wait.Timeout)
	assert.Zero(t, cfg.Wait.Settle)
	assert.Len(t, cfg.RodOptions(), 5)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad bool", map[string]string{"SHOP_HEADLESS": "maybe"}, "SHOP_HEADLESS"},
		{"bad duration", map[string]string{"SHOP_FIND_TIMEOUT": "ten"}, "SHOP_FIND_TIMEOUT"},
		{"negative duration", map[string]string{"SHOP_SETTLE": "-1s"}, "SHOP_SETTLE"},
		{"zero timeout", map[string]string{"SHOP_WAIT_TIMEOUT": "0s"}, "SHOP_WAIT_TIMEOUT"},
		{"zero find timeout", map[string]string{"SHOP_FIND_TIMEOUT": "0"}, "SHOP_FIND_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(envOf(tt.vars))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SHOP_CONFIG_TEST_VALUE=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SHOP_CONFIG_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("SHOP_CONFIG_TEST_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
