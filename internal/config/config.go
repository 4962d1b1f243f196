// Package config loads the checkout test settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/pages"
	"github.com/joho/godotenv"
)

// Config holds browser and wait settings for a checkout run.
type Config struct {
	BaseURL     string
	Headless    bool
	BrowserBin  string
	Stealth     bool
	HumanTyping bool
	Wait        browser.WaitPolicy
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the SHOP_* variables through getenv, applying defaults.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BaseURL:    getenv("SHOP_BASE_URL"),
		BrowserBin: getenv("SHOP_BROWSER_BIN"),
		Wait:       browser.DefaultWaitPolicy(),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = pages.DefaultURL
	}

	var err error
	if cfg.Headless, err = boolVar(getenv, "SHOP_HEADLESS", true); err != nil {
		return nil, err
	}
	if cfg.Stealth, err = boolVar(getenv, "SHOP_STEALTH", false); err != nil {
		return nil, err
	}
	if cfg.HumanTyping, err = boolVar(getenv, "SHOP_HUMAN_TYPING", false); err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SHOP_WAIT_TIMEOUT", &cfg.Wait.Timeout},
		{"SHOP_WAIT_INTERVAL", &cfg.Wait.Interval},
		{"SHOP_FIND_TIMEOUT", &cfg.Wait.Find},
		{"SHOP_SETTLE", &cfg.Wait.Settle},
	}
	for _, d := range durations {
		raw := getenv(d.key)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative, got %s", d.key, raw)
		}
		*d.dst = v
	}

	if cfg.Wait.Timeout == 0 {
		return nil, fmt.Errorf("SHOP_WAIT_TIMEOUT must be positive")
	}
	if cfg.Wait.Find == 0 {
		return nil, fmt.Errorf("SHOP_FIND_TIMEOUT must be positive")
	}

	return cfg, nil
}

// RodOptions translates the config into driver options.
func (c *Config) RodOptions() []browser.RodOption {
	return []browser.RodOption{
		browser.WithBin(c.BrowserBin),
		browser.WithHeadless(c.Headless),
		browser.WithStealth(c.Stealth),
		browser.WithHumanTyping(c.HumanTyping),
		browser.WithRodWaitPolicy(c.Wait),
	}
}

func boolVar(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
