package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/pages"
	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/spf13/cobra"
)

// probePages is the order pages are inspected in, with the fixture that
// stands in for each one offline.
var probePages = []struct {
	Page         string
	FixturePath  string
	Instructions string
}{
	{"product", "/en-US/cart-add", "Open the Jimi Hendrix Stratocaster page and add it to the cart"},
	{"cart", "/en-US/cart", "Open the cart from the mini cart"},
	{"checkout_login", "/en-US/checkout-login", "Click Secure Checkout"},
	{"shipping", "/en-US/shipping", "Click Checkout as Guest"},
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check every known locator against the shop or the fixtures",
		Long: `probe resolves each locator of the page objects on the page it belongs to
and reports what was found. With --fixtures it runs offline against
internal/shop/testdata/fixtures; otherwise a browser opens and you navigate
to each page when prompted.`,
		Args: cobra.NoArgs,
		RunE: runProbe,
	}
	cmd.Flags().Bool("fixtures", false, "Probe the saved fixtures instead of the live shop")
	cmd.Flags().String("dir", testutil.FixturesDir(), "Fixture directory used with --fixtures")
	cmd.Flags().Bool("headed", true, "Show the browser window")
	return cmd
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if offline, _ := cmd.Flags().GetBool("fixtures"); offline {
		dir, _ := cmd.Flags().GetString("dir")
		site, err := testutil.ReadSite(dir)
		if err != nil {
			return err
		}
		d := browser.NewDocumentDriver(site, browser.WithDocumentLogger(log))
		defer func() { _ = d.Close() }()

		missing := 0
		for _, pg := range probePages {
			if err := d.Navigate(ctx, testutil.FixtureBaseURL+strings.TrimPrefix(pg.FixturePath, "/en-US/")); err != nil {
				return err
			}
			fmt.Fprintf(out, "PAGE: %s (%s)\n", pg.Page, pg.FixturePath)
			missing += probePage(ctx, out, d, pg.Page)
			fmt.Fprintln(out)
		}
		if missing > 0 {
			return fmt.Errorf("%d locators not found in fixtures", missing)
		}
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := browser.NewRodDriver(append(cfg.RodOptions(), browser.WithRodLogger(log))...)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	if err := d.Navigate(ctx, cfg.BaseURL); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	for _, pg := range probePages {
		fmt.Fprintln(out, "----------------------------------------------------------------")
		fmt.Fprintf(out, "PAGE: %s\n", pg.Page)
		fmt.Fprintf(out, "  -> %s\n", pg.Instructions)
		fmt.Fprint(out, "  Press ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if input == "quit" {
			break
		}
		if input == "skip" {
			fmt.Fprintf(out, "  Skipped.\n\n")
			continue
		}

		if err := browser.WaitForIFrames(d.Page()); err != nil {
			log.Warn("page did not settle")
		}
		url, _ := d.CurrentURL(ctx)
		fmt.Fprintf(out, "\n  URL: %s\n\n", url)
		probePage(ctx, out, d, pg.Page)
		fmt.Fprintln(out)
	}
	return nil
}

// probePage prints one line per locator of page, plus the header locators
// every page shares, and returns how many were missing.
func probePage(ctx context.Context, out io.Writer, d browser.Driver, page string) int {
	missing := 0
	for _, p := range pages.Probes() {
		if p.Page != page && p.Page != "base" {
			continue
		}
		els, err := d.FindAll(ctx, p.Locator)
		if err != nil || len(els) == 0 {
			fmt.Fprintf(out, "  missing  %-32s  %s\n", p.Name, p.Locator)
			missing++
			continue
		}
		visible, _ := els[0].Visible(ctx)
		fmt.Fprintf(out, "  FOUND    %-32s  %s  (count=%d, visible=%v)\n", p.Name, p.Locator, len(els), visible)
	}
	return missing
}
