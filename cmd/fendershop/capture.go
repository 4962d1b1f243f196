package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// capturePages are the fixtures of one guest checkout, in the order a
// shopper reaches them.
var capturePages = []struct {
	Name         string
	Instructions string
}{
	{"home", "Stay on the storefront home page"},
	{"product", "Search for 'jimi hendrix stratocaster' and open the product"},
	{"product_added", "Click Add to Cart and wait for the mini cart"},
	{"cart", "Open the cart from the mini cart"},
	{"checkout_login", "Click Secure Checkout"},
	{"shipping", "Click Checkout as Guest"},
	{"billing", "Fill the shipping form with a test address and continue"},
}

func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save the checkout pages of a live session as HTML fixtures",
		Args:  cobra.NoArgs,
		RunE:  runCapture,
	}
	cmd.Flags().StringP("output", "o", testutil.FixturesDir(), "Output directory")
	cmd.Flags().Bool("headed", true, "Show the browser window")
	cmd.Flags().Bool("screenshots", true, "Save a PNG next to each fixture")
	return cmd
}

func runCapture(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	outDir, _ := cmd.Flags().GetString("output")
	screenshots, _ := cmd.Flags().GetBool("screenshots")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
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

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "  FIXTURE CAPTURE")
	fmt.Fprintf(out, "  Shop:   %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "  Output: %s\n", outDir)
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "Press ENTER after each step, 'skip' to skip a page, 'quit' to stop.")
	fmt.Fprintln(out)

	reader := bufio.NewReader(os.Stdin)
	saved := 0
	for _, capture := range capturePages {
		fmt.Fprintln(out, "----------------------------------------------------------------")
		fmt.Fprintf(out, "Capturing: %s.html\n", capture.Name)
		fmt.Fprintf(out, "  -> %s\n", capture.Instructions)
		fmt.Fprint(out, "  Press ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if input == "quit" {
			break
		}
		if input == "skip" {
			fmt.Fprintf(out, "  Skipped %s\n\n", capture.Name)
			continue
		}

		page := d.Page()
		if err := browser.WaitForIFrames(page); err != nil {
			log.Warn("page did not settle", zap.String("fixture", capture.Name), zap.Error(err))
		}
		time.Sleep(time.Second)

		if screenshots {
			pngPath := filepath.Join(outDir, capture.Name+".png")
			if buf, err := page.Screenshot(false, nil); err != nil {
				log.Warn("screenshot failed", zap.Error(err))
			} else if err := os.WriteFile(pngPath, buf, 0o644); err != nil {
				log.Warn("screenshot not saved", zap.Error(err))
			} else {
				fmt.Fprintf(out, "  Screenshot: %s\n", pngPath)
			}
		}

		html, iframes, err := browser.Snapshot(page)
		if err != nil {
			fmt.Fprintf(out, "  Error capturing HTML: %v\n\n", err)
			continue
		}
		if iframes > 0 {
			fmt.Fprintf(out, "  Inlined %d iframe(s)\n", iframes)
		}

		htmlPath := filepath.Join(outDir, capture.Name+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			fmt.Fprintf(out, "  Error saving HTML: %v\n\n", err)
			continue
		}
		saved++

		url, _ := d.CurrentURL(ctx)
		fmt.Fprintf(out, "  Saved: %s\n", htmlPath)
		fmt.Fprintf(out, "  URL:   %s\n\n", url)
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Captured %d page(s).\n", saved)
	fmt.Fprintln(out, "Sanitize before committing: fendershop sanitize-fixtures --dir "+outDir)
	return nil
}
