package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grez-lucas/fender-checkout/internal/shop/testutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSanitizeHARCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize-har",
		Short: "Redact shopper data and session tokens from a HAR recording",
		Args:  cobra.NoArgs,
		RunE:  runSanitizeHAR,
	}
	cmd.Flags().String("input", filepath.Join(testutil.RecordingsDir(), "checkout.har.json"), "Input HAR file")
	cmd.Flags().String("output", "", "Output HAR file (defaults to input)")
	cmd.Flags().Bool("dry-run", false, "Show what would be redacted without writing")
	return cmd
}

func runSanitizeHAR(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	inPath, _ := cmd.Flags().GetString("input")
	outPath, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if outPath == "" {
		outPath = inPath
	}

	har, err := testutil.LoadHAR(inPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d entries from %s\n", len(har.Entries), inPath)

	sanitized := testutil.SanitizeHAR(har)
	fmt.Fprintf(out, "Redacted %d sensitive values\n", testutil.CountRedactions(har, sanitized))

	if dryRun {
		printRedactions(cmd, har, sanitized)
		fmt.Fprintln(out, "\n[DRY RUN] No changes written.")
		return nil
	}

	if err := testutil.SaveHAR(outPath, sanitized); err != nil {
		return err
	}
	log.Info("sanitized recording saved", zap.String("path", outPath))
	return nil
}

func printRedactions(cmd *cobra.Command, original, sanitized *testutil.HARLog) {
	out := cmd.OutOrStdout()
	for i := range original.Entries {
		orig, san := original.Entries[i], sanitized.Entries[i]
		var what []string
		if orig.Request.URL != san.Request.URL {
			what = append(what, "query parameters")
		}
		for j, h := range orig.Request.Headers {
			if h.Value != san.Request.Headers[j].Value {
				what = append(what, "header "+h.Name)
			}
		}
		if orig.Request.Body != san.Request.Body {
			what = append(what, "request body")
		}
		if orig.Response.Content.Text != san.Response.Content.Text {
			what = append(what, "response body")
		}
		if len(what) == 0 {
			continue
		}
		fmt.Fprintf(out, "\nEntry %d: %s %s\n", i+1, orig.Request.Method, truncate(orig.Request.URL, 80))
		for _, w := range what {
			fmt.Fprintf(out, "  - %s redacted\n", w)
		}
	}
}

func newSanitizeFixturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize-fixtures",
		Short: "Scrub shopper data from captured HTML fixtures",
		Args:  cobra.NoArgs,
		RunE:  runSanitizeFixtures,
	}
	cmd.Flags().String("dir", testutil.FixturesDir(), "Fixture directory")
	cmd.Flags().Bool("dry-run", false, "Show what would change without writing")
	return cmd
}

func runSanitizeFixtures(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	dir, _ := cmd.Flags().GetString("dir")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no HTML files found in %s", dir)
	}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res := testutil.SanitizeHTML(string(content))
		name := filepath.Base(path)
		if len(res.Changes) == 0 {
			fmt.Fprintf(out, "%s: clean\n", name)
			continue
		}

		fmt.Fprintf(out, "%s:\n", name)
		for _, c := range res.Changes {
			fmt.Fprintf(out, "  - %s: %d matched\n", c.Description, c.Matches)
		}
		if dryRun {
			continue
		}
		if err := os.WriteFile(path, []byte(res.HTML), 0o644); err != nil {
			return err
		}
	}

	if dryRun {
		fmt.Fprintln(out, "\n[DRY RUN] Run without --dry-run to apply changes.")
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
