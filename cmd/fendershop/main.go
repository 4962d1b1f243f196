// fendershop runs the Fender guest checkout outside the test runner and
// maintains the fixtures and recordings the checkout tests replay.
//
// Usage:
//
//	fendershop run
//	fendershop capture --output internal/shop/testdata/fixtures
//	fendershop probe
//	fendershop sanitize-har --input recording.har.json
//	fendershop sanitize-fixtures --dry-run
package main

import (
	"fmt"
	"os"

	"github.com/grez-lucas/fender-checkout/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string
	verbose bool

	log *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fendershop",
		Short: "Drive and record the Fender shop checkout",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			var err error
			if verbose {
				log, err = zap.NewDevelopment()
			} else {
				log, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file to load (missing is fine)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Development logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newCaptureCmd(),
		newProbeCmd(),
		newSanitizeHARCmd(),
		newSanitizeFixturesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads SHOP_* settings, letting --headed override SHOP_HEADLESS.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return nil, err
	}
	if headed, _ := cmd.Flags().GetBool("headed"); headed {
		cfg.Headless = false
	}
	return cfg, nil
}
