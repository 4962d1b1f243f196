package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/grez-lucas/fender-checkout/internal/shop/browser"
	"github.com/grez-lucas/fender-checkout/internal/shop/checkout"
	"github.com/grez-lucas/fender-checkout/internal/shop/pages"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the guest checkout against the configured shop",
		Args:  cobra.NoArgs,
		RunE:  runCheckout,
	}
	cmd.Flags().Bool("headed", false, "Show the browser window")
	return cmd
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := browser.NewRodDriver(append(cfg.RodOptions(), browser.WithRodLogger(log))...)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	s := checkout.New(d, checkout.JimiHendrixStratocaster(),
		checkout.WithLogger(log),
		checkout.WithPageOptions(pages.WithURL(cfg.BaseURL), pages.WithWaitPolicy(cfg.Wait)),
	)

	res, runErr := s.Run(ctx)
	printResult(cmd, res)
	if runErr != nil {
		log.Error("checkout failed", zap.Error(runErr))
		return runErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nCheckout reached %s\n", res.FinalURL)
	return nil
}

func printResult(cmd *cobra.Command, res *checkout.Result) {
	if res == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Product")
	fmt.Fprintf(out, "  name:        %s\n", res.Product.ProductHeaderText)
	fmt.Fprintf(out, "  model:       %s\n", res.Product.ModelNumberText)
	fmt.Fprintf(out, "  color:       %s\n", res.Product.SelectedColorText)
	fmt.Fprintf(out, "  fingerboard: %s\n", res.Product.FingerboardMaterialText)
	fmt.Fprintf(out, "  price:       %s\n", res.Product.PriceText)
	fmt.Fprintln(out, "Mini cart")
	fmt.Fprintf(out, "  badge:       %d (%s)\n", res.MiniCartQuantity.Value, res.MiniCartQuantity.Status)
	fmt.Fprintf(out, "  item 1:      %s / %s / %s / %s x%d\n",
		res.MiniCartItem.Name, res.MiniCartItem.Color, res.MiniCartItem.Fingerboard,
		res.MiniCartItem.Price, res.MiniCartItem.Quantity)
	fmt.Fprintln(out, "Cart")
	fmt.Fprintf(out, "  item:        %s %s / %s / %s / %s x%s\n",
		res.Cart.Name, res.Cart.ModelNumber, res.Cart.Color, res.Cart.Fingerboard,
		res.Cart.Price, res.Cart.Quantity)
	if len(res.FailedElements) > 0 {
		fmt.Fprintf(out, "Not found: %v\n", res.FailedElements)
	}
}
