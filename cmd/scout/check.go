package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerscout/seller-scout/internal/model"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <product-url>...",
		Short: "Vet the sellers of specific product pages",
		Long: `Check skips the search step and vets the sellers of the given product
URLs directly against the business registry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().Int("workers", 0, "number of concurrent vetting workers (default from config)")
	cmd.Flags().Bool("no-cache", false, "skip the persistent vendor cache")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	products := make([]model.Product, 0, len(args))
	for _, rawURL := range args {
		products = append(products, model.Product{URL: rawURL, Name: rawURL})
	}

	fetcher := initFetcher()
	ranked, stats, cache, err := vetProducts(ctx, cmd, initRegistry(fetcher), products)
	if err != nil {
		return fmt.Errorf("failed to vet products: %w", err)
	}

	printResults(ranked, stats)
	saveVendorCache(cmd, cache)
	return nil
}
