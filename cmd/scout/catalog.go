package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/cli"
	"github.com/sellerscout/seller-scout/internal/config"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the marketplace catalog snapshot",
	}

	cmd.AddCommand(catalogExtractCmd())
	cmd.AddCommand(catalogShowCmd())

	return cmd
}

func catalogExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <listing-url-or-file>",
		Short: "Extract categories and filters from a listing page",
		Long: `Extract parses a marketplace listing page (a URL or a saved HTML file)
and writes the categories and filter options it finds to the configured
catalog path.`,
		Args: cobra.ExactArgs(1),
		RunE: runCatalogExtract,
	}

	cmd.Flags().String("out", "", "output path (default from config)")

	return cmd
}

func runCatalogExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source := args[0]

	var cat *catalog.Catalog
	if _, err := os.Stat(source); err == nil {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", source, err)
		}
		defer func() { _ = f.Close() }()

		cat, err = catalog.Extract(f)
		if err != nil {
			return fmt.Errorf("failed to extract catalog: %w", err)
		}
	} else {
		doc, err := initFetcher().Document(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		cat, err = catalog.ExtractDocument(doc)
		if err != nil {
			return fmt.Errorf("failed to extract catalog: %w", err)
		}
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = config.ExpandPath(viper.GetString("catalog.path"))
	}
	if err := cat.Save(out); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Wrote %d categories and %d filters to %s",
		len(cat.Categories), len(cat.Filters), out)))
	return nil
}

func catalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the catalog's categories and filters",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Categories"))
			for _, c := range cat.Categories {
				fmt.Printf("  %s\n", c.Name)
			}

			fmt.Println(cli.FormatTitle("Filters"))
			for name, opts := range cat.Filters {
				fmt.Printf("  %s (%d options)\n", name, len(opts))
			}
			return nil
		},
	}
}
