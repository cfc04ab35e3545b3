package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/cli"
	"github.com/sellerscout/seller-scout/internal/config"
	"github.com/sellerscout/seller-scout/internal/export"
	"github.com/sellerscout/seller-scout/internal/llm"
	"github.com/sellerscout/seller-scout/internal/model"
	"github.com/sellerscout/seller-scout/internal/registry"
	"github.com/sellerscout/seller-scout/internal/scrape"
	"github.com/sellerscout/seller-scout/internal/vetting"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <request>",
		Short: "Search the marketplace and rank sellers by credibility",
		Long: `Search interprets a free-text shopping request, builds a marketplace
search, scrapes the result pages, and vets every seller against the
business registry. Only small businesses are returned, ranked by
credibility score.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().Int("pages", 0, "number of result pages to scrape (default from config)")
	cmd.Flags().Int("workers", 0, "number of concurrent vetting workers (default from config)")
	cmd.Flags().Bool("no-cache", false, "skip the persistent vendor cache")
	cmd.Flags().Bool("export-sheet", false, "export results to the configured Google Sheet")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prompt := strings.Join(args, " ")

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	client, err := llm.NewClient(llm.Config{
		Provider: viper.GetString("llm.provider"),
		APIKey:   viper.GetString("llm.api_key"),
		Model:    viper.GetString("llm.model"),
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	fmt.Println(cli.FormatTitle("Interpreting request..."))
	session := llm.NewSession(client, cat)
	sel, err := session.Start(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to interpret request: %w", err)
	}

	searchURL, err := catalog.BuildSearchURL(viper.GetString("marketplace.base_url"), sel, cat)
	if err != nil {
		return fmt.Errorf("failed to build search URL: %w", err)
	}
	fmt.Println(cli.SubtleStyle.Render("  " + searchURL))

	pages, _ := cmd.Flags().GetInt("pages")
	if pages <= 0 {
		pages = viper.GetInt("marketplace.max_pages")
	}

	fetcher := initFetcher()
	lister := scrape.NewLister(fetcher, pages)
	products, err := lister.Products(ctx, searchURL)
	if err != nil {
		return fmt.Errorf("failed to scrape listings: %w", err)
	}
	if len(products) == 0 {
		fmt.Println(cli.WarningStyle.Render("No products found."))
		return nil
	}
	fmt.Printf("Found %d products, vetting sellers...\n", len(products))

	ranked, stats, cache, err := vetProducts(ctx, cmd, initRegistry(fetcher), products)
	if err != nil {
		return err
	}

	printResults(ranked, stats)

	if store, storeErr := initStorage(ctx); storeErr == nil {
		if saveErr := store.SaveSearch(ctx, prompt, len(ranked)); saveErr != nil {
			slog.Warn("Failed to save search history", "error", saveErr)
		}
		_ = store.Close()
	} else {
		slog.Warn("Failed to open history database", "error", storeErr)
	}

	saveVendorCache(cmd, cache)

	if exportSheet, _ := cmd.Flags().GetBool("export-sheet"); exportSheet {
		if err := exportResults(ctx, prompt, ranked); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		fmt.Println(cli.FormatSuccess("Results exported to Google Sheets"))
	}

	return nil
}

// vetProducts runs the vetting batch with a progress bar, seeding the
// persistent vendor cache unless --no-cache is set.
func vetProducts(ctx context.Context, cmd *cobra.Command, reg *registry.Client, products []model.Product) ([]model.RankedResult, vetting.Stats, *vetting.VendorCache, error) {
	cache, err := openVendorCache(cmd)
	if err != nil {
		return nil, vetting.Stats{}, nil, err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = viper.GetInt("vetting.workers")
	}

	bar := progressbar.NewOptions(len(products),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Vetting sellers..."),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	engine := vetting.NewEngine(reg, reg, cache, vetting.Config{
		Workers: workers,
		OnProgress: func(_, _ int) {
			_ = bar.Add(1)
		},
	})

	ranked, stats := engine.VetBatch(ctx, products)
	return ranked, stats, cache, nil
}

func openVendorCache(cmd *cobra.Command) (*vetting.VendorCache, error) {
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		return vetting.NewVendorCache(), nil
	}

	path := config.ExpandPath(viper.GetString("vetting.cache_file"))
	cache, err := vetting.LoadVendorCache(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor cache: %w", err)
	}
	return cache, nil
}

func saveVendorCache(cmd *cobra.Command, cache *vetting.VendorCache) {
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache || cache == nil {
		return
	}

	path := config.ExpandPath(viper.GetString("vetting.cache_file"))
	if err := cache.WriteFile(path); err != nil {
		slog.Warn("Failed to write vendor cache", "path", path, "error", err)
	}
}

func printResults(ranked []model.RankedResult, stats vetting.Stats) {
	if len(ranked) == 0 {
		fmt.Println(cli.WarningStyle.Render("No small-business sellers found."))
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
			"  %d products checked, %d sellers too large or unscored, %d unresolvable",
			stats.Submitted, stats.Ineligible, stats.NoResult)))
		return
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%d small-business sellers", len(ranked))))

	header := fmt.Sprintf("%-6s %-30s %-12s %s", "Score", "Vendor", "Price", "Product")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, r := range ranked {
		vendor := r.VendorName
		if len(vendor) > 28 {
			vendor = vendor[:28] + "…"
		}
		line := fmt.Sprintf("%-6s %-30s %-12s %s",
			cli.ScoreStyle.Render(fmt.Sprintf("%d", r.Score)),
			vendor,
			formatPrice(r.Product.Price),
			r.Product.Name)
		fmt.Println(cli.TableCellStyle.Render(line))
		fmt.Println(cli.SubtleStyle.Render("       " + r.Product.URL))
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
		"Vetted %d products in %s (%d accepted, %d ineligible, %d no result)",
		stats.Submitted, formatDuration(stats.Duration), stats.Accepted, stats.Ineligible, stats.NoResult)))
}

func exportResults(ctx context.Context, prompt string, ranked []model.RankedResult) error {
	writer, err := export.NewSheetsWriter(ctx, export.SheetsConfig{
		ClientID:      viper.GetString("sheets.client_id"),
		ClientSecret:  viper.GetString("sheets.client_secret"),
		RefreshToken:  viper.GetString("sheets.refresh_token"),
		SpreadsheetID: viper.GetString("sheets.spreadsheet_id"),
		SheetName:     viper.GetString("sheets.sheet_name"),
	})
	if err != nil {
		return err
	}
	return writer.Write(ctx, prompt, ranked)
}
