package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/config"
	"github.com/sellerscout/seller-scout/internal/fetch"
	"github.com/sellerscout/seller-scout/internal/registry"
	"github.com/sellerscout/seller-scout/internal/storage"
)

// initStorage opens the history database and applies migrations.
func initStorage(ctx context.Context) (*storage.Store, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initFetcher builds the shared outbound HTTP fetcher.
func initFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Config{
		Timeout: viper.GetDuration("http.timeout"),
	})
}

// initRegistry builds the business registry client.
func initRegistry(fetcher *fetch.Fetcher) *registry.Client {
	return registry.New(fetcher, registry.Config{
		BaseURL:       viper.GetString("registry.base_url"),
		ReferenceYear: viper.GetInt("registry.reference_year"),
	})
}

// loadCatalog reads the catalog snapshot from the configured path.
func loadCatalog() (*catalog.Catalog, error) {
	path := config.ExpandPath(viper.GetString("catalog.path"))
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s (run 'scout catalog extract' first): %w", path, err)
	}
	return cat, nil
}

// formatPrice renders an optional price for display.
func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f RON", *price)
}

// formatDuration renders a duration rounded for display.
func formatDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}
