package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sellerscout/seller-scout/internal/api"
	"github.com/sellerscout/seller-scout/internal/llm"
	"github.com/sellerscout/seller-scout/internal/payments"
	"github.com/sellerscout/seller-scout/internal/scrape"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes the search pipeline over HTTP: POST /api/search runs the
full interpret-scrape-vet flow, with search history and Stripe checkout
endpoints alongside.`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "listen port (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

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

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	fetcher := initFetcher()
	reg := initRegistry(fetcher)

	server := api.NewServer(api.Deps{
		Session:            llm.NewSession(client, cat),
		Catalog:            cat,
		Lister:             scrape.NewLister(fetcher, viper.GetInt("marketplace.max_pages")),
		Resolver:           reg,
		Financials:         reg,
		History:            store,
		Payments:           payments.NewClient(viper.GetString("stripe.secret_key")),
		MarketplaceBaseURL: viper.GetString("marketplace.base_url"),
		Workers:            viper.GetInt("vetting.workers"),
	})

	port, _ := cmd.Flags().GetInt("port")
	if port <= 0 {
		port = viper.GetInt("server.port")
	}
	addr := fmt.Sprintf(":%d", port)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", addr)
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
