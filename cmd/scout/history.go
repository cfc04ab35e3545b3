package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerscout/seller-scout/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", 20, "maximum number of searches to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.RecentSearches(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load search history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No searches yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Recent searches"))
	for _, r := range records {
		fmt.Printf("%s  %s %s\n",
			cli.SubtleStyle.Render(r.CreatedAt.Format("2006-01-02 15:04")),
			r.Prompt,
			cli.SubtleStyle.Render(fmt.Sprintf("(%d results)", r.ProductCount)))
	}

	return nil
}
