package storage

import (
	"context"
	"fmt"

	"github.com/sellerscout/seller-scout/internal/model"
)

// historyLimit caps the number of retained searches; older rows are pruned
// on each save.
const historyLimit = 50

// SaveSearch records a completed search and prunes old entries.
func (s *Store) SaveSearch(ctx context.Context, prompt string, productCount int) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO searches (prompt, product_count) VALUES (?, ?)",
		prompt, productCount); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert search: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY id DESC LIMIT ?
		)`, historyLimit); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prune search history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit search: %w", err)
	}
	return nil
}

// RecentSearches returns the most recent searches, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	if limit <= 0 {
		limit = historyLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, product_count, created_at
		 FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.SearchRecord
	for rows.Next() {
		var r model.SearchRecord
		if err := rows.Scan(&r.ID, &r.Prompt, &r.ProductCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate searches: %w", err)
	}

	return records, nil
}
