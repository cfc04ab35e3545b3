// Package export writes vetted search results to Google Sheets.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/model"
)

// SheetsConfig holds Google Sheets export settings.
type SheetsConfig struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	SpreadsheetID string
	SheetName     string
}

// Validate checks that the required OAuth fields are present.
func (c SheetsConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: sheets client ID is required", common.ErrMissingConfig)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: sheets client secret is required", common.ErrMissingConfig)
	}
	if c.RefreshToken == "" {
		return fmt.Errorf("%w: sheets refresh token is required", common.ErrMissingConfig)
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet ID is required", common.ErrMissingConfig)
	}
	return nil
}

// SheetsWriter exports ranked results to a Google Sheets spreadsheet.
type SheetsWriter struct {
	service *sheets.Service
	config  SheetsConfig
}

// NewSheetsWriter creates a writer authenticated through an OAuth refresh token.
func NewSheetsWriter(ctx context.Context, config SheetsConfig) (*SheetsWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
	}

	httpClient := oauth2.NewClient(ctx, oauthCfg.TokenSource(ctx, token))
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	if config.SheetName == "" {
		config.SheetName = "Results"
	}

	return &SheetsWriter{service: srv, config: config}, nil
}

// Write clears the sheet and writes the ranked batch for a prompt.
func (w *SheetsWriter) Write(ctx context.Context, prompt string, results []model.RankedResult) error {
	slog.Info("Exporting results to sheet",
		"spreadsheet_id", w.config.SpreadsheetID,
		"results", len(results))

	if err := w.clearSheet(ctx); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := w.prepareData(prompt, results)

	retryOpts := common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	err := common.WithRetry(ctx, func() error {
		return w.writeData(ctx, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	slog.Info("Export completed", "rows_written", len(values))
	return nil
}

func (w *SheetsWriter) clearSheet(ctx context.Context) error {
	rangeStr := fmt.Sprintf("%s!A:Z", w.config.SheetName)
	_, err := w.service.Spreadsheets.Values.Clear(w.config.SpreadsheetID, rangeStr, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *SheetsWriter) prepareData(prompt string, results []model.RankedResult) [][]any {
	values := make([][]any, 0, len(results)+4)

	values = append(values,
		[]any{"Seller Scout Results", time.Now().Format("Jan 2, 2006 15:04")},
		[]any{"Request", prompt},
		[]any{},
		[]any{"Score", "Vendor", "Product", "Price (RON)", "URL"},
	)

	for _, r := range results {
		price := any("")
		if r.Product.Price != nil {
			price = *r.Product.Price
		}
		values = append(values, []any{r.Score, r.VendorName, r.Product.Name, price, r.Product.URL})
	}

	return values
}

func (w *SheetsWriter) writeData(ctx context.Context, values [][]any) error {
	rangeStr := fmt.Sprintf("%s!A1", w.config.SheetName)
	_, err := w.service.Spreadsheets.Values.Update(w.config.SpreadsheetID, rangeStr, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
