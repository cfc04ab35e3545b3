// Package llm maps free-text shopping requests to marketplace categories and
// filters through a language-model provider.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Client defines the interface for LLM providers.
type Client interface {
	SelectFilters(ctx context.Context, prompt string) (model.FilterSelection, error)
}

// Config holds LLM client configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func defaultRetryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// classifyStatus converts a non-200 provider response into an error with
// retry metadata: 429 maps to the rate-limit sentinel, 5xx is retryable,
// any other client error is terminal.
func classifyStatus(provider string, status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %s API (status %d)", common.ErrRateLimit, provider, status),
			Retryable: true,
		}
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{
			Err:       fmt.Errorf("%s API error (status %d): %s", provider, status, string(body)),
			Retryable: true,
		}
	default:
		return &common.RetryableError{
			Err:       fmt.Errorf("%s API error (status %d): %s", provider, status, string(body)),
			Retryable: false,
		}
	}
}
