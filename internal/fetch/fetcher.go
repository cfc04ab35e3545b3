// Package fetch provides the shared outbound HTTP client used by the
// listing scraper and the registry lookups.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"github.com/sellerscout/seller-scout/internal/common"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config holds fetcher settings.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Fetcher wraps page fetches with a browser User-Agent, a fixed per-request
// timeout and a circuit breaker shared by all callers. The breaker trips on
// transport errors and 5xx responses only; client errors such as 404 pass
// through so pagination probing cannot open it.
type Fetcher struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	userAgent string
	maxBody   int64
}

type fetchResult struct {
	body   []byte
	status int
}

// New creates a Fetcher with the given configuration.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 * 1024 * 1024
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "outbound-http",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker:   breaker,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Document fetches rawURL and parses the response body as HTML.
// Non-success statuses and network faults are reported as ErrTransport,
// except 404 which maps to ErrNotFound.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	res, err := f.breaker.Execute(func() (any, error) {
		return f.get(ctx, rawURL)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	fr, ok := res.(fetchResult)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected breaker result", common.ErrTransport)
	}

	switch {
	case fr.status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, rawURL)
	case fr.status < 200 || fr.status > 299:
		return nil, fmt.Errorf("%w: status %d for %s", common.ErrTransport, fr.status, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fr.body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetchResult{}, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "ro-RO,ro;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return fetchResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	// 5xx opens the breaker; everything else is a handled response.
	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fetchResult{}, fmt.Errorf("status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return fetchResult{}, err
	}

	return fetchResult{status: resp.StatusCode, body: body}, nil
}
