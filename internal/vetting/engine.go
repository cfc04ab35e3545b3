package vetting

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sellerscout/seller-scout/internal/credibility"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Config controls batch vetting behavior.
type Config struct {
	// Workers is the number of concurrent vetting goroutines.
	Workers int
	// OnProgress, if set, is called after each product finishes.
	OnProgress func(done, total int)
}

const defaultWorkers = 10

// Engine vets product batches against the business registry.
type Engine struct {
	resolver   VendorResolver
	financials FinancialSource
	cache      *VendorCache
	config     Config
}

// NewEngine creates a vetting engine. A nil cache gets a fresh one.
func NewEngine(resolver VendorResolver, financials FinancialSource, cache *VendorCache, cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cache == nil {
		cache = NewVendorCache()
	}
	return &Engine{resolver: resolver, financials: financials, cache: cache, config: cfg}
}

// TaskResult is the outcome of vetting a single product. OK is false when the
// vendor could not be resolved at all.
type TaskResult struct {
	Product    model.Product
	VendorName string
	Verdict    model.Verdict
	OK         bool
}

// Stats summarizes a vetting batch.
type Stats struct {
	Submitted  int
	NoResult   int
	Ineligible int
	Accepted   int
	Duration   time.Duration
}

// VetBatch vets every product concurrently and returns accepted results
// ranked by credibility score, highest first. Individual failures never
// abort the batch; a failed product simply produces no result.
func (e *Engine) VetBatch(ctx context.Context, products []model.Product) ([]model.RankedResult, Stats) {
	start := time.Now()
	total := len(products)
	stats := Stats{Submitted: total}
	if total == 0 {
		return nil, stats
	}

	jobs := make(chan model.Product)
	results := make(chan TaskResult, total)
	var done atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < e.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- e.processProduct(ctx, p)
				n := int(done.Add(1))
				if e.config.OnProgress != nil {
					e.config.OnProgress(n, total)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range products {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var accepted []model.RankedResult
	for r := range results {
		switch {
		case !r.OK:
			stats.NoResult++
		case !r.Verdict.IsSmallBusiness:
			stats.Ineligible++
		default:
			stats.Accepted++
			accepted = append(accepted, model.RankedResult{
				Product:    r.Product,
				VendorName: r.VendorName,
				Score:      r.Verdict.Score,
			})
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Score > accepted[j].Score
	})

	stats.Duration = time.Since(start)
	return accepted, stats
}

// processProduct vets a single product. Panics in a task are contained and
// fold to a no-result like any other failure.
func (e *Engine) processProduct(ctx context.Context, p model.Product) (result TaskResult) {
	result = TaskResult{Product: p}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Vetting task panicked", "product", p.URL, "panic", r)
			result = TaskResult{Product: p}
		}
	}()

	profileURL, err := e.resolver.VendorProfileURL(ctx, p.URL)
	if err != nil {
		slog.Debug("No vendor profile for product", "product", p.URL, "error", err)
		return result
	}

	identity, err := e.resolver.ResolveVendor(ctx, profileURL)
	if err != nil {
		slog.Debug("Failed to resolve vendor", "profile", profileURL, "error", err)
		return result
	}

	result.VendorName = identity.Name
	result.OK = true

	// Cache lookup and store are serialized; the fetch and scoring between
	// them are not. Concurrent workers may both vet a shared vendor once.
	if cached, ok := e.cache.Get(identity.Name); ok {
		slog.Debug("Vendor verdict cached", "vendor", identity.Name, "score", cached.Score)
		result.Verdict = cached
		return result
	}

	verdict := e.vetVendor(ctx, *identity)
	e.cache.Put(identity.Name, verdict)
	result.Verdict = verdict
	return result
}

func (e *Engine) vetVendor(ctx context.Context, identity model.VendorIdentity) model.Verdict {
	snap, err := e.financials.FetchFinancials(ctx, e.resolver.CompanyPageURL(identity))
	if err != nil {
		slog.Debug("No financials for vendor", "vendor", identity.Name, "error", err)
		return model.Verdict{Reason: model.ReasonNoFinancials}
	}

	verdict := credibility.Assess(*snap)
	slog.Debug("Vendor assessed",
		"vendor", identity.Name,
		"small_business", verdict.IsSmallBusiness,
		"score", verdict.Score)
	return verdict
}
