package vetting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sellerscout/seller-scout/internal/model"
)

// VendorCache deduplicates vendor verdicts within and across batches. Lookups
// and stores are serialized; the vetting work itself runs outside the lock,
// so two workers may race to compute the same vendor. That duplicate work is
// accepted and the last writer wins.
type VendorCache struct {
	mu      sync.Mutex
	entries map[string]model.Verdict
}

// NewVendorCache creates an empty cache.
func NewVendorCache() *VendorCache {
	return &VendorCache{entries: make(map[string]model.Verdict)}
}

// Get returns the cached verdict for a vendor name, if present.
func (c *VendorCache) Get(name string) (model.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[name]
	return v, ok
}

// Put stores a verdict for a vendor name, overwriting any existing entry.
func (c *VendorCache) Put(name string, v model.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = v
}

// Len returns the number of cached vendors.
func (c *VendorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Snapshot returns a copy of the cache contents.
func (c *VendorCache) Snapshot() map[string]model.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]model.Verdict, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// cacheFileEntry is the on-disk representation of a cached verdict.
type cacheFileEntry struct {
	IsValid bool   `json:"isValid"`
	Score   int    `json:"score"`
	Address string `json:"address,omitempty"`
}

// LoadVendorCache reads a cache file written by WriteFile. A missing file
// yields an empty cache.
func LoadVendorCache(path string) (*VendorCache, error) {
	cache := NewVendorCache()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading vendor cache: %w", err)
	}

	var raw map[string]cacheFileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing vendor cache: %w", err)
	}

	for name, e := range raw {
		cache.entries[name] = model.Verdict{IsSmallBusiness: e.IsValid, Score: e.Score}
	}
	return cache, nil
}

// WriteFile persists the cache contents, replacing the file wholesale.
func (c *VendorCache) WriteFile(path string) error {
	c.mu.Lock()
	raw := make(map[string]cacheFileEntry, len(c.entries))
	for name, v := range c.entries {
		raw[name] = cacheFileEntry{IsValid: v.IsSmallBusiness, Score: v.Score}
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding vendor cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating vendor cache directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing vendor cache: %w", err)
	}
	return nil
}
