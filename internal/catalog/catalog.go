// Package catalog models the marketplace category tree and filter metadata
// used to assemble search URLs.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellerscout/seller-scout/internal/common"
)

// Category is a browsable marketplace category.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FilterOption is a single selectable value within a named filter.
type FilterOption struct {
	Label   string `json:"label"`
	ValueID string `json:"value_id"`
	URLBase string `json:"url_base"`
	URLPath string `json:"url_path"`
	Count   int    `json:"count"`
}

// Catalog holds the scraped category and filter metadata for a marketplace.
type Catalog struct {
	Categories []Category                `json:"categories"`
	Filters    map[string][]FilterOption `json:"filters"`
}

// Load reads a catalog snapshot from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog file: %v", common.ErrParse, err)
	}
	return &cat, nil
}

// Save writes the catalog snapshot to a JSON file.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog file: %w", err)
	}
	return nil
}

// FindCategory returns the category matching name, case-insensitively.
func (c *Catalog) FindCategory(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// FindOption returns the option with the given label under filterName,
// matching both case-insensitively.
func (c *Catalog) FindOption(filterName, label string) (FilterOption, bool) {
	for name, opts := range c.Filters {
		if !strings.EqualFold(name, filterName) {
			continue
		}
		for _, opt := range opts {
			if strings.EqualFold(opt.Label, label) {
				return opt, true
			}
		}
	}
	return FilterOption{}, false
}

// filterModalData mirrors the embedded filter-modal JSON on listing pages.
type filterModalData struct {
	Filters []struct {
		Name    string `json:"name"`
		Options []struct {
			Label   string `json:"label"`
			ValueID string `json:"value_id"`
			URLBase string `json:"url_base"`
			URLPath string `json:"url_path"`
			Count   int    `json:"count"`
		} `json:"options"`
	} `json:"filters"`
}

// Extract parses a listing page and pulls out categories and filter options.
// It reads the filter-modal JSON blob plus category sidebar anchors.
func Extract(r io.Reader) (*Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing catalog page: %v", common.ErrParse, err)
	}
	return ExtractDocument(doc)
}

// ExtractDocument is Extract for an already-parsed page.
func ExtractDocument(doc *goquery.Document) (*Catalog, error) {
	cat := &Catalog{Filters: make(map[string][]FilterOption)}

	raw := doc.Find("script#grid-controls-v2-filter-modal-data").First().Text()
	if raw != "" {
		var modal filterModalData
		if err := json.Unmarshal([]byte(raw), &modal); err != nil {
			return nil, fmt.Errorf("%w: parsing filter modal data: %v", common.ErrParse, err)
		}
		for _, f := range modal.Filters {
			for _, o := range f.Options {
				cat.Filters[f.Name] = append(cat.Filters[f.Name], FilterOption{
					Label:   o.Label,
					ValueID: o.ValueID,
					URLBase: o.URLBase,
					URLPath: o.URLPath,
					Count:   o.Count,
				})
			}
		}
	}

	seen := make(map[string]bool)
	doc.Find(`a[data-type="category"], a.js-sidebar-tree-url`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || seen[href] {
			return
		}
		name := strings.TrimSpace(a.Find(".category-name").Text())
		if name == "" {
			name = strings.TrimSpace(a.Text())
		}
		if name == "" {
			return
		}
		seen[href] = true
		cat.Categories = append(cat.Categories, Category{Name: name, URL: href})
	})

	return cat, nil
}
