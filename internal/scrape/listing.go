// Package scrape extracts product cards from paginated marketplace search
// results. Selectors cover the layout variants observed in the wild; there
// is no guarantee against future redesigns.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/fetch"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Card containers across old and new layouts. A comma selector returns each
// matching node once, so A/B-test duplicates collapse naturally.
const cardSelector = "div.card-item, div.card-v2, section.card-v2"

var nameSelectors = []string{
	"a.card-v2-title",
	"h2.card-v2-title a",
	`a[data-zone="title"]`,
	"a.js-product-url",
	"h2 a",
	"a.product-title",
	".card-body a.card-v2-title",
}

var priceSelectors = []string{
	".product-new-price",
	".card-v2-price .product-new-price",
	"p.product-new-price",
	"span.product-new-price",
	".price-overview .product-new-price",
}

var (
	priceJunk  = regexp.MustCompile(`[^\d.,]`)
	priceValue = regexp.MustCompile(`\d+\.?\d*`)
)

// Lister fetches search-result pages and extracts product cards.
type Lister struct {
	fetcher   *fetch.Fetcher
	maxPages  int
	pageDelay time.Duration
}

// NewLister creates a Lister walking up to maxPages result pages.
func NewLister(fetcher *fetch.Fetcher, maxPages int) *Lister {
	if maxPages <= 0 {
		maxPages = 2
	}
	return &Lister{fetcher: fetcher, maxPages: maxPages, pageDelay: 200 * time.Millisecond}
}

// Products walks the paginated results for searchURL and returns the unique
// product cards found. A 404 stops pagination; other page-level failures
// are logged and skipped.
func (l *Lister) Products(ctx context.Context, searchURL string) ([]model.Product, error) {
	var products []model.Product
	seen := make(map[string]bool)

	for page := 1; page <= l.maxPages; page++ {
		target := pageURL(searchURL, page)
		slog.Debug("Scraping listing page", "page", page, "url", target)

		doc, err := l.fetcher.Document(ctx, target)
		if errors.Is(err, common.ErrNotFound) {
			break
		}
		if err != nil {
			slog.Warn("Failed to fetch listing page", "page", page, "error", err)
			continue
		}

		for _, p := range extractCards(doc, target) {
			if seen[p.URL] {
				continue
			}
			seen[p.URL] = true
			products = append(products, p)
		}

		if page < l.maxPages {
			select {
			case <-ctx.Done():
				return products, ctx.Err()
			case <-time.After(l.pageDelay):
			}
		}
	}

	return products, nil
}

// pageURL builds the URL for a given result page. Page 1 is the base URL;
// later pages insert /p<N> before a trailing /c segment.
func pageURL(base string, page int) string {
	if page == 1 {
		return base
	}
	if strings.HasSuffix(base, "/c") {
		return fmt.Sprintf("%s/p%d/c", strings.TrimSuffix(base, "/c"), page)
	}
	return fmt.Sprintf("%s/p%d/c", strings.TrimRight(base, "/"), page)
}

func extractCards(doc *goquery.Document, pageURL string) []model.Product {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var products []model.Product
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		rawURL := card.AttrOr("data-url", "")
		if rawURL == "" {
			rawURL = card.Find("a[href]").First().AttrOr("href", "")
		}
		if rawURL == "" {
			return
		}

		products = append(products, model.Product{
			URL:   absoluteURL(base, rawURL),
			Name:  cardName(card),
			Image: cardImage(base, card),
			Price: cardPrice(card),
		})
	})
	return products
}

func cardName(card *goquery.Selection) string {
	for _, sel := range nameSelectors {
		if txt := strings.TrimSpace(card.Find(sel).First().Text()); txt != "" {
			return txt
		}
	}

	// Fallback: any anchor with meaningful text.
	var name string
	card.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if txt := strings.TrimSpace(a.Text()); len(txt) > 4 {
			name = txt
			return false
		}
		return true
	})
	if name == "" {
		return "Unknown Product"
	}
	return name
}

func cardImage(base *url.URL, card *goquery.Selection) string {
	img := card.Find("img").First()
	src := img.AttrOr("data-src", "")
	if src == "" {
		src = img.AttrOr("src", "")
	}
	if src == "" {
		return ""
	}
	return absoluteURL(base, src)
}

func cardPrice(card *goquery.Selection) *float64 {
	for _, sel := range priceSelectors {
		txt := strings.TrimSpace(card.Find(sel).First().Text())
		if txt == "" {
			continue
		}
		if v, ok := parsePrice(txt); ok {
			return &v
		}
	}
	return nil
}

// parsePrice normalizes a displayed price: junk stripped, dot treated as
// thousands separator, comma as the decimal mark.
func parsePrice(text string) (float64, bool) {
	cleaned := priceJunk.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	match := priceValue.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
