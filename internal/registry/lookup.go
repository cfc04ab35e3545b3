// Package registry resolves marketplace sellers against the public business
// registry: legal identity from the vendor profile page, then the filed
// balance sheet from the registry's company page.
package registry

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/fetch"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Labels preceding the identity fields on a vendor profile page.
const (
	companyNameLabel = "Denumirea companiei:"
	companyCodeLabel = "Cod unic de inregistrare:"
)

const vendorLinkSelector = `a[href*="v?ref=see_vendor_page"]`

var (
	slugPunctuation = strings.NewReplacer(".", "", ",", "")
	slugWhitespace  = regexp.MustCompile(`\s+`)
)

// Config holds registry client settings.
type Config struct {
	// BaseURL is the registry site root, e.g. https://listafirme.ro.
	BaseURL string
	// ReferenceYear anchors company-age computation. Zero means the current
	// calendar year.
	ReferenceYear int
}

// Client implements vendor resolution and financial extraction.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
	refYear int
}

// New creates a registry client.
func New(fetcher *fetch.Fetcher, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://listafirme.ro"
	}
	if cfg.ReferenceYear == 0 {
		cfg.ReferenceYear = time.Now().Year()
	}
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		refYear: cfg.ReferenceYear,
	}
}

// VendorProfileURL extracts the seller-profile link from a product page and
// resolves it against the page URL.
func (c *Client) VendorProfileURL(ctx context.Context, productURL string) (string, error) {
	doc, err := c.fetcher.Document(ctx, productURL)
	if err != nil {
		return "", err
	}

	href, ok := doc.Find(vendorLinkSelector).First().Attr("href")
	if !ok {
		return "", fmt.Errorf("%w: vendor profile link on %s", common.ErrParse, productURL)
	}

	base, err := url.Parse(productURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrData, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrData, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// ResolveVendor extracts the company name and registration code from a
// vendor profile page. Either field missing means the vendor cannot be
// identified.
func (c *Client) ResolveVendor(ctx context.Context, profileURL string) (*model.VendorIdentity, error) {
	doc, err := c.fetcher.Document(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	name := labeledValue(doc, companyNameLabel)
	code := labeledValue(doc, companyCodeLabel)
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: company name/code on %s", common.ErrParse, profileURL)
	}

	return &model.VendorIdentity{Name: name, RegistrationCode: code}, nil
}

// CompanyPageURL builds the registry company-page URL from an identity.
// The slug is the lowercased name with dots and commas removed and each
// run of whitespace replaced by a dash, so "S.C. Electro Co. S.R.L."
// becomes sc-electro-co-srl. The registration code is appended last.
func (c *Client) CompanyPageURL(id model.VendorIdentity) string {
	slug := slugPunctuation.Replace(strings.ToLower(id.Name))
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	return fmt.Sprintf("%s/%s-%s/", c.baseURL, slug, id.RegistrationCode)
}

// labeledValue finds a <strong> element whose text equals label and returns
// the trimmed text node immediately following it.
func labeledValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != label {
			return true
		}
		if node := s.Nodes[0].NextSibling; node != nil && node.Type == html.TextNode {
			value = strings.TrimSpace(node.Data)
		}
		return false
	})
	return value
}
