package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Marketplace URLs require filter segments in the site's canonical order;
// out-of-order segments silently return empty result pages.
var filterPriority = []string{
	"culoare",
	"material",
	"brand",
	"pret",
	"rating",
	"timp de livrare estimat",
	"pentru",
	"emag genius",
	"produse la oferta",
	"disponibilitate",
	"super pret",
	"disponibil prin easybox",
	"livrat de",
	"disponibil in showroom",
}

const unknownPriority = 9999

func filterRank(name string) int {
	lower := strings.ToLower(name)
	for i, p := range filterPriority {
		if lower == p {
			return i
		}
	}
	return unknownPriority
}

// BuildSearchURL assembles a marketplace search URL from a category and an
// ordered set of filters. Category paths look like /label/context/c or
// /label/sub/context/c; filters slot between the label and the trailing
// context segments.
func BuildSearchURL(base string, sel model.FilterSelection, cat *Catalog) (string, error) {
	category, ok := cat.FindCategory(sel.Category)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", common.ErrData, sel.Category)
	}

	parts := splitPath(category.URL)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: malformed category URL %q", common.ErrData, category.URL)
	}
	// The terminal segment is the routing id; a path longer than two
	// segments also carries a context segment before it. Filter segments
	// slot between the label path and those trailing segments.
	end := parts[len(parts)-1]
	var context string
	labelEnd := len(parts) - 1
	if len(parts) > 2 {
		context = parts[len(parts)-2]
		labelEnd = len(parts) - 2
	}
	label := strings.Join(parts[:labelEnd], "/")

	filters := make([]model.FilterChoice, len(sel.Filters))
	copy(filters, sel.Filters)
	sort.SliceStable(filters, func(i, j int) bool {
		return filterRank(filters[i].FilterName) < filterRank(filters[j].FilterName)
	})

	var segments []string
	for _, f := range filters {
		seg, ok := filterSegment(f, cat)
		if !ok {
			slog.Debug("Skipping unresolved filter",
				"filter", f.FilterName,
				"option", f.OptionLabel)
			continue
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/"), nil
	}

	pieces := []string{strings.TrimRight(base, "/"), label, "filter"}
	pieces = append(pieces, segments...)
	if context != "" {
		pieces = append(pieces, context)
	}
	pieces = append(pieces, end)
	return strings.Join(pieces, "/"), nil
}

// filterSegment resolves one filter choice to its URL segment. A filter
// that cannot be resolved (missing bounds, an option label the catalog
// does not know, often an LLM hallucination) reports ok false so the
// caller can drop it and still build a usable URL.
func filterSegment(f model.FilterChoice, cat *Catalog) (string, bool) {
	switch strings.ToLower(f.FilterName) {
	case "pret":
		if f.Min == nil || f.Max == nil {
			return "", false
		}
		return fmt.Sprintf("pret,intre-%d-si-%d", *f.Min, *f.Max), true
	case "rating":
		if f.Min == nil {
			return "", false
		}
		return fmt.Sprintf("rating,star-%d", *f.Min), true
	}

	if f.OptionLabel == "" {
		return "", false
	}
	opt, ok := cat.FindOption(f.FilterName, f.OptionLabel)
	if !ok {
		return "", false
	}

	// The option's URL path carries the canonical segment after /filter/.
	path := opt.URLPath
	if path == "" {
		path = opt.URLBase
	}
	if idx := strings.Index(path, "/filter/"); idx >= 0 {
		rest := path[idx+len("/filter/"):]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			rest = rest[:slash]
		}
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

func splitPath(rawURL string) []string {
	trimmed := strings.Trim(rawURL, "/")
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		trimmed = trimmed[idx+3:]
		if slash := strings.Index(trimmed, "/"); slash >= 0 {
			trimmed = trimmed[slash+1:]
		} else {
			trimmed = ""
		}
	}
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
