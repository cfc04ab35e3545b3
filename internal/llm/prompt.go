package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/model"
)

const responseFormat = `Respond with ONLY a JSON object in this exact shape:
{
  "category": "<exact category name from the list>",
  "filters": [
    {"filter_name": "<filter name>", "option_label": "<option label>"},
    {"filter_name": "pret", "min": <number>, "max": <number>},
    {"filter_name": "rating", "min": <number>}
  ]
}

Rules:
- The category MUST be one of the listed category names, copied exactly.
- Each option_label MUST be copied exactly from the listed options.
- The "pret" filter takes numeric min and max bounds in RON instead of an option_label.
- The "rating" filter takes a numeric min (1-5) instead of an option_label.
- Only include filters the request actually implies. An empty filters array is fine.`

// SelectionPrompt builds the initial prompt mapping a shopping request onto
// the catalog's categories and filters.
func SelectionPrompt(userPrompt string, cat *catalog.Catalog) string {
	var sb strings.Builder

	sb.WriteString("You translate a shopping request into a marketplace category and filter selection.\n\n")
	sb.WriteString("Available categories:\n")
	for _, c := range cat.Categories {
		fmt.Fprintf(&sb, "- %s\n", c.Name)
	}

	writeFilterInventory(&sb, cat)

	fmt.Fprintf(&sb, "\nShopping request: %s\n\n%s", userPrompt, responseFormat)
	return sb.String()
}

// writeFilterInventory lists the catalog's filters in sorted name order so
// repeated builds over the same catalog produce an identical prompt.
func writeFilterInventory(sb *strings.Builder, cat *catalog.Catalog) {
	names := make([]string, 0, len(cat.Filters))
	for name := range cat.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("\nAvailable filters and options:\n")
	for _, name := range names {
		fmt.Fprintf(sb, "%s:", name)
		for i, o := range cat.Filters[name] {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(sb, " %s", o.Label)
		}
		sb.WriteString("\n")
	}
}

// RefinePrompt builds a follow-up prompt adjusting an existing selection
// according to a new instruction.
func RefinePrompt(current model.FilterSelection, instruction string, cat *catalog.Catalog) string {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		currentJSON = []byte("{}")
	}

	var sb strings.Builder
	sb.WriteString("You refine an existing marketplace filter selection.\n\n")
	fmt.Fprintf(&sb, "Current selection:\n%s\n\n", string(currentJSON))

	sb.WriteString("Available categories:\n")
	for _, c := range cat.Categories {
		fmt.Fprintf(&sb, "- %s\n", c.Name)
	}

	writeFilterInventory(&sb, cat)

	fmt.Fprintf(&sb, "\nNew instruction: %s\n\nApply the instruction to the current selection, keeping everything the instruction does not change.\n\n%s", instruction, responseFormat)
	return sb.String()
}
