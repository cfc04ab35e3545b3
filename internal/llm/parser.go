package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sellerscout/seller-scout/internal/model"
)

// cleanMarkdownWrapper strips markdown code fences that models sometimes wrap
// around JSON responses despite instructions not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = strings.TrimPrefix(content, "```json")
			content = strings.TrimPrefix(content, "```")
		}
	}
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}

// parseSelection decodes a filter-selection JSON payload from LLM output.
func parseSelection(content string) (model.FilterSelection, error) {
	content = cleanMarkdownWrapper(content)

	var sel model.FilterSelection
	if err := json.Unmarshal([]byte(content), &sel); err != nil {
		return model.FilterSelection{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if sel.Category == "" {
		return model.FilterSelection{}, fmt.Errorf("no category found in response")
	}

	return sel, nil
}
