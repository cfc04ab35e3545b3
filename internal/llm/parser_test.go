package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare JSON untouched",
			content: `{"category": "Laptopuri"}`,
			want:    `{"category": "Laptopuri"}`,
		},
		{
			name:    "json fence stripped",
			content: "```json\n{\"category\": \"Laptopuri\"}\n```",
			want:    `{"category": "Laptopuri"}`,
		},
		{
			name:    "plain fence stripped",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  \n{\"a\": 1}\n  ",
			want:    `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}

func TestParseSelection(t *testing.T) {
	content := "```json\n" + `{
		"category": "Laptopuri",
		"filters": [
			{"filter_name": "Brand", "option_label": "Lenovo"},
			{"filter_name": "pret", "min": 2000, "max": 4000}
		]
	}` + "\n```"

	sel, err := parseSelection(content)
	require.NoError(t, err)
	assert.Equal(t, "Laptopuri", sel.Category)
	require.Len(t, sel.Filters, 2)
	assert.Equal(t, "Brand", sel.Filters[0].FilterName)
	assert.Equal(t, "Lenovo", sel.Filters[0].OptionLabel)
	require.NotNil(t, sel.Filters[1].Min)
	assert.Equal(t, 2000, *sel.Filters[1].Min)
}

func TestParseSelectionErrors(t *testing.T) {
	t.Run("not JSON", func(t *testing.T) {
		_, err := parseSelection("I would suggest laptops.")
		assert.Error(t, err)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := parseSelection(`{"filters": []}`)
		assert.Error(t, err)
	})
}
