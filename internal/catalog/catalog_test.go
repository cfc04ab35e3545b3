package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{
			{Name: "Laptopuri", URL: "laptopuri/c"},
			{Name: "Telefoane Mobile", URL: "telefoane-mobile/c"},
		},
		Filters: map[string][]FilterOption{
			"Brand": {
				{Label: "Lenovo", ValueID: "v123", URLPath: "/laptopuri/filter/brand-f123,lenovo-v123/c"},
				{Label: "Asus", ValueID: "v124", URLPath: "/laptopuri/filter/brand-f123,asus-v124/c"},
			},
		},
	}
}

func TestFindCategory(t *testing.T) {
	cat := testCatalog()

	got, ok := cat.FindCategory("laptopuri")
	require.True(t, ok)
	assert.Equal(t, "Laptopuri", got.Name)

	_, ok = cat.FindCategory("frigidere")
	assert.False(t, ok)
}

func TestFindOption(t *testing.T) {
	cat := testCatalog()

	got, ok := cat.FindOption("brand", "LENOVO")
	require.True(t, ok)
	assert.Equal(t, "v123", got.ValueID)

	_, ok = cat.FindOption("brand", "Apple")
	assert.False(t, ok)

	_, ok = cat.FindOption("culoare", "Lenovo")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	require.NoError(t, testCatalog().Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Categories, 2)
	assert.Len(t, loaded.Filters["Brand"], 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	page := `<html><body>
	<script id="grid-controls-v2-filter-modal-data" type="application/json">
	{
		"filters": [
			{
				"name": "Brand",
				"options": [
					{"label": "Lenovo", "value_id": "v123", "url_path": "/laptopuri/filter/brand-f123,lenovo-v123/c", "count": 42},
					{"label": "Asus", "value_id": "v124", "url_path": "/laptopuri/filter/brand-f123,asus-v124/c", "count": 17}
				]
			}
		]
	}
	</script>
	<a data-type="category" href="/laptopuri/c"><span class="category-name">Laptopuri</span></a>
	<a class="js-sidebar-tree-url" href="/telefoane-mobile/c"><span class="category-name">Telefoane Mobile</span></a>
	<a class="js-sidebar-tree-url" href="/laptopuri/c"><span class="category-name">Laptopuri (duplicat)</span></a>
	</body></html>`

	cat, err := Extract(strings.NewReader(page))
	require.NoError(t, err)

	// Duplicate category URLs collapse.
	require.Len(t, cat.Categories, 2)
	assert.Equal(t, "Laptopuri", cat.Categories[0].Name)
	assert.Equal(t, "Telefoane Mobile", cat.Categories[1].Name)

	require.Len(t, cat.Filters["Brand"], 2)
	assert.Equal(t, 42, cat.Filters["Brand"][0].Count)
}

func TestExtractNoModalData(t *testing.T) {
	cat, err := Extract(strings.NewReader(`<html><body><p>bare page</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, cat.Categories)
	assert.Empty(t, cat.Filters)
}
