package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(productsPath, ingredientsPath string) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			ProductsPath:    productsPath,
			IngredientsPath: ingredientsPath,
		},
	}
}

const validProducts = `[
  {"id":"p1","name":"Gel Cleanser","brand":"Acme","category":"cleanser","ingredients_full":"Aqua, Glycerin","suitable_for":["oily"],"fragrance_free":true},
  {"id":"p2","name":"Rich Cream","brand":"Acme","category":"moisturizer","ingredients_full":"Aqua, Ceramide NP","suitable_for":["dry"],"fragrance_free":true}
]`

const validIngredients = `[
  {"name":"glycerin","comedogenic_rating":0},
  {"name":"Fragrance","fragrance":true}
]`

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	products := writeFile(t, dir, "products.json", validProducts)
	ingredients := writeFile(t, dir, "inci.json", validIngredients)

	cat, err := Load(testConfig(products, ingredients))
	require.NoError(t, err)

	assert.Equal(t, 2, cat.Size())
	assert.Len(t, cat.Ingredients(), 2)
	assert.Len(t, cat.Products(), 2)
}

func TestLoadCatalogDuplicateID(t *testing.T) {
	dir := t.TempDir()
	products := writeFile(t, dir, "products.json", `[
	  {"id":"p1","name":"A","category":"serum"},
	  {"id":"p1","name":"B","category":"serum"}
	]`)
	ingredients := writeFile(t, dir, "inci.json", validIngredients)

	_, err := Load(testConfig(products, ingredients))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCatalogCorrupted))
}

func TestLoadCatalogMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	products := writeFile(t, dir, "products.json", `[{"id":"p1","name":"No Category"}]`)
	ingredients := writeFile(t, dir, "inci.json", validIngredients)

	_, err := Load(testConfig(products, ingredients))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCatalogCorrupted))
}

func TestLoadCatalogEmptyProducts(t *testing.T) {
	dir := t.TempDir()
	products := writeFile(t, dir, "products.json", `[]`)
	ingredients := writeFile(t, dir, "inci.json", validIngredients)

	_, err := Load(testConfig(products, ingredients))
	assert.Error(t, err)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	dir := t.TempDir()
	ingredients := writeFile(t, dir, "inci.json", validIngredients)

	_, err := Load(testConfig(filepath.Join(dir, "nope.json"), ingredients))
	assert.Error(t, err)
}

func TestLoadCatalogIngredientMissingName(t *testing.T) {
	dir := t.TempDir()
	products := writeFile(t, dir, "products.json", validProducts)
	ingredients := writeFile(t, dir, "inci.json", `[{"comedogenic_rating":3}]`)

	_, err := Load(testConfig(products, ingredients))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCatalogCorrupted))
}
