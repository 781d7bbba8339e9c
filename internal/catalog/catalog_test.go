package catalog_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/catalog"
)

const sampleCatalog = `[
	{"id": "apple", "name": "Apple", "price": 100, "unitsInBulk": 3, "priceInBulk": 250},
	{"id": "pear", "price": 80},
	{"id": "melon", "name": "Melon", "price": 400, "unitsInBulk": 2, "priceInBulk": 0}
]`

func loadSample(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	require.NoError(t, c.Load(strings.NewReader(sampleCatalog)))
	return c
}

func TestProductByID(t *testing.T) {
	c := loadSample(t)

	p, err := c.ProductByID("apple")
	require.NoError(t, err)
	require.Equal(t, "Apple", p.Name())
	require.EqualValues(t, 100, p.Price())
	require.Equal(t, 3, p.UnitsInBulk())
	require.EqualValues(t, 250, p.PriceInBulk())
	require.True(t, p.HasBulkPricing())

	pear, err := c.ProductByID("pear")
	require.NoError(t, err)
	require.False(t, pear.HasBulkPricing())

	_, err = c.ProductByID("kiwi")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductsSortedByID(t *testing.T) {
	c := loadSample(t)
	var ids []string
	for _, p := range c.Products() {
		ids = append(ids, p.ID())
	}
	require.Equal(t, []string{"apple", "melon", "pear"}, ids)
	require.Equal(t, 3, c.Len())
	require.True(t, c.Has("melon"))
	require.False(t, c.Has("kiwi"))
}

func TestLoadMergesAndOverwrites(t *testing.T) {
	c := loadSample(t)
	before, err := c.ProductByID("pear")
	require.NoError(t, err)

	require.NoError(t, c.Load(strings.NewReader(`[{"id": "apple", "price": 120}, {"id": "kiwi", "price": 30}]`)))
	require.Equal(t, 4, c.Len())

	apple, err := c.ProductByID("apple")
	require.NoError(t, err)
	require.EqualValues(t, 120, apple.Price())
	require.False(t, apple.HasBulkPricing())

	after, err := c.ProductByID("pear")
	require.NoError(t, err)
	require.Same(t, before, after)
}

func TestLoadRejectsMalformedData(t *testing.T) {
	cases := map[string]string{
		"not json":          `{{`,
		"object not array":  `{"id": "apple", "price": 1}`,
		"null document":     `null`,
		"scalar entry":      `[{"id": "a", "price": 1}, 42]`,
		"wrong field type":  `[{"id": "a", "price": "ten"}]`,
		"missing id":        `[{"price": 10}]`,
		"negative price":    `[{"id": "a", "price": -1}]`,
		"bulk of one":       `[{"id": "a", "price": 10, "unitsInBulk": 1, "priceInBulk": 5}]`,
		"bulk price alone":  `[{"id": "a", "price": 10, "priceInBulk": 5}]`,
		"negative bulk fee": `[{"id": "a", "price": 10, "unitsInBulk": 2, "priceInBulk": -5}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			c := catalog.New()
			err := c.Load(strings.NewReader(doc))
			require.ErrorIs(t, err, catalog.ErrImportFormat)
			require.Zero(t, c.Len())
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	err := catalog.New().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, catalog.ErrImportFormat)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := loadSample(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, c.SaveFile(path))

	reloaded := catalog.New()
	require.NoError(t, reloaded.LoadFile(path))
	require.Equal(t, c.Len(), reloaded.Len())
	for _, p := range c.Products() {
		got, err := reloaded.ProductByID(p.ID())
		require.NoError(t, err)
		require.Equal(t, p.Record(), got.Record())
	}

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	var second bytes.Buffer
	require.NoError(t, reloaded.Save(&second))
	require.Equal(t, string(first), second.String())
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := loadSample(t)
	apple, err := c.ProductByID("apple")
	require.NoError(t, err)

	require.ErrorIs(t, c.Put("apple", apple), catalog.ErrAccessDenied)
	require.ErrorIs(t, c.Remove("apple"), catalog.ErrAccessDenied)
	require.True(t, c.Has("apple"))
}

func TestMustProductPanicsOnInvalidRecord(t *testing.T) {
	require.Panics(t, func() { catalog.MustProduct(catalog.Record{Price: 10}) })
}
