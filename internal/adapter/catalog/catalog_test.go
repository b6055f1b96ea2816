package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsJSON = `[
  {"id": 1, "name": "Widget", "price": 50, "options": [{"id": "a", "name": "Red"}, {"id": 2, "name": "Blue"}]},
  {"id": 2, "name": "Gadget", "price": 19.99}
]`

func writeProducts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestCatalog(t *testing.T, content string) *Catalog {
	t.Helper()
	logger, _ := zap.NewProduction()
	c, err := New(&config.Catalog{ProductsPath: writeProducts(t, content)}, logger)
	require.NoError(t, err)
	return c
}

func TestCatalog_Product(t *testing.T) {
	c := newTestCatalog(t, productsJSON)

	widget := c.Product(1)
	require.NotNil(t, widget)
	assert.Equal(t, "Widget", widget.Name)
	assert.Equal(t, 0, widget.Price.Cmp(decimal.MustParse("50")))

	gadget := c.Product(2)
	require.NotNil(t, gadget)
	assert.Equal(t, 0, gadget.Price.Cmp(decimal.MustParse("19.99")))

	assert.Nil(t, c.Product(999))
}

func TestCatalog_FindOption(t *testing.T) {
	c := newTestCatalog(t, productsJSON)
	widget := c.Product(1)
	gadget := c.Product(2)

	opt := c.FindOption(widget, "a")
	require.NotNil(t, opt)
	assert.Equal(t, "Red", opt.Name)

	// numeric option id in the file matches a string lookup
	opt = c.FindOption(widget, "2")
	require.NotNil(t, opt)
	assert.Equal(t, "Blue", opt.Name)

	assert.Nil(t, c.FindOption(widget, "zzz"))
	assert.Nil(t, c.FindOption(widget, ""))
	// product without options never matches
	assert.Nil(t, c.FindOption(gadget, "a"))
	assert.Nil(t, c.FindOption(nil, "a"))
}

func TestCatalog_Reload(t *testing.T) {
	path := writeProducts(t, productsJSON)
	logger, _ := zap.NewProduction()
	c, err := New(&config.Catalog{ProductsPath: path}, logger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 3, "name": "Sprocket", "price": 5}]`), 0o600))
	require.NoError(t, c.Reload())

	assert.Nil(t, c.Product(1))
	assert.NotNil(t, c.Product(3))
}

func TestCatalog_ReloadKeepsOldTableOnFailure(t *testing.T) {
	path := writeProducts(t, productsJSON)
	logger, _ := zap.NewProduction()
	c, err := New(&config.Catalog{ProductsPath: path}, logger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	require.Error(t, c.Reload())

	assert.NotNil(t, c.Product(1))
}

func TestCatalog_MissingFile(t *testing.T) {
	logger, _ := zap.NewProduction()
	_, err := New(&config.Catalog{ProductsPath: filepath.Join(t.TempDir(), "absent.json")}, logger)
	assert.Error(t, err)
}
