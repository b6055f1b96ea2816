// Package catalog loads the product reference data from products.json into
// an immutable in-process lookup table. The table is only ever replaced
// wholesale by an explicit Reload, never mutated in place.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type Catalog struct {
	logger *zap.Logger
	path   string

	mu       sync.RWMutex
	products map[int64]*domain.Product
}

func New(cfg *config.Catalog, log *zap.Logger) (*Catalog, error) {
	c := &Catalog{
		logger:   log,
		path:     cfg.ProductsPath,
		products: map[int64]*domain.Product{},
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// File-level shapes: ids and prices arrive as JSON numbers or strings
// depending on who last edited products.json.
type optionFile struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

type productFile struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Price   float64      `json:"price"`
	Options []optionFile `json:"options"`
}

// Reload re-reads products.json and swaps the lookup table atomically.
// On failure the previous table stays in place.
func (c *Catalog) Reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read products file: %w", err)
	}

	var files []productFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return fmt.Errorf("parse products file: %w", err)
	}

	products := make(map[int64]*domain.Product, len(files))
	for _, f := range files {
		price, err := decimal.NewFromFloat64(f.Price)
		if err != nil {
			return fmt.Errorf("product %d price: %w", f.ID, err)
		}
		product := domain.Product{
			ID:    f.ID,
			Name:  f.Name,
			Price: price,
		}
		for _, o := range f.Options {
			product.Options = append(product.Options, domain.Option{
				ID:   normalizeID(o.ID),
				Name: o.Name,
			})
		}
		products[f.ID] = &product
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()

	c.logger.Info("products loaded", zap.Int("count", len(products)))
	return nil
}

func (c *Catalog) Product(id int64) *domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products[id]
}

// FindOption matches an option by normalized string id, so numeric and
// string ids interoperate. A product with no options never matches.
func (c *Catalog) FindOption(product *domain.Product, optionID string) *domain.Option {
	if product == nil || optionID == "" {
		return nil
	}
	for i := range product.Options {
		if product.Options[i].ID == optionID {
			return &product.Options[i]
		}
	}
	return nil
}

func normalizeID(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
