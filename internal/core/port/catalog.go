package port

import (
	"github.com/equinox-market/shopbot/internal/core/domain"
)

type CatalogLookup interface {
	Product(id int64) *domain.Product
	// FindOption matches by normalized string id. A product without an
	// options list never matches.
	FindOption(product *domain.Product, optionID string) *domain.Option
}
