package domain

import (
	"github.com/govalues/decimal"
)

// Option is a product variant (color, volume, ...). IDs come from
// products.json and may be numbers or strings there, so they are kept as
// strings and compared in normalized form.
type Option struct {
	ID   string
	Name string
}

type Product struct {
	ID      int64
	Name    string
	Price   decimal.Decimal
	Options []Option
}
