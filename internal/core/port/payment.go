package port

import (
	"github.com/govalues/decimal"

	"github.com/equinox-market/shopbot/internal/core/domain"
)

// PaymentLinker derives a signed checkout URL for an order. ok is false when
// provider credentials are not configured, which is a valid outcome: callers
// fall back to a no-payment-link message.
type PaymentLinker interface {
	CheckoutLink(orderID int64, amount decimal.Decimal, description string) (link string, ok bool)
}

// CallbackCodec authenticates and decodes an inbound provider callback.
type CallbackCodec interface {
	Verify(data, signature string) bool
	DecodeCallback(data string) (*domain.PaymentEvent, error)
}
