package domain

import (
	"github.com/govalues/decimal"
)

// Payment provider callback statuses. Anything else is treated as a
// non-final status and leaves the order untouched.
const (
	PaymentEventSuccess = "success"
	PaymentEventFailure = "failure"
)

// PaymentEvent is a verified, decoded provider callback. AmountSet
// distinguishes a missing amount from a zero one.
type PaymentEvent struct {
	OrderID   int64
	Status    string
	Amount    decimal.Decimal
	AmountSet bool
	Currency  string
}
