package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound  = errors.New("data not found")
	ErrNoUpdatedData = errors.New("no data to update")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Checkout errors. Surfaced to the customer, never to the admin.
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyCart       = errors.New("cart is empty or no item resolved")

	// * Payment callback errors. Any of these aborts the reconciliation
	// with no state change.
	ErrInvalidSignature  = errors.New("invalid callback signature")
	ErrMalformedCallback = errors.New("malformed callback payload")
	ErrAmountMismatch    = errors.New("callback amount does not match order total")
	ErrCurrencyMismatch  = errors.New("callback currency does not match settlement currency")
)
