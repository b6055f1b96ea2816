package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// LineItem is one priced position inside an order. Price is the unit price,
// the line total is Price*Qty.
type LineItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// Order is the persisted checkout. Items, contact and total are immutable
// after creation. Status is driven by admin actions, PaymentStatus by the
// payment reconciler; the two axes never imply each other.
type Order struct {
	ID            int64
	UserID        int64
	UserName      string
	Items         []LineItem
	TotalPrice    decimal.Decimal
	Contact       map[string]any
	Status        OrderStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// StoreStats backs the admin statistics command. Revenue excludes
// cancelled orders.
type StoreStats struct {
	TotalOrders int64
	NewOrders   int64
	Revenue     decimal.Decimal
}
