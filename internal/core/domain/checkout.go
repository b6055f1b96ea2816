package domain

// Checkout payload actions as the web app sends them.
const (
	CheckoutActionBuy  = "buy"
	CheckoutActionCart = "cart_checkout"
)

// CheckoutItem is one cart entry. ProductID may arrive under "productId" or
// the legacy "id" key; OptionID and Qty are deliberately loose typed because
// the web app sends numbers and strings interchangeably.
type CheckoutItem struct {
	ProductID any `json:"productId"`
	LegacyID  any `json:"id"`
	OptionID  any `json:"optionId"`
	Qty       any `json:"qty"`
}

// CheckoutPayload is the decoded web_app_data JSON.
type CheckoutPayload struct {
	Action     string         `json:"action"`
	ProductID  any            `json:"productId"`
	OptionID   any            `json:"optionId"`
	Items      []CheckoutItem `json:"items"`
	Contact    map[string]any `json:"contact"`
	Promo      string         `json:"promo"`
	TotalPrice *float64       `json:"totalPrice"`
}

// Checkout couples a payload with the identity of the customer who sent it.
type Checkout struct {
	ChatID   int64
	UserID   int64
	UserName string
	Username string
	Payload  CheckoutPayload
}
