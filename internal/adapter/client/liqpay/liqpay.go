// Package liqpay implements the LiqPay checkout wire format: a compact JSON
// payload, base64-encoded, signed with base64(SHA1(privateKey + data +
// privateKey)). The construction must match the provider byte for byte.
package liqpay

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/govalues/decimal"
)

const checkoutEndpoint = "https://www.liqpay.ua/api/3/checkout"

// placeholderPublicKey is the unconfigured default: with it the issuer
// returns no link and the bot falls back to "payment to be arranged".
const placeholderPublicKey = "your_public_key"

type Client struct {
	publicKey  string
	privateKey string
	sandbox    bool
	currency   string
	resultURL  string
	serverURL  string
}

func NewClient(cfg *config.LiqPay) *Client {
	return &Client{
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		sandbox:    cfg.Sandbox,
		currency:   cfg.Currency,
		resultURL:  cfg.ResultURL,
		serverURL:  cfg.ServerURL,
	}
}

func (c *Client) Configured() bool {
	return c.publicKey != "" && c.publicKey != placeholderPublicKey
}

// checkoutRequest field order follows the provider examples; the provider
// itself only requires matching types, not key order.
type checkoutRequest struct {
	PublicKey   string `json:"public_key"`
	Version     string `json:"version"`
	Action      string `json:"action"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	OrderID     string `json:"order_id"`
	Sandbox     string `json:"sandbox"`
	ResultURL   string `json:"result_url"`
	ServerURL   string `json:"server_url"`
}

// CheckoutLink builds the signed checkout URL for an order. ok is false when
// credentials are not configured; that is a valid no-link outcome, not an
// error. Pure function of its inputs and the configured keys.
func (c *Client) CheckoutLink(orderID int64, amount decimal.Decimal, description string) (string, bool) {
	if !c.Configured() {
		return "", false
	}

	sandbox := "0"
	if c.sandbox {
		sandbox = "1"
	}
	request := checkoutRequest{
		PublicKey:   c.publicKey,
		Version:     "3",
		Action:      "pay",
		Amount:      amount.String(),
		Currency:    c.currency,
		Description: description,
		OrderID:     strconv.FormatInt(orderID, 10),
		Sandbox:     sandbox,
		ResultURL:   c.resultURL,
		ServerURL:   c.serverURL,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", false
	}
	data := base64.StdEncoding.EncodeToString(body)

	query := url.Values{}
	query.Set("data", data)
	query.Set("signature", c.Sign(data))

	return checkoutEndpoint + "?" + query.Encode(), true
}

// Sign computes base64(SHA1(privateKey + data + privateKey)). This is the
// provider's pre-shared-secret MAC, not an HMAC.
func (c *Client) Sign(data string) string {
	digest := sha1.Sum([]byte(c.privateKey + data + c.privateKey))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// Verify checks an inbound callback signature against the data blob.
func (c *Client) Verify(data, signature string) bool {
	return c.Sign(data) == signature
}

// DecodeCallback base64-decodes and parses a verified callback blob. The
// provider sends order_id and amount as either numbers or strings.
func (c *Client) DecodeCallback(data string) (*domain.PaymentEvent, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode callback data: %w", domain.ErrMalformedCallback)
	}

	var payload struct {
		OrderID  any    `json:"order_id"`
		Status   string `json:"status"`
		Amount   any    `json:"amount"`
		Currency string `json:"currency"`
	}
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse callback data: %w", domain.ErrMalformedCallback)
	}

	orderID, ok := numericToInt64(payload.OrderID)
	if !ok || orderID == 0 {
		return nil, fmt.Errorf("callback order_id: %w", domain.ErrMalformedCallback)
	}

	event := domain.PaymentEvent{
		OrderID:  orderID,
		Status:   payload.Status,
		Currency: payload.Currency,
	}
	if payload.Amount != nil {
		amount, ok := numericToDecimal(payload.Amount)
		if !ok {
			return nil, fmt.Errorf("callback amount: %w", domain.ErrMalformedCallback)
		}
		event.Amount = amount
		event.AmountSet = true
	}

	return &event, nil
}

func numericToInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

func numericToDecimal(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case json.Number:
		d, err := decimal.Parse(value.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case string:
		d, err := decimal.Parse(value)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
