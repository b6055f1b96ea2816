package liqpay

import (
	"errors"
	"net/url"
	"testing"

	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return NewClient(&config.LiqPay{
		PublicKey:  "sandbox_public",
		PrivateKey: "test_private_key",
		Sandbox:    true,
		Currency:   "UAH",
		ResultURL:  "https://market.example/",
		ServerURL:  "https://market.example/payment_callback",
	})
}

func TestCheckoutLink_Vector(t *testing.T) {
	// reference values computed from the documented construction:
	// data = base64(compact JSON), signature = base64(SHA1(priv+data+priv))
	const wantData = "eyJwdWJsaWNfa2V5Ijoic2FuZGJveF9wdWJsaWMiLCJ2ZXJzaW9uIjoiMyIsImFjdGlvbiI6InBheSIsImFtb3VudCI6IjEwMC41IiwiY3VycmVuY3kiOiJVQUgiLCJkZXNjcmlwdGlvbiI6Ik9yZGVyICM0MiIsIm9yZGVyX2lkIjoiNDIiLCJzYW5kYm94IjoiMSIsInJlc3VsdF91cmwiOiJodHRwczovL21hcmtldC5leGFtcGxlLyIsInNlcnZlcl91cmwiOiJodHRwczovL21hcmtldC5leGFtcGxlL3BheW1lbnRfY2FsbGJhY2sifQ=="
	const wantSignature = "WMZg4O/peLO37W+CrvPVy+bYc2M="

	client := testClient()

	link, ok := client.CheckoutLink(42, decimal.MustParse("100.5"), "Order #42")
	require.True(t, ok)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "www.liqpay.ua", parsed.Host)
	assert.Equal(t, "/api/3/checkout", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, wantData, query.Get("data"))
	assert.Equal(t, wantSignature, query.Get("signature"))
}

func TestCheckoutLink_Unconfigured(t *testing.T) {
	tests := []struct {
		name      string
		publicKey string
	}{
		{name: "empty key", publicKey: ""},
		{name: "placeholder key", publicKey: "your_public_key"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := NewClient(&config.LiqPay{PublicKey: test.publicKey, PrivateKey: "x"})

			link, ok := client.CheckoutLink(1, decimal.MustParse("50"), "Order #1")
			assert.False(t, ok)
			assert.Empty(t, link)
		})
	}
}

func TestVerify(t *testing.T) {
	const data = "eyJvcmRlcl9pZCI6NDIsInN0YXR1cyI6InN1Y2Nlc3MiLCJhbW91bnQiOjEwMC41LCJjdXJyZW5jeSI6IlVBSCJ9"
	const signature = "q59jKaI3uXhzCUvOMaekCjfJ1FA="

	client := testClient()

	assert.True(t, client.Verify(data, signature))
	assert.False(t, client.Verify(data, "tampered"))
	assert.False(t, client.Verify(data+"x", signature))
}

func TestDecodeCallback(t *testing.T) {
	client := testClient()

	t.Run("numeric fields", func(t *testing.T) {
		// {"order_id":42,"status":"success","amount":100.5,"currency":"UAH"}
		event, err := client.DecodeCallback("eyJvcmRlcl9pZCI6NDIsInN0YXR1cyI6InN1Y2Nlc3MiLCJhbW91bnQiOjEwMC41LCJjdXJyZW5jeSI6IlVBSCJ9")
		require.NoError(t, err)
		assert.Equal(t, int64(42), event.OrderID)
		assert.Equal(t, "success", event.Status)
		assert.True(t, event.AmountSet)
		assert.Equal(t, 0, event.Amount.Cmp(decimal.MustParse("100.5")))
		assert.Equal(t, "UAH", event.Currency)
	})

	t.Run("stringly numeric fields", func(t *testing.T) {
		// {"order_id":"42","status":"failure","amount":"100.50"}
		event, err := client.DecodeCallback("eyJvcmRlcl9pZCI6IjQyIiwic3RhdHVzIjoiZmFpbHVyZSIsImFtb3VudCI6IjEwMC41MCJ9")
		require.NoError(t, err)
		assert.Equal(t, int64(42), event.OrderID)
		assert.Equal(t, "failure", event.Status)
		assert.True(t, event.AmountSet)
		assert.Equal(t, 0, event.Amount.Cmp(decimal.MustParse("100.5")))
		assert.Empty(t, event.Currency)
	})

	t.Run("missing amount", func(t *testing.T) {
		// {"order_id":42,"status":"success"}
		event, err := client.DecodeCallback("eyJvcmRlcl9pZCI6NDIsInN0YXR1cyI6InN1Y2Nlc3MifQ==")
		require.NoError(t, err)
		assert.False(t, event.AmountSet)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := client.DecodeCallback("%%%")
		assert.True(t, errors.Is(err, domain.ErrMalformedCallback))
	})

	t.Run("not json", func(t *testing.T) {
		// base64("oops")
		_, err := client.DecodeCallback("b29wcw==")
		assert.True(t, errors.Is(err, domain.ErrMalformedCallback))
	})

	t.Run("missing order id", func(t *testing.T) {
		// {"status":"success","amount":1}
		_, err := client.DecodeCallback("eyJzdGF0dXMiOiJzdWNjZXNzIiwiYW1vdW50IjoxfQ==")
		assert.True(t, errors.Is(err, domain.ErrMalformedCallback))
	})
}
