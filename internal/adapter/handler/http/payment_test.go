package http

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/equinox-market/shopbot/internal/adapter/client/liqpay"
	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port/mock"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCodec() *liqpay.Client {
	return liqpay.NewClient(&config.LiqPay{
		PublicKey:  "sandbox_public",
		PrivateKey: "test_private_key",
		Currency:   "UAH",
	})
}

func newTestRouter(t *testing.T, service *mock.MockService) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := zap.NewProduction()
	// nil metrics: the prometheus registry is process-global and the
	// counters are not under test here
	handler, err := NewPaymentHandler(service, testCodec(), nil, logger)
	require.NoError(t, err)

	router, err := NewRouter(&config.HTTP{}, handler)
	require.NoError(t, err)
	return router
}

func postCallback(router *Router, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment_callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signedForm(payload string) url.Values {
	codec := testCodec()
	data := base64.StdEncoding.EncodeToString([]byte(payload))
	return url.Values{
		"data":      {data},
		"signature": {codec.Sign(data)},
	}
}

func TestPaymentCallback_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mock.NewMockService(ctrl)
	service.EXPECT().ApplyPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ *gin.Context, event *domain.PaymentEvent) error {
			assert.Equal(t, int64(42), event.OrderID)
			assert.Equal(t, "success", event.Status)
			return nil
		})

	router := newTestRouter(t, service)
	rec := postCallback(router, signedForm(`{"order_id":42,"status":"success","amount":100.5,"currency":"UAH"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPaymentCallback_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock.NewMockService(ctrl))

	rec := postCallback(router, url.Values{"data": {"eyJ9"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postCallback(router, url.Values{"signature": {"sig"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentCallback_TamperedSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no ApplyPayment expectation: a bad signature must not reach the service
	router := newTestRouter(t, mock.NewMockService(ctrl))

	form := signedForm(`{"order_id":42,"status":"success","amount":100.5}`)
	form.Set("signature", "AAAA"+form.Get("signature"))
	rec := postCallback(router, form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentCallback_MalformedData(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock.NewMockService(ctrl))

	// valid signature over a blob with no order_id
	rec := postCallback(router, signedForm(`{"status":"success"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentCallback_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		applyErr  error
		expStatus int
	}{
		{name: "unknown order", applyErr: domain.ErrDataNotFound, expStatus: http.StatusNotFound},
		{name: "amount mismatch", applyErr: domain.ErrAmountMismatch, expStatus: http.StatusBadRequest},
		{name: "currency mismatch", applyErr: domain.ErrCurrencyMismatch, expStatus: http.StatusBadRequest},
		{name: "internal", applyErr: domain.ErrInternal, expStatus: http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mock.NewMockService(ctrl)
			service.EXPECT().ApplyPayment(gomock.Any(), gomock.Any()).Return(test.applyErr)

			router := newTestRouter(t, service)
			rec := postCallback(router, signedForm(`{"order_id":42,"status":"success","amount":100.5}`))

			assert.Equal(t, test.expStatus, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock.NewMockService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
