package http

import (
	"errors"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service port.Service
	codec   port.CallbackCodec
	metrics *Metrics
}

func NewPaymentHandler(service port.Service, codec port.CallbackCodec,
	metrics *Metrics, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
		codec:   codec,
		metrics: metrics,
	}, nil
}

// PaymentCallback receives the provider's server-to-server notification:
// form fields "data" (base64 JSON) and "signature". Each request is verified
// and reconciled independently, replays are safe.
func (ph *PaymentHandler) PaymentCallback(ctx *gin.Context) {
	data := ctx.PostForm("data")
	signature := ctx.PostForm("signature")

	if data == "" || signature == "" {
		ph.metrics.Observe(resultMalformed)
		ph.handleError(ctx, domain.ErrMalformedCallback)
		return
	}

	if !ph.codec.Verify(data, signature) {
		ph.logger.Warn("invalid callback signature")
		ph.metrics.Observe(resultBadSignature)
		ph.handleError(ctx, domain.ErrInvalidSignature)
		return
	}

	event, err := ph.codec.DecodeCallback(data)
	if err != nil {
		ph.metrics.Observe(resultMalformed)
		ph.handleError(ctx, domain.ErrMalformedCallback)
		return
	}

	err = ph.service.ApplyPayment(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			ph.logger.Warn("callback for unknown order", zap.Int64("order", event.OrderID))
		}
		ph.metrics.Observe(resultRejected)
		ph.handleError(ctx, err)
		return
	}

	ph.metrics.Observe(resultOK)
	ph.handleSuccess(ctx)
}

// Health always reports ok.
func (ph *PaymentHandler) Health(ctx *gin.Context) {
	ph.handleSuccess(ctx)
}
