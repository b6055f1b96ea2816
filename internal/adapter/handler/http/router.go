package http

import (
	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	*gin.Engine
}

func NewRouter(conf *config.HTTP, paymentHandler *PaymentHandler) (*Router, error) {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/payment_callback", paymentHandler.PaymentCallback)
	router.GET("/health", paymentHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
