package main

import (
	"context"
	"fmt"

	"github.com/equinox-market/shopbot/internal/adapter/client/liqpay"
	"github.com/equinox-market/shopbot/internal/adapter/client/telegram"
	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/adapter/handler/http"
	"github.com/equinox-market/shopbot/internal/adapter/logger"
	"github.com/equinox-market/shopbot/internal/adapter/storage"
	"github.com/equinox-market/shopbot/internal/adapter/storage/repository"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/service"
	"go.uber.org/zap"
)

// noCatalog backs the webhook process: payment reconciliation never
// resolves products, the orders were built by the bot process.
type noCatalog struct{}

func (noCatalog) Product(id int64) *domain.Product { return nil }
func (noCatalog) FindOption(p *domain.Product, optionID string) *domain.Option {
	return nil
}

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("order repo creating error", zap.Error(err))
		return
	}

	tgClient, err := telegram.NewClient(conf.Telegram, log.Named("Telegram"))
	if err != nil {
		log.Error("telegram client creating error", zap.Error(err))
		return
	}

	payments := liqpay.NewClient(conf.LiqPay)

	svc, err := service.NewService(repo, noCatalog{}, tgClient, payments,
		conf.Telegram.AdminChatID, conf.LiqPay.Currency, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	metrics := http.NewMetrics()
	paymentHandler, err := http.NewPaymentHandler(svc, payments, metrics, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, paymentHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
