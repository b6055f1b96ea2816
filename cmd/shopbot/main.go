package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/equinox-market/shopbot/internal/adapter/catalog"
	"github.com/equinox-market/shopbot/internal/adapter/client/liqpay"
	"github.com/equinox-market/shopbot/internal/adapter/client/telegram"
	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/adapter/handler/bot"
	"github.com/equinox-market/shopbot/internal/adapter/logger"
	"github.com/equinox-market/shopbot/internal/adapter/storage"
	"github.com/equinox-market/shopbot/internal/adapter/storage/repository"
	"github.com/equinox-market/shopbot/internal/core/service"
	"go.uber.org/zap"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	products, err := catalog.New(conf.Catalog, log.Named("Catalog"))
	if err != nil {
		log.Error("catalog loading error", zap.Error(err))
		return
	}

	tgClient, err := telegram.NewClient(conf.Telegram, log.Named("Telegram"))
	if err != nil {
		log.Error("telegram client creating error", zap.Error(err))
		return
	}

	payments := liqpay.NewClient(conf.LiqPay)

	svc, err := service.NewService(repo, products, tgClient, payments,
		conf.Telegram.AdminChatID, conf.LiqPay.Currency, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	botHandler, err := bot.NewHandler(tgClient, svc, conf.Telegram, conf.LiqPay.Currency, log.Named("Bot"))
	if err != nil {
		log.Error("bot handler creating error", zap.Error(err))
		return
	}

	err = botHandler.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Error("bot run error", zap.Error(err))
	}
}
