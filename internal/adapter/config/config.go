package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Telegram *Telegram
	LiqPay   *LiqPay
	Catalog  *Catalog
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	// AdminChatID authorizes admin commands: a sender or a chat with this
	// id is treated as the admin. Known-weak model, no secret involved.
	AdminChatID int64  `env:"ADMIN_CHAT_ID"`
	WebAppURL   string `env:"WEBAPP_URL"`
}

type LiqPay struct {
	PublicKey  string `env:"LIQPAY_PUBLIC_KEY"`
	PrivateKey string `env:"LIQPAY_PRIVATE_KEY"`
	Sandbox    bool   `env:"LIQPAY_SANDBOX"`
	ResultURL  string `env:"LIQPAY_RESULT_URL"`
	ServerURL  string `env:"LIQPAY_SERVER_URL"`
	Currency   string `env:"SETTLEMENT_CURRENCY"`
}

type Catalog struct {
	ProductsPath string `env:"PRODUCTS_PATH"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var telegram Telegram
	var liqpay LiqPay
	var catalog Catalog
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&telegram.BotToken, "t", "", "Telegram bot token")
	flag.Int64Var(&telegram.AdminChatID, "admin", 0, "Admin chat id")
	flag.StringVar(&telegram.WebAppURL, "w", "", "Web app URL")
	flag.StringVar(&catalog.ProductsPath, "p", `products.json`, "Path to products.json")
	flag.StringVar(&liqpay.Currency, "c", `UAH`, "Settlement currency")
	flag.BoolVar(&liqpay.Sandbox, "sandbox", true, "LiqPay sandbox mode")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&telegram)
	if err != nil {
		return nil, fmt.Errorf("error parsing telegram config: %w", err)
	}
	err = env.Parse(&liqpay)
	if err != nil {
		return nil, fmt.Errorf("error parsing liqpay config: %w", err)
	}
	err = env.Parse(&catalog)
	if err != nil {
		return nil, fmt.Errorf("error parsing catalog config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	// The provider posts server-to-server callbacks next to the web app
	// unless an explicit URL is given.
	if liqpay.ServerURL == "" && telegram.WebAppURL != "" {
		liqpay.ServerURL = strings.TrimRight(telegram.WebAppURL, "/") + "/payment_callback"
	}
	if liqpay.ResultURL == "" {
		liqpay.ResultURL = telegram.WebAppURL
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Telegram: &telegram,
		LiqPay:   &liqpay,
		Catalog:  &catalog,
		App:      &app,
	}

	return &config, nil
}
