package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"reptile-pricer/bot"
	"reptile-pricer/config"
	"reptile-pricer/scraper/morphmarket"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

func main() {
	var token string
	flag.StringVar(&token, "token", "", "Telegram bot token (or set TELEGRAM_BOT_TOKEN)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger(utils.LevelInfo).Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	if token == "" {
		token = cfg.TelegramToken
	}
	if token == "" {
		logger.Error("Telegram bot token is required. Set -token flag or TELEGRAM_BOT_TOKEN env var")
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot: %v", err)
		os.Exit(1)
	}
	logger.Info("Authorized on account %s (scrape mode: %s)", api.Self.UserName, cfg.ScrapeMode)

	pipeline := services.NewPipeline(morphmarket.New(cfg, logger), logger)
	handler := bot.NewHandler(pipeline,
		bot.Defaults{Morph: cfg.DefaultMorph, Cost: int64(cfg.DefaultCost)},
		cfg.TelegramAllowedUsers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot.Run(ctx, api, handler, 60)
	logger.Info("Telegram bot stopped")
}
