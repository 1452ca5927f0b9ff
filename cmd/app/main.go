package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"telegram-shop-bot/internal/application"
	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/infra/api"
	"telegram-shop-bot/internal/infra/logging"
	"telegram-shop-bot/internal/infra/metrics"
	"telegram-shop-bot/internal/infra/moltin"
	red "telegram-shop-bot/internal/infra/redis"
	tele "telegram-shop-bot/internal/infra/telegram"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.Register()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	stateRepo := red.NewStateRepo(redisClient, cfg.Redis.StateTTL)
	locker := red.NewLocker(redisClient)

	// ---- Commerce backend ----
	catalog := moltin.NewClient(&cfg.Moltin)

	// ---- Telegram ----
	bot, err := tele.NewRealBot(&cfg.Bot, nil, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	// ---- Conversation core ----
	machine := application.NewMachine(catalog, bot, logger)
	dispatcher := application.NewDispatcher(machine, stateRepo, locker, logger,
		cfg.Dispatch.TurnTimeout, cfg.Dispatch.LockTTL)
	bot.SetHandler(dispatcher)

	if cfg.Bot.Mode != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin server (health + metrics) ----
	adminSrv := api.NewServer(cfg.Admin.Port, redisClient, logger)
	go func() {
		if err := adminSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	bot.StopPolling()
	_ = adminSrv.Shutdown(context.Background())
}
