package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"opportunity-alerts/internal/api/tracker"
	"opportunity-alerts/internal/config"
	"opportunity-alerts/internal/logger"
	"opportunity-alerts/internal/notify"
	"opportunity-alerts/internal/scheduler"
	"opportunity-alerts/internal/storage/postgres"
	"opportunity-alerts/internal/storage/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting opportunity alert dispatcher",
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("check_interval", cfg.CheckInterval),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	apiClient := tracker.New(cfg.BackendAPIURL, cfg.BackendAPITimeout, log)
	log.Info("tracker API client created")

	var emailSender, slackSender notify.Notifier
	if cfg.MailAPIURL != "" {
		emailSender = notify.NewEmailSender(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.BackendAPITimeout, log)
		log.Info("email delivery enabled")
	}
	if cfg.SlackWebhookURL != "" {
		slackSender = notify.NewSlackSender(cfg.SlackWebhookURL, cfg.BackendAPITimeout, log)
		log.Info("slack delivery enabled")
	}

	registry := notify.NewRegistry(emailSender, slackSender, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	dispatcher := scheduler.New(
		apiClient,
		store,
		cache,
		registry,
		cfg,
		log,
	)

	log.Info("dispatcher is running...")
	dispatcher.Start(ctx)

	log.Info("shutting down gracefully...")
	log.Info("dispatcher stopped")
}
