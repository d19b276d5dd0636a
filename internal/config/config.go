package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Backend API
	BackendAPIURL     string
	BackendAPITimeout time.Duration

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Delivery channels
	MailAPIURL      string
	MailAPIKey      string
	MailFrom        string
	SlackWebhookURL string

	// Dispatcher settings
	CheckInterval   time.Duration
	MaxAlertsPerRun int

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		BackendAPITimeout: 30 * time.Second,
		CheckInterval:     time.Hour,
		MaxAlertsPerRun:   10,
		LogLevel:          "info",
		RedisDB:           0,
	}

	cfg.BackendAPIURL = os.Getenv("BACKEND_API_URL")
	if cfg.BackendAPIURL == "" {
		return nil, fmt.Errorf("BACKEND_API_URL is required")
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else {
		cfg.RedisAddr = "localhost:6379"
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if timeout := os.Getenv("BACKEND_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKEND_API_TIMEOUT: %w", err)
		}
		cfg.BackendAPITimeout = d
	}

	cfg.MailAPIURL = os.Getenv("MAIL_API_URL")
	cfg.MailAPIKey = os.Getenv("MAIL_API_KEY")
	cfg.MailFrom = os.Getenv("MAIL_FROM")
	cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")

	if interval := os.Getenv("CHECK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.CheckInterval = d
	}

	if maxAlerts := os.Getenv("MAX_ALERTS_PER_RUN"); maxAlerts != "" {
		n, err := strconv.Atoi(maxAlerts)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_ALERTS_PER_RUN: %w", err)
		}
		cfg.MaxAlertsPerRun = n
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BackendAPIURL == "" {
		return fmt.Errorf("backend API URL is empty")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.CheckInterval < time.Minute {
		return fmt.Errorf("check interval too small: %v", c.CheckInterval)
	}

	if c.MaxAlertsPerRun < 1 || c.MaxAlertsPerRun > 100 {
		return fmt.Errorf("max alerts per run must be between 1 and 100")
	}

	if c.MailAPIURL == "" && c.SlackWebhookURL == "" {
		return fmt.Errorf("at least one delivery channel must be configured")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
