package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	BotAPIAddress    string
	BotToken         string
	StaffChatID      int64
	HesabfaAddress   string
	HesabfaAPIKey    string
	AuthSecret       string
	ReminderInterval time.Duration
	OutboxInterval   time.Duration
	OutboxBatch      int
	OutboxAttempts   int
	OutboxWorkers    int
	NotifyRetries    int
	ShutdownTimeout  time.Duration
}

const (
	defaultRunAddress       = ":8080"
	defaultBotAPIAddress    = "https://api.telegram.org"
	defaultHesabfaAddress   = "https://api.hesabfa.com/v1"
	defaultAuthSecret       = "change-me-in-production"
	defaultReminderInterval = time.Hour
	defaultOutboxInterval   = 5 * time.Second
	defaultOutboxBatch      = 16
	defaultOutboxAttempts   = 5
	defaultOutboxWorkers    = 2
	defaultNotifyRetries    = 3
	defaultShutdownTimeout  = 10 * time.Second
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		BotAPIAddress:    getString(lookup, "BOT_API_ADDRESS", defaultBotAPIAddress),
		BotToken:         getString(lookup, "BOT_TOKEN", ""),
		StaffChatID:      getInt64(lookup, "STAFF_CHAT_ID", 0),
		HesabfaAddress:   getString(lookup, "HESABFA_ADDRESS", defaultHesabfaAddress),
		HesabfaAPIKey:    getString(lookup, "HESABFA_API_KEY", ""),
		AuthSecret:       getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		ReminderInterval: getDuration(lookup, "REMINDER_INTERVAL", defaultReminderInterval),
		OutboxInterval:   getDuration(lookup, "OUTBOX_POLL_INTERVAL", defaultOutboxInterval),
		OutboxBatch:      getInt(lookup, "OUTBOX_BATCH_SIZE", defaultOutboxBatch),
		OutboxAttempts:   getInt(lookup, "OUTBOX_MAX_ATTEMPTS", defaultOutboxAttempts),
		OutboxWorkers:    getInt(lookup, "OUTBOX_WORKERS", defaultOutboxWorkers),
		NotifyRetries:    getInt(lookup, "NOTIFY_RETRIES", defaultNotifyRetries),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reminderIntervalStr = cfg.ReminderInterval.String()
		outboxIntervalStr   = cfg.OutboxInterval.String()
		shutdownTimeoutStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.BotAPIAddress, "bot-api", cfg.BotAPIAddress, "Bot API base URL")
	fs.StringVar(&cfg.BotToken, "bot-token", cfg.BotToken, "Bot API token")
	fs.Int64Var(&cfg.StaffChatID, "staff-chat", cfg.StaffChatID, "Staff group chat identifier")
	fs.StringVar(&cfg.HesabfaAddress, "hesabfa", cfg.HesabfaAddress, "Hesabfa API base URL")
	fs.StringVar(&cfg.HesabfaAPIKey, "hesabfa-key", cfg.HesabfaAPIKey, "Hesabfa API key")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&reminderIntervalStr, "reminder-interval", reminderIntervalStr, "Interval between reminder scans")
	fs.StringVar(&outboxIntervalStr, "outbox-interval", outboxIntervalStr, "Interval between invoice outbox polls")
	fs.IntVar(&cfg.OutboxBatch, "outbox-batch", cfg.OutboxBatch, "Maximum outbox requests per poll")
	fs.IntVar(&cfg.OutboxAttempts, "outbox-attempts", cfg.OutboxAttempts, "Maximum invoicing attempts per request")
	fs.IntVar(&cfg.OutboxWorkers, "outbox-workers", cfg.OutboxWorkers, "Concurrent invoicing workers")
	fs.IntVar(&cfg.NotifyRetries, "notify-retries", cfg.NotifyRetries, "Send attempts before the fallback message")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReminderInterval, err = time.ParseDuration(reminderIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reminder interval: %w", err)
	}

	if cfg.OutboxInterval, err = time.ParseDuration(outboxIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid outbox interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = defaultReminderInterval
	}

	if cfg.OutboxInterval <= 0 {
		cfg.OutboxInterval = defaultOutboxInterval
	}

	if cfg.OutboxBatch <= 0 {
		cfg.OutboxBatch = defaultOutboxBatch
	}

	if cfg.OutboxAttempts <= 0 {
		cfg.OutboxAttempts = defaultOutboxAttempts
	}

	if cfg.OutboxWorkers <= 0 {
		cfg.OutboxWorkers = defaultOutboxWorkers
	}

	if cfg.NotifyRetries <= 0 {
		cfg.NotifyRetries = defaultNotifyRetries
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token must be provided")
	}

	if cfg.StaffChatID == 0 {
		return nil, fmt.Errorf("staff chat id must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
