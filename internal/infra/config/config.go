package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMediaURLs is the stock media rotation used when REMINDER_GIFS is
// not set.
var DefaultMediaURLs = []string{
	"https://media.giphy.com/media/QuvgjttKi5GL4TPtLB/giphy.gif",
	"https://media.giphy.com/media/tVOlt6mzRFNPuLFL40/giphy.gif",
	"https://media.giphy.com/media/FYXNxV12QG4HspSgOo/giphy.gif",
	"https://media.giphy.com/media/l2Jeg2UYi9opZqxJS/giphy.gif",
	"https://media.giphy.com/media/26ufffLixTAsLgA8g/giphy.gif",
	"https://media.giphy.com/media/11Y9TiZzmEBe25QRSw/giphy.gif",
	"https://media.giphy.com/media/5xaOcLCBzBw4QrtdDP2/giphy.gif",
}

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken string
	FixedChatID   int64 // 0 means "no fixed chat": deliver to every registered group chat

	ReminderWeekday int // 0-6, Sunday=0
	ReminderHour    int
	ReminderMinute  int
	Timezone        string
	Message         string
	MediaURLs       []string

	CatchUpEnabled      bool
	CatchUpMaxStaleness time.Duration // negative means unlimited
	DryRun              bool

	StateFile   string
	ChatsFile   string
	DatabaseURL string // non-empty switches the dedup store to Postgres

	CronSpecHeartbeat string
	LogLevel          string
	Environment       string
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv does not override variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	if raw := os.Getenv("CHAT_ID"); raw != "" {
		cfg.FixedChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_ID: %w", err)
		}
	}

	cfg.ReminderWeekday, err = intInRange("REMINDER_WEEKDAY", 3, 0, 6)
	if err != nil {
		return nil, err
	}
	cfg.ReminderHour, err = intInRange("REMINDER_HOUR", 0, 0, 23)
	if err != nil {
		return nil, err
	}
	cfg.ReminderMinute, err = intInRange("REMINDER_MINUTE", 0, 0, 59)
	if err != nil {
		return nil, err
	}

	cfg.Timezone = os.Getenv("REMINDER_TZ")
	if cfg.Timezone == "" {
		cfg.Timezone = "America/New_York"
	}

	cfg.Message = os.Getenv("REMINDER_MESSAGE")
	if cfg.Message == "" {
		cfg.Message = "take out the trash"
	}

	cfg.MediaURLs = DefaultMediaURLs
	if raw := os.Getenv("REMINDER_GIFS"); raw != "" {
		cfg.MediaURLs = nil
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.MediaURLs = append(cfg.MediaURLs, u)
			}
		}
		if len(cfg.MediaURLs) == 0 {
			return nil, fmt.Errorf("REMINDER_GIFS is set but contains no URLs")
		}
	}

	cfg.CatchUpEnabled, err = boolOrDefault("CATCHUP_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg.CatchUpMaxStaleness = -1 // unlimited unless set
	if raw := os.Getenv("CATCHUP_MAX_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CATCHUP_MAX_HOURS: %w", err)
		}
		if hours < 0 {
			return nil, fmt.Errorf("CATCHUP_MAX_HOURS must be >= 0, got %d", hours)
		}
		cfg.CatchUpMaxStaleness = time.Duration(hours) * time.Hour
	}

	cfg.DryRun, err = boolOrDefault("DRY_RUN", false)
	if err != nil {
		return nil, err
	}

	cfg.StateFile = os.Getenv("STATE_FILE")
	if cfg.StateFile == "" {
		cfg.StateFile = "reminder_state.json"
	}
	cfg.ChatsFile = os.Getenv("CHATS_FILE")
	if cfg.ChatsFile == "" {
		cfg.ChatsFile = "chats.json"
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.CronSpecHeartbeat = os.Getenv("CRON_SPEC_HEARTBEAT")
	if cfg.CronSpecHeartbeat == "" {
		cfg.CronSpecHeartbeat = "0 9 * * *" // Default: 9:00 AM daily
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

func intInRange(name string, def, min, max int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be in [%d,%d], got %d", name, min, max, v)
	}
	return v, nil
}

func boolOrDefault(name string, def bool) (bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
